// Package clauses provides the library of legal clauses that can be appended
// to an Order Document.
//
// A library is an ordered list of titled clauses. Order matters: when a
// requested name matches more than one title, the first one wins.
package clauses

import (
	"strings"
)

// Clause is one titled block of legal text.
type Clause struct {
	Title string
	Text  string
	// Source is the file the clause was read from, for diagnostics.
	Source string
}

// Library is an ordered, read-only set of clauses.
type Library struct {
	clauses []Clause
}

// NewLibrary builds a library. Later clauses with a title already seen
// replace the earlier text but keep the earlier position.
func NewLibrary(clauses ...Clause) *Library {
	lib := &Library{}
	index := make(map[string]int, len(clauses))
	for _, c := range clauses {
		if i, ok := index[c.Title]; ok {
			lib.clauses[i] = c
			continue
		}
		index[c.Title] = len(lib.clauses)
		lib.clauses = append(lib.clauses, c)
	}
	return lib
}

// Len returns the number of clauses.
func (l *Library) Len() int {
	return len(l.clauses)
}

// Titles returns clause titles in library order.
func (l *Library) Titles() []string {
	titles := make([]string, len(l.clauses))
	for i, c := range l.clauses {
		titles[i] = c.Title
	}
	return titles
}

// Clauses returns a copy of the clauses in library order.
func (l *Library) Clauses() []Clause {
	return append([]Clause(nil), l.clauses...)
}

// Get returns the clause with exactly this title.
func (l *Library) Get(title string) (Clause, bool) {
	for _, c := range l.clauses {
		if c.Title == title {
			return c, true
		}
	}
	return Clause{}, false
}

// Match resolves a free-form clause name. It returns the first clause whose
// title, ignoring case, appears anywhere in name; so "add the Confidentiality
// clause" resolves to "Confidentiality".
func (l *Library) Match(name string) (Clause, bool) {
	haystack := strings.ToLower(name)
	for _, c := range l.clauses {
		if c.Title == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(c.Title)) {
			return c, true
		}
	}
	return Clause{}, false
}

// Package versions implements the naming scheme for quote documents.
//
// A quote number Q owns objects named "Q.docx" (version 0) and "Q_vN.docx"
// for N >= 1. Every edit produces the next version; nothing is overwritten.
package versions

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"oddrafter/pkg/fileops"
)

// Extension is the file extension of every quote document.
const Extension = ".docx"

var (
	// ErrInvalidQuote is returned for quote numbers that cannot name an object.
	ErrInvalidQuote = errors.New("invalid quote number")
	// ErrVersionOverflow is returned when the highest stored version is the
	// largest representable number, so no later version can be named.
	ErrVersionOverflow = errors.New("no version number left after the latest")
)

// Version is one stored revision of a quote document.
type Version struct {
	Number int
	Name   string
}

// ValidateQuote checks that quote can safely prefix an object name.
func ValidateQuote(quote string) error {
	if strings.TrimSpace(quote) == "" {
		return fmt.Errorf("%w: quote number cannot be empty", ErrInvalidQuote)
	}
	if err := fileops.ValidateObjectName(quote + Extension); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidQuote, quote, err)
	}
	return nil
}

// Matcher recognises the object names that belong to one quote.
type Matcher struct {
	quote   string
	pattern *regexp.Regexp
}

// NewMatcher compiles the name pattern for quote.
func NewMatcher(quote string) (*Matcher, error) {
	if err := ValidateQuote(quote); err != nil {
		return nil, err
	}
	pattern, err := regexp.Compile(`^` + regexp.QuoteMeta(quote) + `(_v(\d+))?\.docx$`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile version pattern: %w", err)
	}
	return &Matcher{quote: quote, pattern: pattern}, nil
}

// Quote returns the quote number this matcher was built for.
func (m *Matcher) Quote() string {
	return m.quote
}

// Parse reports the version number encoded in name, or false when name does
// not belong to the quote.
func (m *Matcher) Parse(name string) (int, bool) {
	match := m.pattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	if match[2] == "" {
		return 0, true
	}
	n, err := strconv.Atoi(match[2])
	if err != nil {
		// digits too long for an int
		return 0, false
	}
	return n, true
}

// Filter returns the versions of the quote found in names, ascending by
// number. Equal numbers keep their listing order.
func (m *Matcher) Filter(names []string) []Version {
	var found []Version
	for _, name := range names {
		if n, ok := m.Parse(name); ok {
			found = append(found, Version{Number: n, Name: name})
		}
	}
	slices.SortStableFunc(found, func(a, b Version) int {
		return a.Number - b.Number
	})
	return found
}

// Latest returns the highest version of the quote in names. When two names
// encode the same number the first one listed wins.
func (m *Matcher) Latest(names []string) (Version, bool) {
	var latest Version
	found := false
	for _, name := range names {
		n, ok := m.Parse(name)
		if !ok {
			continue
		}
		if !found || n > latest.Number {
			latest = Version{Number: n, Name: name}
			found = true
		}
	}
	return latest, found
}

// Next returns the name the next version of the quote should be stored under.
// A quote with no stored versions starts at _v1.
func (m *Matcher) Next(names []string) (Version, error) {
	maxVersion := 0
	for _, name := range names {
		if n, ok := m.Parse(name); ok && n > maxVersion {
			maxVersion = n
		}
	}
	if maxVersion == math.MaxInt {
		return Version{}, fmt.Errorf("%w: %s", ErrVersionOverflow, FileName(m.quote, maxVersion))
	}
	return Version{Number: maxVersion + 1, Name: FileName(m.quote, maxVersion+1)}, nil
}

// FileName returns the object name for version n of quote.
func FileName(quote string, n int) string {
	if n == 0 {
		return quote + Extension
	}
	return fmt.Sprintf("%s_v%d%s", quote, n, Extension)
}

package drafter

import (
	"context"
	"fmt"
	"time"

	"oddrafter/internal/clauses"
	"oddrafter/internal/versions"
)

// ClauseHeadingLevel is the heading style used for appended clause titles.
const ClauseHeadingLevel = 2

// ClauseResult describes an AppendClause call.
type ClauseResult struct {
	Status Status
	// Requested is the clause name as given by the caller.
	Requested string
	// Clause is the resolved clause; zero for StatusClauseNotFound.
	Clause clauses.Clause
	// Options lists every clause title when the name did not resolve.
	Options []string
	// Source is the version that was read.
	Source versions.Version
	// Created is the version that was written, for StatusCreated.
	Created versions.Version
	URL     string
}

// AppendClause appends the clause matching clauseName to the latest version
// of quote as a heading followed by the clause text.
func (s *Service) AppendClause(ctx context.Context, quote, clauseName string, progress Progress) (ClauseResult, error) {
	start := time.Now()
	defer s.logger.LogPerformance("append_clause", start)

	res := ClauseResult{Requested: clauseName}
	log := s.logger.With("quote", quote)

	lib, err := s.Clauses(ctx)
	if err != nil {
		return res, err
	}
	clause, ok := lib.Match(clauseName)
	if !ok {
		res.Status = StatusClauseNotFound
		res.Options = lib.Titles()
		log.Info("Clause not found", "clause", clauseName, "options", len(res.Options))
		return res, nil
	}
	res.Clause = clause

	m, err := versions.NewMatcher(quote)
	if err != nil {
		return res, err
	}

	onFetched := func(l latest) {
		report(ctx, progress, fmt.Sprintf("Editing latest file: %s", l.version.Name))
	}
	change := func(l latest) (Status, error) {
		if l.doc.ContainsParagraph(clause.Title) {
			return StatusAlreadyPresent, nil
		}
		if _, err := l.doc.AddHeading(clause.Title, ClauseHeadingLevel); err != nil {
			return 0, err
		}
		l.doc.AddParagraph(clause.Text)
		return StatusCreated, nil
	}

	status, l, created, url, err := s.edit(ctx, m, onFetched, change)
	res.Status, res.Source, res.Created, res.URL = status, l.version, created, url
	if err != nil {
		log.Error("Append clause failed", "clause", clause.Title, "error", err)
		return res, err
	}

	log.Info("Append clause finished",
		"clause", clause.Title,
		"status", status,
		"source", l.version.Name,
		"created", created.Name,
		"elapsed", since(start))
	return res, nil
}

package drafter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oddrafter/internal/docx"
	"oddrafter/internal/versions"
)

// LineItem is one row of the pricing table: item, description, price.
type LineItem struct {
	ItemName    string
	Description string
	Price       string
}

// Missing returns the parameter names of the empty fields, in table order.
func (li LineItem) Missing() []string {
	var missing []string
	if strings.TrimSpace(li.ItemName) == "" {
		missing = append(missing, "item_name")
	}
	if strings.TrimSpace(li.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(li.Price) == "" {
		missing = append(missing, "price")
	}
	return missing
}

// LineItemResult describes an AddLineItem call.
type LineItemResult struct {
	Status  Status
	Item    LineItem
	Missing []string
	Source  versions.Version
	Created versions.Version
	URL     string
}

// AddLineItem appends item as a new row of the first table in the latest
// version of quote.
func (s *Service) AddLineItem(ctx context.Context, quote string, item LineItem, progress Progress) (LineItemResult, error) {
	start := time.Now()
	defer s.logger.LogPerformance("add_line_item", start)

	res := LineItemResult{Item: item}
	log := s.logger.With("quote", quote)

	if missing := item.Missing(); len(missing) > 0 {
		res.Status = StatusMissingFields
		res.Missing = missing
		return res, nil
	}

	m, err := versions.NewMatcher(quote)
	if err != nil {
		return res, err
	}

	onFetched := func(l latest) {
		report(ctx, progress, fmt.Sprintf("Adding row '%s' to %s", item.ItemName, l.version.Name))
	}
	change := func(l latest) (Status, error) {
		table, err := l.doc.FirstTable()
		if errors.Is(err, docx.ErrNoTables) {
			return StatusNoTables, nil
		}
		if err != nil {
			return 0, err
		}
		if rowExists(table, item) {
			return StatusAlreadyPresent, nil
		}
		if _, err := table.AddRow(item.ItemName, item.Description, item.Price); err != nil {
			return 0, fmt.Errorf("failed to add row: %w", err)
		}
		return StatusCreated, nil
	}

	status, l, created, url, err := s.edit(ctx, m, onFetched, change)
	res.Status, res.Source, res.Created, res.URL = status, l.version, created, url
	if err != nil {
		log.Error("Add line item failed", "item", item.ItemName, "error", err)
		return res, err
	}

	log.Info("Add line item finished",
		"item", item.ItemName,
		"status", status,
		"source", l.version.Name,
		"created", created.Name,
		"elapsed", since(start))
	return res, nil
}

// rowExists reports whether a row already names the item in its first cell
// and the price in its third. Rows with fewer than three cells never match.
func rowExists(table *docx.Table, item LineItem) bool {
	name := strings.ToLower(item.ItemName)
	price := strings.ToLower(item.Price)
	for _, row := range table.Rows() {
		cells := row.Cells()
		if len(cells) < 3 {
			continue
		}
		if strings.Contains(strings.ToLower(cells[0]), name) && strings.Contains(strings.ToLower(cells[2]), price) {
			return true
		}
	}
	return false
}

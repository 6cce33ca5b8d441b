package mcp

import (
	"fmt"
	"strings"

	"oddrafter/internal/drafter"
	"oddrafter/internal/versions"
)

// clauseMessages renders an AppendClause outcome. isError marks results the
// client should treat as failed.
func clauseMessages(quote string, res drafter.ClauseResult) (texts []string, isError bool) {
	switch res.Status {
	case drafter.StatusClauseNotFound:
		return []string{fmt.Sprintf("❌ Clause '%s' not found. Options: %s", res.Requested, strings.Join(res.Options, ", "))}, true
	case drafter.StatusQuoteNotFound:
		return []string{fmt.Sprintf("❌ No files found for Quote %s", quote)}, true
	case drafter.StatusAlreadyPresent:
		return []string{fmt.Sprintf("⚠️ Clause '%s' already exists in %s. No changes made.", res.Clause.Title, res.Source.Name)}, false
	case drafter.StatusCreated:
		return []string{
			fmt.Sprintf("✅ Added '%s'. New version created.", res.Clause.Title),
			fmt.Sprintf("📄 View: %s", res.URL),
		}, false
	default:
		return []string{fmt.Sprintf("❌ Error: unexpected outcome %s", res.Status)}, true
	}
}

// lineItemMessage renders an AddLineItem outcome. These are plain text
// replies; none is flagged as an error.
func lineItemMessage(quote string, res drafter.LineItemResult) string {
	switch res.Status {
	case drafter.StatusMissingFields:
		return fmt.Sprintf("⚠️ Missing details: %s. Please try again providing Item Name, Description, and Price.", strings.Join(res.Missing, ", "))
	case drafter.StatusQuoteNotFound:
		return fmt.Sprintf("❌ Quote %s not found.", quote)
	case drafter.StatusNoTables:
		return "❌ No tables found in document."
	case drafter.StatusAlreadyPresent:
		return fmt.Sprintf("⚠️ Row '%s' already exists in %s. No changes made.", res.Item.ItemName, res.Source.Name)
	case drafter.StatusCreated:
		return fmt.Sprintf("✅ Added row '%s'. View: %s", res.Item.ItemName, res.URL)
	default:
		return fmt.Sprintf("❌ Error: unexpected outcome %s", res.Status)
	}
}

func errorMessage(err error) string {
	return fmt.Sprintf("❌ Error: %v", err)
}

func versionsMessage(quote string, list []versions.Version, urlFor func(string) string) string {
	if len(list) == 0 {
		return fmt.Sprintf("❌ No files found for Quote %s", quote)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📚 Quote %s has %d version(s):", quote, len(list))
	for _, v := range list {
		fmt.Fprintf(&b, "\n- v%d %s %s", v.Number, v.Name, urlFor(v.Name))
	}
	return b.String()
}

func clausesMessage(titles []string) string {
	if len(titles) == 0 {
		return "⚠️ No clauses are configured."
	}
	return "📚 Available clauses: " + strings.Join(titles, ", ")
}

// Package ui renders the clause library for terminals: a markdown preview
// for `oddrafter clauses --render` and an interactive browser for
// `oddrafter clauses --browse`.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"oddrafter/internal/clauses"
)

const defaultWidth = 80

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	HelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	EmptyStyle = lipgloss.NewStyle().Faint(true)
)

// DetectStyle picks a glamour style for stdout. GLAMOUR_STYLE wins when set
// to a concrete value; otherwise the terminal background is queried, and a
// terminal that does not answer within timeout gets "dark".
func DetectStyle(timeout time.Duration) string {
	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	out := termenv.NewOutput(os.Stdout)
	if out.Profile == termenv.Ascii {
		return "notty"
	}

	ch := make(chan string, 1)
	go func() {
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return "dark"
	}
}

// ClauseMarkdown lays the library out as one markdown document, one
// second-level heading per clause, matching what draft_docx_od appends.
func ClauseMarkdown(list []clauses.Clause) string {
	var b strings.Builder
	b.WriteString("# Clause library\n\n")
	if len(list) == 0 {
		b.WriteString("_No clauses are configured._\n")
		return b.String()
	}
	for _, c := range list {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", c.Title, strings.TrimSpace(c.Text))
	}
	return b.String()
}

// Render turns markdown into styled terminal text.
func Render(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = defaultWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// Wrap word-wraps text to width and indents every line by pad spaces.
func Wrap(text string, width, pad int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if width-pad > 0 {
		text = wordwrap.String(text, width-pad)
	}
	return indent.String(text, uint(pad))
}

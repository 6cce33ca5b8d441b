package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"oddrafter/internal/clauses"
)

type browserMode int

const (
	modeList browserMode = iota
	modePreview
)

// RenderFunc turns clause markdown into terminal text of the given width.
type RenderFunc func(markdown string, width int) (string, error)

// Browser is a Bubble Tea model for paging through the clause library.
// Enter opens a clause, esc goes back, q quits.
type Browser struct {
	clauses []clauses.Clause
	cursor  int
	mode    browserMode
	render  RenderFunc

	viewport viewport.Model
	width    int
	height   int
	err      error
}

// NewBrowser creates a browser over list. render may be nil, in which case
// clause text is shown word-wrapped without markdown styling.
func NewBrowser(list []clauses.Clause, render RenderFunc) Browser {
	if render == nil {
		render = func(md string, width int) (string, error) {
			return Wrap(md, width, 0), nil
		}
	}
	return Browser{
		clauses:  list,
		render:   render,
		viewport: viewport.New(defaultWidth, 20),
		width:    defaultWidth,
		height:   24,
	}
}

// Init is part of the Bubble Tea Model interface.
func (m Browser) Init() tea.Cmd {
	return nil
}

// Cursor returns the index of the highlighted clause.
func (m Browser) Cursor() int {
	return m.cursor
}

// Previewing reports whether a clause is open.
func (m Browser) Previewing() bool {
	return m.mode == modePreview
}

// Update is part of the Bubble Tea Model interface.
func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		// title and help lines
		m.viewport.Height = max(msg.Height-4, 1)
		if m.mode == modePreview {
			m.openPreview()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modePreview {
			switch msg.String() {
			case "esc", "backspace", "h":
				m.mode = modeList
				m.err = nil
				return m, nil
			case "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.clauses)-1 {
				m.cursor++
			}
		case "enter", "l":
			if len(m.clauses) > 0 {
				m.mode = modePreview
				m.openPreview()
			}
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Browser) openPreview() {
	c := m.clauses[m.cursor]
	out, err := m.render("## "+c.Title+"\n\n"+c.Text, m.width)
	if err != nil {
		m.err = err
		out = c.Text
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

// View is part of the Bubble Tea Model interface.
func (m Browser) View() string {
	var b strings.Builder

	if m.mode == modePreview {
		c := m.clauses[m.cursor]
		b.WriteString(TitleStyle.Render(c.Title) + "\n\n")
		b.WriteString(m.viewport.View() + "\n")
		if m.err != nil {
			b.WriteString(HelpStyle.Render("render failed: "+m.err.Error()) + "\n")
		}
		b.WriteString(HelpStyle.Render("↑/↓ scroll • esc back • q quit"))
		return b.String()
	}

	b.WriteString(TitleStyle.Render("Clause library") + "\n\n")
	if len(m.clauses) == 0 {
		b.WriteString(EmptyStyle.Render("(No clauses are configured)") + "\n")
	}
	for i, c := range m.clauses {
		cursor := "  "
		if m.cursor == i {
			cursor = "> "
		}
		b.WriteString(cursor + c.Title + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("↑/↓ move • enter open • q quit"))
	return b.String()
}

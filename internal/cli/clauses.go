package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"oddrafter/internal/ui"
)

// ClausesOptions holds flags for the clauses command
type ClausesOptions struct {
	Text   bool
	Render bool
	Browse bool
	Style  string
	Width  int
}

// NewClausesCmd creates the clauses command
func NewClausesCmd(app *App) *cobra.Command {
	opts := ClausesOptions{}

	cmd := &cobra.Command{
		Use:   "clauses",
		Short: "List the clauses available to draft_docx_od",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Render && opts.Browse {
				return fmt.Errorf("--render and --browse cannot be combined")
			}

			rt, err := app.wire()
			if err != nil {
				return err
			}
			defer rt.Close()

			lib, err := rt.drafter.Clauses(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			style := opts.Style
			if style == "" && (opts.Render || opts.Browse) {
				style = ui.DetectStyle(100 * time.Millisecond)
			}

			switch {
			case opts.Browse:
				render := func(md string, width int) (string, error) {
					return ui.Render(md, style, width)
				}
				p := tea.NewProgram(ui.NewBrowser(lib.Clauses(), render),
					tea.WithInput(app.stdin), tea.WithOutput(out), tea.WithContext(cmd.Context()))
				_, err := p.Run()
				return err

			case opts.Render:
				rendered, err := ui.Render(ui.ClauseMarkdown(lib.Clauses()), style, opts.Width)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			}

			if lib.Len() == 0 {
				fmt.Fprintln(out, "No clauses configured.")
				return nil
			}
			for _, c := range lib.Clauses() {
				fmt.Fprintln(out, c.Title)
				if opts.Text {
					fmt.Fprintln(out, ui.Wrap(c.Text, opts.Width, 4))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Text, "text", false, "Print clause text under each title")
	cmd.Flags().BoolVar(&opts.Render, "render", false, "Render the library as styled markdown")
	cmd.Flags().BoolVar(&opts.Browse, "browse", false, "Browse clauses interactively")
	cmd.Flags().StringVar(&opts.Style, "style", "", "Markdown style: dark, light, notty, ... (default detected)")
	cmd.Flags().IntVar(&opts.Width, "width", 80, "Wrap width for --text and --render")

	return cmd
}

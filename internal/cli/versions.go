package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewVersionsCmd creates the versions command
func NewVersionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "versions <quote-number>",
		Short: "List stored versions of a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.wire()
			if err != nil {
				return err
			}
			defer rt.Close()

			quote := args[0]
			list, err := rt.drafter.Versions(cmd.Context(), quote)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no files found for quote %s", quote)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tURL")
			for _, v := range list {
				fmt.Fprintf(w, "v%d\t%s\t%s\n", v.Number, v.Name, rt.drafter.PublicURL(v.Name))
			}
			return w.Flush()
		},
	}
}

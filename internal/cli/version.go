package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"oddrafter/internal/mcp"
)

// NewVersionCmd creates the version command
func NewVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			version, commit, date := app.version, app.commit, app.date

			// Use default values if not set
			if version == "" {
				version = "dev"
			}
			if commit == "" {
				commit = "unknown"
			}
			if date == "" {
				date = "unknown"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "oddrafter version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "built: %s\n", date)
			fmt.Fprintf(cmd.OutOrStdout(), "mcp server: %s %s\n", mcp.ServerName, mcp.ServerVersion)
			return nil
		},
	}
}

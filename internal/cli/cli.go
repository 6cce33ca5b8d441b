// Package cli wires configuration, storage, clauses and the MCP server into
// the oddrafter command line.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"oddrafter/internal/credentials"
)

// App represents the CLI application with all wired dependencies
type App struct {
	rootCmd *cobra.Command

	// flags shared by every command
	configPath string
	logLevel   string

	secrets SecretManager
	stdin   io.Reader

	version string
	commit  string
	date    string
}

// SecretManager stores and resolves credentials in the OS keyring.
type SecretManager interface {
	Store(key, secret string) error
	Delete(key string) error
	Has(key string) bool
	Resolve(explicit, key string) (string, error)
}

// New creates a new CLI application
func New() *App {
	app := &App{
		secrets: credentials.NewManager(),
		stdin:   os.Stdin,
	}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

// SetArgs overrides os.Args, for tests.
func (a *App) SetArgs(args []string) {
	a.rootCmd.SetArgs(args)
}

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(out, errOut io.Writer) {
	a.rootCmd.SetOut(out)
	a.rootCmd.SetErr(errOut)
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	serve := NewServeCmd(a)

	a.rootCmd = &cobra.Command{
		Use:   "oddrafter",
		Short: "MCP server that drafts Order Documents",
		Long: `oddrafter serves the od-smart-drafter MCP tools over streamable HTTP.

Each edit to a quote's Order Document (.docx) is stored as a new version
next to the previous ones. Running oddrafter with no command starts the
server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}

	a.rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Config file (default $XDG_CONFIG_HOME/oddrafter/config.yaml)")
	a.rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides config)")
	// serve flags also apply when the root command starts the server
	a.rootCmd.Flags().AddFlagSet(serve.Flags())

	a.rootCmd.AddCommand(
		serve,
		NewClausesCmd(a),
		NewVersionsCmd(a),
		NewAuthCmd(a),
		NewConfigCmd(a),
		NewVersionCmd(a),
	)
}

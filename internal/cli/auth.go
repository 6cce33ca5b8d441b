package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"oddrafter/internal/credentials"
)

// credentialNames maps command arguments to keyring entries.
var credentialNames = map[string]string{
	"supabase": credentials.SupabaseKey,
	"git":      credentials.GitToken,
}

// NewAuthCmd creates the auth command group
func NewAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage secrets stored in the OS keyring",
	}
	cmd.AddCommand(newSetKeyCmd(app), newDeleteKeyCmd(app), newAuthStatusCmd(app))
	return cmd
}

func credentialKey(name string) (string, error) {
	key, ok := credentialNames[name]
	if !ok {
		return "", fmt.Errorf("unknown credential %q (want supabase or git)", name)
	}
	return key, nil
}

func newSetKeyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [supabase|git]",
		Short: "Store a secret read from standard input",
		Long: `Store a secret in the OS keyring. The secret is read from the first
line of standard input so that it never appears in shell history:

    printf '%s' "$KEY" | oddrafter auth set-key supabase`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "supabase"
			if len(args) == 1 {
				name = args[0]
			}
			key, err := credentialKey(name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s secret: ", name)
			line, err := bufio.NewReader(app.stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read secret: %w", err)
			}
			secret := strings.TrimSpace(line)
			if secret == "" {
				return fmt.Errorf("secret cannot be empty")
			}

			if err := app.secrets.Store(key, secret); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nStored %s secret in the OS keyring.\n", name)
			return nil
		},
	}
}

func newDeleteKeyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-key [supabase|git]",
		Short: "Remove a secret from the OS keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "supabase"
			if len(args) == 1 {
				name = args[0]
			}
			key, err := credentialKey(name)
			if err != nil {
				return err
			}
			if err := app.secrets.Delete(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s secret from the OS keyring.\n", name)
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which secrets are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"supabase", "git"} {
				state := "not stored"
				if app.secrets.Has(credentialNames[name]) {
					state = "stored"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", name, state)
			}
			return nil
		},
	}
}

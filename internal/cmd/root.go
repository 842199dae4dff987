// Package cmd implements the roster command line.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/roster/internal/app"
)

// Command groups shown in help output.
const (
	GroupUsers = "users"
	GroupDiag  = "diag"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	prefsPath  string
	noCache    bool
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: o.configPath,
		PrefsPath:  o.prefsPath,
		NoCache:    o.noCache,
	}
}

// bootstrap builds the services for a one-shot command.
func (o *rootOptions) bootstrap(ctx context.Context) (*app.Services, error) {
	return app.Bootstrap(ctx, o.appOptions())
}

// NewRootCmd builds the roster command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "roster",
		Short: "Browse and edit user profiles from a REST API",
		Long: `roster lists users from a JSON REST API, shows their profiles and edits
them. Fetched users are cached locally so the last known list is available
immediately on the next start.

Run without a subcommand to open the terminal UI. When stdout is not a
terminal the user list is printed instead.

Examples:
  roster                          # Open the terminal UI
  roster list                     # Print all users
  roster show 3                   # Print one profile
  roster edit 3 --email a@b.org   # Update a field`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return runList(cmd, opts, listOptions{})
			}
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/roster/config.toml)")
	flags.StringVar(&opts.prefsPath, "prefs", "", "preferences file (default ~/.config/roster/prefs.toml)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "keep the user cache in memory only")

	root.AddGroup(
		&cobra.Group{ID: GroupUsers, Title: "User Commands:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)
	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newEditCmd(opts),
		newLogsCmd(opts),
	)
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

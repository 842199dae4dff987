package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/style"
	"github.com/five82/roster/internal/userapi"
)

type listOptions struct {
	cached bool
	json   bool
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var lo listOptions
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: GroupUsers,
		Short:   "Print all users",
		Long: `Fetch the user list from the API and print it.

When the API cannot be reached the cached list is printed with a warning.
Use --cached to skip the request entirely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts, lo)
		},
	}
	cmd.Flags().BoolVar(&lo.cached, "cached", false, "print the cached list without fetching")
	cmd.Flags().BoolVar(&lo.json, "json", false, "print JSON")
	return cmd
}

func runList(cmd *cobra.Command, opts *rootOptions, lo listOptions) error {
	svc, err := opts.bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if !lo.cached {
		svc.Store.FetchAllUsers(cmd.Context())
	}
	snap := svc.Store.Snapshot()
	if snap.Error == state.MsgFetchFailed {
		if len(snap.Users) == 0 {
			return fmt.Errorf("%s: %w", snap.Error, snap.LastError)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s, showing cached users\n", style.WarningPrefix, snap.Error)
	}

	out := cmd.OutOrStdout()
	if lo.json {
		return writeJSON(out, nonNil(snap.Users))
	}
	if len(snap.Users) == 0 {
		fmt.Fprintln(out, style.Dim.Render("No users."))
		return nil
	}
	fmt.Fprintln(out, usersTable(snap.Users))
	return nil
}

// usersTable renders users one per row.
func usersTable(users []userapi.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.DisplayName(),
			u.Username,
			u.Email,
			u.Address.City,
			u.Company.Name,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.Dim).
		Headers("ID", "NAME", "USERNAME", "EMAIL", "CITY", "COMPANY").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return style.Header
			}
			return style.Cell
		}).
		Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(users []userapi.User) []userapi.User {
	if users == nil {
		return []userapi.User{}
	}
	return users
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/style"
	"github.com/five82/roster/internal/userapi"
)

type showOptions struct {
	refresh bool
	json    bool
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var so showOptions
	cmd := &cobra.Command{
		Use:     "show <id>",
		GroupID: GroupUsers,
		Short:   "Print one user's profile",
		Long: `Print a user's profile. The cached record is used when present;
otherwise, or with --refresh, the user is fetched from the API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userapi.ParseID(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			user, ok := svc.Store.UserByID(id)
			if !ok || so.refresh {
				fetched, fetchedOK := svc.Store.FetchUser(cmd.Context(), id)
				switch {
				case fetchedOK:
					user, ok = fetched, true
				case ok:
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s, showing cached profile\n", style.WarningPrefix, svc.Store.Err())
				default:
					return fmt.Errorf("%s: #%d", svc.Store.Err(), id)
				}
			}

			if so.json {
				return writeJSON(cmd.OutOrStdout(), user)
			}
			printProfile(cmd.OutOrStdout(), user)
			return nil
		},
	}
	cmd.Flags().BoolVar(&so.refresh, "refresh", false, "fetch from the API even when cached")
	cmd.Flags().BoolVar(&so.json, "json", false, "print JSON")
	return cmd
}

// printProfile writes u as labeled sections.
func printProfile(w io.Writer, u userapi.User) {
	fmt.Fprintf(w, "%s %s\n", style.Bold.Render(u.DisplayName()), style.Dim.Render(fmt.Sprintf("#%d", u.ID)))

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fmt.Fprintf(w, "  %-14s %s\n", label+":", value)
	}
	section := func(title string) {
		fmt.Fprintf(w, "\n%s\n", style.Info.Render(title))
	}

	section("Contact")
	field("Username", u.Username)
	field("Email", u.Email)
	field("Phone", u.Phone)
	field("Website", u.Website)

	section("Address")
	field("Address", u.Address.Line())
	if u.Address.Geo.Lat != "" || u.Address.Geo.Lng != "" {
		field("Geo", u.Address.Geo.Lat+", "+u.Address.Geo.Lng)
	}

	section("Company")
	field("Name", u.Company.Name)
	field("Catch phrase", u.Company.CatchPhrase)
	field("BS", u.Company.BS)

	if len(u.Extra) > 0 {
		section("Other")
		keys := make([]string, 0, len(u.Extra))
		for k := range u.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			var s string
			if err := json.Unmarshal(u.Extra[k], &s); err != nil {
				s = string(u.Extra[k])
			}
			field(k, s)
		}
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/roster/internal/app"
	"github.com/five82/roster/internal/style"
	"github.com/five82/roster/internal/userapi"
)

// editFlags maps flag names to the field they set. Only flags given on the
// command line end up in the patch.
type editFlags struct {
	name, username, email, phone, website string
	street, suite, city, zipcode          string
	company                               string
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var ef editFlags
	cmd := &cobra.Command{
		Use:     "edit <id>",
		GroupID: GroupUsers,
		Short:   "Update fields of a user",
		Long: `Send an update for a user and cache the server's answer.

Only the fields given as flags are sent. Address and company flags are
merged into the user's current address or company, which is fetched
when it is not cached.

Examples:
  roster edit 3 --email clem@example.org
  roster edit 3 --name "Clementine B." --city Lebsackbury`,
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

			patch, err := buildPatch(cmd.Context(), svc, id, cmd.Flags(), ef)
			if err != nil {
				return err
			}

			user, err := svc.Store.UpdateUser(cmd.Context(), id, patch)
			if err != nil {
				return fmt.Errorf("%s: %w", svc.Store.Err(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s %s\n",
				style.SuccessPrefix, user.DisplayName(), style.Dim.Render(fmt.Sprintf("#%d", user.ID)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&ef.name, "name", "", "full name")
	f.StringVar(&ef.username, "username", "", "username")
	f.StringVar(&ef.email, "email", "", "email address")
	f.StringVar(&ef.phone, "phone", "", "phone number")
	f.StringVar(&ef.website, "website", "", "website")
	f.StringVar(&ef.street, "street", "", "address street")
	f.StringVar(&ef.suite, "suite", "", "address suite")
	f.StringVar(&ef.city, "city", "", "address city")
	f.StringVar(&ef.zipcode, "zipcode", "", "address zipcode")
	f.StringVar(&ef.company, "company", "", "company name")
	return cmd
}

var errNothingToUpdate = errors.New("nothing to update: pass at least one field flag")

// buildPatch collects the changed flags into a validated patch.
func buildPatch(ctx context.Context, svc *app.Services, id int64, flags *pflag.FlagSet, ef editFlags) (userapi.Patch, error) {
	var p userapi.Patch
	set := func(name string, value string, dst **string) {
		if flags.Changed(name) {
			v := value
			*dst = &v
		}
	}
	set("name", ef.name, &p.Name)
	set("username", ef.username, &p.Username)
	set("email", ef.email, &p.Email)
	set("phone", ef.phone, &p.Phone)
	set("website", ef.website, &p.Website)

	addressChanged := flags.Changed("street") || flags.Changed("suite") ||
		flags.Changed("city") || flags.Changed("zipcode")
	if addressChanged || flags.Changed("company") {
		base, ok := svc.Store.UserByID(id)
		if !ok {
			base, ok = svc.Store.FetchUser(ctx, id)
		}
		if !ok {
			return userapi.Patch{}, fmt.Errorf("%s: #%d", svc.Store.Err(), id)
		}
		if addressChanged {
			addr := base.Address
			if flags.Changed("street") {
				addr.Street = ef.street
			}
			if flags.Changed("suite") {
				addr.Suite = ef.suite
			}
			if flags.Changed("city") {
				addr.City = ef.city
			}
			if flags.Changed("zipcode") {
				addr.Zipcode = ef.zipcode
			}
			p.Address = &addr
		}
		if flags.Changed("company") {
			company := base.Company
			company.Name = ef.company
			p.Company = &company
		}
	}

	if p.IsEmpty() {
		return userapi.Patch{}, errNothingToUpdate
	}
	if err := p.Validate(); err != nil {
		return userapi.Patch{}, err
	}
	return p, nil
}

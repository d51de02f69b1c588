package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shelfline/catalog-client/actions"
	"github.com/shelfline/catalog-client/identity"
)

// patronFlags collects the three mutually exclusive resolution inputs.
type patronFlags struct {
	username  string
	cc        string
	create    bool
	firstName string
	phone     string
	role      string
}

func (f *patronFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.username, "username", "", "resolve by patron username (default: last used)")
	cmd.Flags().StringVar(&f.cc, "cc", "", "resolve by national id")
	cmd.Flags().BoolVar(&f.create, "new", false, "create the patron instead of looking one up")
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "first name (with --new)")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number (with --new)")
	cmd.Flags().StringVar(&f.role, "role", "Client", "role: Admin, Librarian, or Client (with --new)")
}

// ref picks exactly one resolution path from the flags. When no flag is
// given, the remembered username from the last circulation is used.
func (f *patronFlags) ref(cmd *cobra.Command, a *app) actions.PatronRef {
	switch {
	case f.create:
		return actions.PatronRef{
			Mode: actions.ModeNewPatron,
			NewPatron: identity.NewPatron{
				NationalID: f.cc,
				FirstName:  f.firstName,
				Phone:      f.phone,
				Role:       f.role,
			},
		}
	case f.cc != "":
		return actions.PatronRef{Mode: actions.ModeNationalID, NationalID: f.cc}
	default:
		username := f.username
		if username == "" {
			username = a.actions.LastUsername(cmd.Context())
		}
		return actions.PatronRef{Mode: actions.ModeUsername, Username: username}
	}
}

func checkoutCmd() *cobra.Command {
	var flags patronFlags
	cmd := &cobra.Command{
		Use:   "checkout <libraryID> <isbn>",
		Short: "Check a book out to a patron",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			libID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("library id must be numeric: %q", args[0])
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			record, err := a.actions.CheckOut(cmd.Context(), libID, args[1], flags.ref(cmd, a))
			if err != nil {
				return err
			}

			fmt.Printf("Checked out %q, due %s (receipt %s)\n",
				record.Book.Title, record.DueDate, record.ID)
			printHoldings(a.actions.Container().Current())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func checkinCmd() *cobra.Command {
	var flags patronFlags
	cmd := &cobra.Command{
		Use:   "checkin <libraryID> <isbn>",
		Short: "Check a book back in from a patron",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			libID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("library id must be numeric: %q", args[0])
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.actions.CheckIn(cmd.Context(), libID, args[1], flags.ref(cmd, a)); err != nil {
				return err
			}

			fmt.Println("Checked in.")
			printHoldings(a.actions.Container().Current())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfline/catalog-client/identity"
)

func patronsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patrons",
		Short: "Manage the local patron directory",
	}
	cmd.AddCommand(patronsListCmd(), patronsCreateCmd(), patronsFindCmd())
	return cmd
}

func patronsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every patron in the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			patrons, err := a.directory.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(patrons) == 0 {
				fmt.Println("No patrons yet.")
				return nil
			}
			for _, p := range patrons {
				printPatron(p)
			}
			return nil
		},
	}
}

func patronsCreateCmd() *cobra.Command {
	var in identity.NewPatron
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patron and mint a unique username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.directory.CreatePatron(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", p.Username)
			printPatron(*p)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.NationalID, "cc", "", "national id")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Role, "role", "Client", "role: Admin, Librarian, or Client")
	cmd.MarkFlagRequired("cc")
	cmd.MarkFlagRequired("first-name")
	return cmd
}

func patronsFindCmd() *cobra.Command {
	var username, cc string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find one patron by username or national id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var p *identity.Patron
			switch {
			case username != "":
				p, err = a.directory.FindByUsername(cmd.Context(), username)
			case cc != "":
				p, err = a.directory.FindByNationalID(cmd.Context(), cc)
			default:
				return fmt.Errorf("pass --username or --cc")
			}
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Println("No patron found. Check the id or create one.")
				return nil
			}
			printPatron(*p)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "patron username")
	cmd.Flags().StringVar(&cc, "cc", "", "national id")
	return cmd
}

func printPatron(p identity.Patron) {
	fmt.Printf("%-20s %-10s cc %-12s phone %s (%s)\n",
		p.Username, p.Role, p.NationalID, p.Phone, p.FirstName)
}

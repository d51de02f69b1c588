/*
main.go - Companion terminal client

PURPOSE:
  Thin terminal front end over the core: catalog gateway, identity
  directory, state container, and synchronization actions. Commands print
  whatever the snapshot holds after the action completes, exactly as the
  screens of a graphical client would render it.

COMMAND-LINE FLAGS (persistent):
  --api    Base URL of the catalog service (default: http://localhost:8080)
  --db     Path of the local identity database (default: companion.db)

EXAMPLES:
  companion libraries list
  companion search 9780140328721
  companion checkout 1 9780140328721 --cc 12345
  companion patrons create --cc 555 --first-name Ana --phone 912345678
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfline/catalog-client/actions"
	"github.com/shelfline/catalog-client/catalog"
	"github.com/shelfline/catalog-client/identity"
	"github.com/shelfline/catalog-client/state"
	"github.com/shelfline/catalog-client/store/sqlite"
)

var (
	apiURL string
	dbPath string
)

// app bundles the wired core for one command invocation.
type app struct {
	store     *sqlite.Store
	directory *identity.Directory
	actions   *actions.Actions
}

func (a *app) Close() {
	a.store.Close()
}

// newApp opens the identity store and wires the action layer. Schema
// initialization failures are logged inside the directory and do not stop
// the client.
func newApp(cmd *cobra.Command) (*app, error) {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open identity store: %w", err)
	}

	directory := identity.NewDirectory(store)
	directory.EnsureSchema(cmd.Context())

	return &app{
		store:     store,
		directory: directory,
		actions: actions.New(
			catalog.NewClient(apiURL),
			directory,
			store,
			state.NewContainer(),
		),
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "companion",
		Short:         "Staff client for the library catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "catalog service base URL")
	root.PersistentFlags().StringVar(&dbPath, "db", "companion.db", "identity database path")

	root.AddCommand(
		librariesCmd(),
		booksCmd(),
		searchCmd(),
		checkoutCmd(),
		checkinCmd(),
		patronsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", actions.FriendlyMessage(err))
		os.Exit(1)
	}
}

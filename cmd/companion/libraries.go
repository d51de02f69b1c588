package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shelfline/catalog-client/catalog"
	"github.com/shelfline/catalog-client/state"
)

func librariesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "Browse and manage libraries",
	}
	cmd.AddCommand(
		librariesListCmd(),
		librariesCreateCmd(),
		librariesUpdateCmd(),
		librariesDeleteCmd(),
	)
	return cmd
}

func librariesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every library",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.actions.FetchLibraries(cmd.Context()); err != nil {
				return err
			}
			printLibraries(a.actions.Container().Current())
			return nil
		},
	}
}

func libraryFlags(cmd *cobra.Command, lib *catalog.Library) {
	cmd.Flags().StringVar(&lib.Name, "name", "", "library name")
	cmd.Flags().StringVar(&lib.Address, "address", "", "street address")
	cmd.Flags().StringVar(&lib.OpenDays, "days", "All", "open days, e.g. \"Monday, Friday\" or All")
	cmd.Flags().StringVar(&lib.OpenTime, "open", "09:00", "opening time HH:MM")
	cmd.Flags().StringVar(&lib.CloseTime, "close", "18:00", "closing time HH:MM")
}

func librariesCreateCmd() *cobra.Command {
	var lib catalog.Library
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new library",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.actions.CreateLibrary(cmd.Context(), lib); err != nil {
				return err
			}
			printLibraries(a.actions.Container().Current())
			return nil
		},
	}
	libraryFlags(cmd, &lib)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("address")
	return cmd
}

func librariesUpdateCmd() *cobra.Command {
	var lib catalog.Library
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a library's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("library id must be numeric: %q", args[0])
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.actions.UpdateLibrary(cmd.Context(), id, lib); err != nil {
				return err
			}
			printLibraries(a.actions.Container().Current())
			return nil
		},
	}
	libraryFlags(cmd, &lib)
	return cmd
}

func librariesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("library id must be numeric: %q", args[0])
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.actions.DeleteLibrary(cmd.Context(), id); err != nil {
				return err
			}
			printLibraries(a.actions.Container().Current())
			return nil
		},
	}
}

func printLibraries(snap state.Snapshot) {
	if len(snap.Libraries) == 0 {
		fmt.Println("No libraries.")
		return
	}
	for _, lib := range snap.Libraries {
		fmt.Printf("%3d  %-30s %s (%s %s-%s)\n",
			lib.ID, lib.Name, lib.Address, lib.OpenDays, lib.OpenTime, lib.CloseTime)
	}
}

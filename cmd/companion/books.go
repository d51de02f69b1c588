package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shelfline/catalog-client/state"
)

func booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage a library's holdings",
	}
	cmd.AddCommand(booksListCmd(), booksAddCmd(), booksStockCmd())
	return cmd
}

func booksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <libraryID>",
		Short: "List one library's holdings",
		Args:  cobra.ExactArgs(1),
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

			if err := a.actions.FetchBooks(cmd.Context(), libID); err != nil {
				return err
			}
			printHoldings(a.actions.Container().Current())
			return nil
		},
	}
}

func booksAddCmd() *cobra.Command {
	var stock int
	cmd := &cobra.Command{
		Use:   "add <libraryID> <isbn>",
		Short: "Add stock of an ISBN to a library",
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

			if err := a.actions.AddBook(cmd.Context(), libID, args[1], stock); err != nil {
				return err
			}
			printHoldings(a.actions.Container().Current())
			return nil
		},
	}
	cmd.Flags().IntVar(&stock, "stock", 1, "number of copies")
	return cmd
}

func booksStockCmd() *cobra.Command {
	var stock int
	cmd := &cobra.Command{
		Use:   "stock <libraryID> <isbn>",
		Short: "Replace a holding's stock level",
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

			if err := a.actions.UpdateBook(cmd.Context(), libID, args[1], stock); err != nil {
				return err
			}
			printHoldings(a.actions.Container().Current())
			return nil
		},
	}
	cmd.Flags().IntVar(&stock, "stock", 0, "number of copies")
	cmd.MarkFlagRequired("stock")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <isbn>",
		Short: "Look a book up in the catalog by ISBN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.actions.SearchBook(cmd.Context(), args[0]); err != nil {
				return err
			}

			book := a.actions.Container().Current().SearchedBook
			if book == nil {
				fmt.Println("No book found.")
				return nil
			}
			fmt.Printf("%s\n", book.Title)
			if book.ByStatement != "" {
				fmt.Printf("  by %s\n", book.ByStatement)
			}
			fmt.Printf("  ISBN %s", book.ISBN)
			if book.PublishDate != "" {
				fmt.Printf(", published %s", book.PublishDate)
			}
			if book.NumberOfPages > 0 {
				fmt.Printf(", %d pages", book.NumberOfPages)
			}
			fmt.Println()
			return nil
		},
	}
}

func printHoldings(snap state.Snapshot) {
	if len(snap.CurrentBooks) == 0 {
		fmt.Println("No books in this library.")
		return
	}
	for _, h := range snap.CurrentBooks {
		fmt.Printf("%-15s %-40s stock %d, out %d, available %d\n",
			h.Book.ISBN, h.Book.Title, h.Stock, h.CheckedOut, h.Available)
	}
}

package app

import (
	"fmt"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/recommend"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var (
		jsonOut bool
		noTrack bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a book with its branch holdings",
		Long: `Show the full record of a book and every branch copy.
The book is added to your viewing history, which drives 'opacctl recommend'.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBookIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := findBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !noTrack {
				if _, err := sess.RecordView(b.ID); err != nil {
					warn("Could not record view: %v", err)
				}
			}
			if jsonOut {
				return printJSON(b)
			}
			printBook(b)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noTrack, "no-history", false, "Do not add the book to the viewing history")
	return cmd
}

func newSimilarCmd() *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "List books similar to a book",
		Long: `Rank other books by shared subjects, author, language, format and
publication year. The book itself is never listed.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBookIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, books, err := findBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			similar := recommend.Similar(b, books, limit)
			if jsonOut {
				return printJSON(similar)
			}
			header("── Similar to %s", b.Title)
			if len(similar) == 0 {
				fmt.Println("No other books in the catalog.")
				return nil
			}
			printBooks(similar)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", recommend.DefaultLimit, "Maximum number of books")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommendations from your viewing history",
		Long: `Recommend books from the subjects, authors and languages you viewed most.
With no history the newest titles are suggested instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := loadBooks(cmd.Context())
			if err != nil {
				return err
			}
			rec := recommend.ForHistory(books, sess.Views())
			if jsonOut {
				return printJSON(rec)
			}
			if rec.Fallback {
				header("── Newest in the catalog")
				fmt.Println(color.HiBlackString("  No viewing history yet; 'opacctl show <id>' builds it."))
			} else {
				header("── Recommended for you")
				for _, r := range rec.Reasons {
					fmt.Println(color.HiBlackString("  because: " + r))
				}
			}
			printBooks(rec.Books)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		clearAll bool
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recently viewed books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearAll {
				if err := sess.ClearViews(); err != nil {
					return fmt.Errorf("clearing history: %w", err)
				}
				ok("Viewing history cleared")
				return nil
			}

			ids := sess.Views()
			var viewed []catalog.Book
			if len(ids) > 0 {
				books, err := loadBooks(cmd.Context())
				if err != nil {
					return err
				}
				viewed = catalog.ByIDs(books, ids)
			}
			if jsonOut {
				return printJSON(viewed)
			}
			if len(viewed) == 0 {
				fmt.Println("No books viewed yet.")
				return nil
			}
			header("── Recently viewed (%d)", len(viewed))
			printBooks(viewed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Forget every viewed book")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

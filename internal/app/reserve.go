package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/reserve"
	"github.com/blackwell-systems/opacctl/internal/tui"
	"github.com/blackwell-systems/opacctl/internal/tui/picker"
	"github.com/blackwell-systems/opacctl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newReserveCmd() *cobra.Command {
	var (
		library string
		date    string
		yes     bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "reserve <id>",
		Short: "Place a hold for pickup at a branch",
		Long: `Reserve a book for pickup. Choose the branch and pickup date with flags,
or interactively when running in a terminal. The hold waits at the branch
for 3 days after the pickup date.

Examples:
  opacctl reserve bk-001
  opacctl reserve bk-002 --library 壽豐分館 --date 2025-11-20 --yes`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBookIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := signedIn(); err != nil {
				return err
			}
			c, err := online()
			if err != nil {
				return err
			}
			b, _, err := findBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			interactive := tui.ShouldUseTUI(cmd) && !jsonOut
			in := bufio.NewReader(os.Stdin)
			flow := reserve.New(b)

			if library == "" {
				library, err = chooseLibrary(b, interactive)
				if errors.Is(err, picker.ErrCanceled) {
					fmt.Println(color.YellowString("Cancelled."))
					return nil
				}
				if err != nil {
					return err
				}
			}
			if err := flow.SelectLibrary(library); err != nil {
				return err
			}
			if err := flow.Next(); err != nil {
				return err
			}

			if date == "" {
				date = time.Now().AddDate(0, 0, 1).Format(reserve.DateLayout)
				if interactive {
					answer, err := util.Prompt(in, os.Stdout, fmt.Sprintf("Pickup date [%s]: ", date))
					if err != nil {
						return err
					}
					if answer != "" {
						date = answer
					}
				}
			}
			if err := flow.SetDate(date); err != nil {
				return err
			}
			if err := flow.Next(); err != nil {
				return err
			}

			if !yes {
				if !interactive {
					return fmt.Errorf("refusing to place a hold without confirmation (use --yes)")
				}
				fmt.Printf("\n  %s\n  pickup at %s on %s\n\n", b.Title, library, date)
				answer, err := util.Prompt(in, os.Stdout, "Place hold? (y/N): ")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Println(color.YellowString("Cancelled."))
					return nil
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.Timeout+5*time.Second)
			defer cancel()
			receipt, err := flow.Confirm(ctx, c)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(receipt)
			}
			ok("Hold placed for %s", receipt.Title)
			printField("code", color.New(color.Bold).Sprint(receipt.ShortCode()))
			printField("library", receipt.Library)
			printField("pickup", receipt.PickupDate.Format(reserve.DateLayout))
			printField("deadline", receipt.Deadline.Format(reserve.DateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&library, "library", "", "Pickup branch")
	cmd.Flags().StringVar(&date, "date", "", "Pickup date YYYY-MM-DD (default: tomorrow)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the receipt as JSON")
	return cmd
}

// chooseLibrary picks the pickup branch: the only branch, the picker in a
// terminal, or an error naming the choices.
func chooseLibrary(b catalog.Book, interactive bool) (string, error) {
	libs := b.Libraries()
	switch {
	case len(libs) == 0:
		return "", reserve.ErrNoCopies
	case len(libs) == 1:
		return libs[0], nil
	case interactive:
		return tui.RunLibraryPicker(b)
	default:
		return "", fmt.Errorf("%s is held at %s; choose one with --library", b.ID, strings.Join(libs, ", "))
	}
}

package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/assistant"
	"github.com/blackwell-systems/opacctl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the search assistant for books",
		Long: `Ask for books in plain words. Filler such as "我想找" or "any books about"
is ignored; "可借" or "available" keeps only borrowable copies.

With no question an interactive conversation starts; an empty line or
'exit' ends it.

Examples:
  opacctl ask 我想找村上春樹的書
  opacctl ask "any available books about 科幻"
  opacctl ask`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := loadBooks(cmd.Context())
			if err != nil {
				return err
			}
			bot := assistant.New(books)

			if len(args) > 0 {
				reply := bot.Ask(strings.Join(args, " "))
				if jsonOut {
					return printJSON(reply)
				}
				printReply(reply)
				return nil
			}
			if err := converse(bot, bufio.NewReader(os.Stdin), os.Stdout); err != nil {
				return err
			}
			if jsonOut {
				return printJSON(bot.Transcript())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// converse reads questions from in until EOF, an empty line or "exit".
func converse(bot *assistant.Assistant, in *bufio.Reader, out io.Writer) error {
	for {
		q, err := util.Prompt(in, out, color.CyanString("? "))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if q == "" || strings.EqualFold(q, "exit") || strings.EqualFold(q, "quit") {
			return nil
		}
		reply := bot.Ask(q)
		fmt.Fprintln(out, reply.Text)
		for _, b := range reply.Books {
			fmt.Fprintln(out, bookLine(b))
		}
	}
}

func printReply(m assistant.Message) {
	fmt.Println(m.Text)
	printBooks(m.Books)
}

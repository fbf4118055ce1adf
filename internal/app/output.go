package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/tui"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
)

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

func printField(label, value string) {
	fmt.Printf("  %-12s %s\n", color.CyanString(label+":"), value)
}

func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// bookLine is the one-line listing used by every command that prints books.
func bookLine(b catalog.Book) string {
	mark := color.RedString("○")
	if b.Available() {
		mark = color.GreenString("●")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %s %s  %s", mark, color.WhiteString(tui.Fit(b.ID, 8)), b.Title)
	if b.Author != "" {
		sb.WriteString(color.HiBlackString(" · " + b.Author))
	}
	if b.Year != 0 {
		sb.WriteString(color.HiBlackString(fmt.Sprintf(" (%d)", b.Year)))
	}
	return sb.String()
}

func printBooks(books []catalog.Book) {
	for _, b := range books {
		fmt.Println(bookLine(b))
	}
}

// printBook prints the full record with its holdings.
func printBook(b catalog.Book) {
	header("%s", b.Title)
	printField("id", b.ID)
	if b.Author != "" {
		printField("author", b.Author)
	}
	if b.Year != 0 {
		printField("year", fmt.Sprintf("%d", b.Year))
	}
	if b.ISBN != "" {
		printField("isbn", b.ISBN)
	}
	if b.Language != "" {
		printField("language", b.Language)
	}
	if b.Format != "" {
		printField("format", b.Format)
	}
	if len(b.Subjects) > 0 {
		printField("subjects", strings.Join(b.Subjects, ", "))
	}
	if b.Description != "" {
		printField("summary", b.Description)
	}
	if len(b.Availability) == 0 {
		printField("holdings", color.HiBlackString("none"))
		return
	}
	fmt.Println()
	header("Holdings")
	for _, a := range b.Availability {
		status := color.RedString(string(a.Status))
		if a.Status.Lendable() {
			status = color.GreenString(string(a.Status))
		}
		line := fmt.Sprintf("  %s  %s  %s", tui.Fit(a.Library, 10), tui.Fit(a.CallNumber, 16), status)
		if a.Location != "" {
			line += "  " + a.Location
		}
		if a.Due != "" {
			line += color.HiBlackString("  due " + a.Due)
		}
		fmt.Println(line)
	}
}

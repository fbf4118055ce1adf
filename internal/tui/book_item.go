package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/opacctl/internal/catalog"
)

// BookItem is a catalog record in a bubbles list.
type BookItem struct {
	Book catalog.Book
	Note string // optional right-hand hint, e.g. a similarity reason
}

// FilterValue implements list.Item
func (b BookItem) FilterValue() string {
	return strings.Join([]string{b.Book.Title, b.Book.Author, strings.Join(b.Book.Subjects, " "), b.Book.ISBN}, " ")
}

// BookItems wraps books for a list.Model.
func BookItems(books []catalog.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = BookItem{Book: b}
	}
	return items
}

// Fit pads s with spaces or truncates it with "…" so that it occupies
// exactly width terminal cells. CJK characters count as two cells.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w > width {
		s = xansi.Truncate(s, width, "…")
		w = xansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// Column width constraints for one-line rows
const (
	minTitleWidth  = 12
	maxTitleWidth  = 44
	minAuthorWidth = 8
	maxAuthorWidth = 24
	yearWidth      = 4
	badgeWidth     = 8
	columnGap      = 1
)

// computeColumnWidths splits a row between title and author after the
// fixed year and badge columns.
func computeColumnWidths(totalWidth int) (titleW, authorW int) {
	const prefix = 2
	usable := totalWidth - prefix - yearWidth - badgeWidth - columnGap*3
	if usable < minTitleWidth+minAuthorWidth {
		return minTitleWidth, minAuthorWidth
	}
	titleW = min(usable*60/100, maxTitleWidth)
	authorW = min(usable-titleW, maxAuthorWidth)
	return max(titleW, minTitleWidth), max(authorW, minAuthorWidth)
}

func yearText(y int) string {
	if y == 0 {
		return "    "
	}
	return strconv.Itoa(y)
}

func cursorPrefix(selected bool) string {
	if selected {
		return lipgloss.NewStyle().Foreground(ColorOrange).Render("›") + " "
	}
	return "  "
}

// RenderBookLine renders one book on a single line of width cells.
func RenderBookLine(b catalog.Book, selected bool, width int) string {
	titleW, authorW := computeColumnWidths(width)
	gap := strings.Repeat(" ", columnGap)

	title := Fit(b.Title, titleW)
	author := Fit(b.Author, authorW)
	if selected {
		title = StyleHighlight.Render(title)
		author = lipgloss.NewStyle().Foreground(ColorOrange).Faint(true).Render(author)
	} else {
		title = StyleNormal.Render(title)
		author = StyleHelp.Render(author)
	}
	return cursorPrefix(selected) + title + gap + author + gap + StyleHelp.Render(yearText(b.Year)) + gap + AvailabilityBadge(b)
}

// RenderBookRow renders the list layout: the one-line summary plus a
// second line with holding branches and subjects.
func RenderBookRow(b catalog.Book, selected bool, width int) string {
	first := RenderBookLine(b, selected, width)
	detail := strings.Join(b.Libraries(), "、")
	if len(b.Subjects) > 0 {
		if detail != "" {
			detail += "  "
		}
		detail += StyleTag.Render("#" + strings.Join(b.Subjects, " #"))
	}
	second := "    " + xansi.Truncate(StyleHelp.Render(detail), max(width-4, 1), "…")
	return first + "\n" + second
}

// RenderBookCard renders the grid layout cell for one book.
func RenderBookCard(b catalog.Book, selected bool, width int) string {
	inner := max(width-4, 8)
	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1).
		Width(inner + 2)
	title := StyleNormal.Bold(true).Render(Fit(b.Title, inner))
	if selected {
		border = border.BorderForeground(ColorYellow)
		title = StyleHighlight.Render(Fit(b.Title, inner))
	}
	lines := []string{
		title,
		StyleHelp.Render(Fit(b.Author, inner)),
		StyleHelp.Render(Fit(strings.TrimSpace(yearText(b.Year)+" "+b.Language), inner)),
		AvailabilityBadge(b),
	}
	return border.Render(strings.Join(lines, "\n"))
}

// GridColumns is how many cards fit across width.
func GridColumns(width int) int {
	const cardWidth = 24
	return min(max(width/cardWidth, 1), 4)
}

// RenderGrid lays cards out row by row, cols per row.
func RenderGrid(books []catalog.Book, cursor, width int) string {
	cols := GridColumns(width)
	cardW := width / cols
	var rows []string
	for start := 0; start < len(books); start += cols {
		end := min(start+cols, len(books))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, RenderBookCard(books[i], i == cursor, cardW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderBookItem is the list delegate for BookItem rows.
func RenderBookItem(w io.Writer, m list.Model, index int, item list.Item) {
	bookItem, ok := item.(BookItem)
	if !ok {
		return
	}
	width := m.Width()
	if width <= 0 {
		width = 80
	}
	line := RenderBookLine(bookItem.Book, index == m.Index(), width)
	if bookItem.Note != "" {
		line += " " + StyleTag.Render(bookItem.Note)
	}
	_, _ = fmt.Fprint(w, line)
}

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/tui/delegate"
	"github.com/blackwell-systems/opacctl/internal/tui/picker"
)

// LibraryOption is one pickup branch with its copy status.
type LibraryOption struct {
	Name   string
	Status catalog.Status
	Floor  string
}

// FilterValue implements list.Item
func (o LibraryOption) FilterValue() string { return o.Name }

// LibraryOptions lists the branches holding b, once each, using the first
// listed copy's status.
func LibraryOptions(b catalog.Book) []LibraryOption {
	seen := map[string]bool{}
	var out []LibraryOption
	for _, a := range b.Availability {
		if a.Library == "" || seen[a.Library] {
			continue
		}
		seen[a.Library] = true
		out = append(out, LibraryOption{Name: a.Library, Status: a.Status, Floor: a.Location})
	}
	return out
}

func renderLibraryOption(w io.Writer, m list.Model, index int, item list.Item) {
	opt, ok := item.(LibraryOption)
	if !ok {
		return
	}
	display := Fit(opt.Name, 16) + " " + StatusStyle(opt.Status).Render(string(opt.Status))
	if opt.Floor != "" {
		display += " " + StyleHelp.Render(opt.Floor)
	}
	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› ")+display)
	} else {
		_, _ = fmt.Fprint(w, "  "+display)
	}
}

// NewLibraryList builds the branch chooser used by the reserve view.
func NewLibraryList(opts []LibraryOption) list.Model {
	items := make([]list.Item, len(opts))
	for i, o := range opts {
		items[i] = o
	}
	l := list.New(items, delegate.New(renderLibraryOption), 0, 0)
	l.Title = "選取取書館"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = StyleHeader
	l.Styles.HelpStyle = StyleHelp
	return l
}

// RunLibraryPicker asks for a pickup branch as a standalone program.
// A single branch is returned without prompting.
func RunLibraryPicker(b catalog.Book) (string, error) {
	opts := LibraryOptions(b)
	switch len(opts) {
	case 0:
		return "", fmt.Errorf("%q has no holding library", b.Title)
	case 1:
		return opts[0].Name, nil
	}

	keys := NewPickerKeys()
	l := NewLibraryList(opts)
	l.Title = "選取取書館 · " + b.Title
	item, err := picker.Run(picker.Config{
		List:        l,
		QuitKeys:    keys.Quit,
		SelectKeys:  keys.Select,
		ShowBorder:  true,
		BorderStyle: StyleBorder,
	})
	if err != nil {
		return "", err
	}
	return item.(LibraryOption).Name, nil
}

// Package delegate adapts plain render functions to list.ItemDelegate.
package delegate

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc writes one list item; index == m.Index() marks the cursor row.
type RenderFunc func(w io.Writer, m list.Model, index int, item list.Item)

// Base is a list.ItemDelegate with fixed row height and spacing.
type Base struct {
	height   int
	spacing  int
	renderFn RenderFunc
}

// New creates a one-line delegate with no spacing.
func New(renderFn RenderFunc) Base {
	return Base{height: 1, renderFn: renderFn}
}

// NewWithSpacing creates a one-line delegate with blank lines between rows.
func NewWithSpacing(renderFn RenderFunc, spacing int) Base {
	return Base{height: 1, spacing: spacing, renderFn: renderFn}
}

func (d Base) Height() int  { return d.height }
func (d Base) Spacing() int { return d.spacing }

func (d Base) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d Base) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if d.renderFn != nil {
		d.renderFn(w, m, index, item)
	}
}

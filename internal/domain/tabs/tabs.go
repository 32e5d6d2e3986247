// Package tabs implements the review tab panel.
package tabs

import (
	"slices"
)

// Tab names a mutually exclusive display mode of the panel.
type Tab string

// The panel's fixed tab set.
const (
	Reviews    Tab = "Reviews"
	MakeReview Tab = "Make a review"
)

var all = []Tab{Reviews, MakeReview}

// Panel tracks the selected tab.
type Panel struct {
	active Tab
}

// New returns a panel with the Reviews tab selected.
func New() *Panel {
	return &Panel{active: Reviews}
}

// Tabs returns the tabs in display order.
func (p *Panel) Tabs() []Tab {
	return slices.Clone(all)
}

// Select makes tab the active tab.
func (p *Panel) Select(tab Tab) {
	p.active = tab
}

// Active returns the active tab.
func (p *Panel) Active() Tab { return p.active }

// Showing reports whether tab's content is the visible one.
func (p *Panel) Showing(tab Tab) bool { return p.active == tab }

// Parse resolves a tab by its display name.
func Parse(s string) (Tab, bool) {
	t := Tab(s)
	if slices.Contains(all, t) {
		return t, true
	}
	return "", false
}

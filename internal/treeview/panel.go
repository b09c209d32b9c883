// Package treeview renders the document as nested panels with tabs for
// text, subelements and attributes. Panels are keyed by node id and never
// own document nodes.
package treeview

import (
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/schema"
)

// Tab is one of the sections of a panel.
type Tab int

const (
	TabText Tab = iota
	TabSubelements
	TabAttributes
)

func (t Tab) String() string {
	switch t {
	case TabText:
		return "Text"
	case TabSubelements:
		return "Subelements"
	case TabAttributes:
		return "Attributes"
	}
	return "?"
}

// Panel is the rendered state of one element.
type Panel struct {
	ID       document.NodeID
	Parent   document.NodeID
	Type     *schema.ElementType
	Title    string
	Tabs     []Tab
	Active   Tab
	Badges   map[Tab]int
	Children []document.NodeID
}

// TabsFor returns the tabs of t: Text for a value field, Subelements when
// children are declared, Attributes when attributes are declared.
func TabsFor(t *schema.ElementType) []Tab {
	var tabs []Tab
	if t.HasText() {
		tabs = append(tabs, TabText)
	}
	if t.HasChildren() {
		tabs = append(tabs, TabSubelements)
	}
	if t.HasAttributes() {
		tabs = append(tabs, TabAttributes)
	}
	return tabs
}

// HasTab reports whether the panel shows tab.
func (p *Panel) HasTab(tab Tab) bool {
	for _, t := range p.Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Activate switches to tab if the panel has it.
func (p *Panel) Activate(tab Tab) bool {
	if !p.HasTab(tab) {
		return false
	}
	p.Active = tab
	return true
}

// CycleTab moves to the next tab, wrapping around.
func (p *Panel) CycleTab() {
	for i, t := range p.Tabs {
		if t == p.Active {
			p.Active = p.Tabs[(i+1)%len(p.Tabs)]
			return
		}
	}
	if len(p.Tabs) > 0 {
		p.Active = p.Tabs[0]
	}
}

func defaultTab(p *Panel) Tab {
	switch {
	case len(p.Children) > 0 && p.HasTab(TabSubelements):
		return TabSubelements
	case p.HasTab(TabText):
		return TabText
	case len(p.Tabs) > 0:
		return p.Tabs[0]
	}
	return TabText
}

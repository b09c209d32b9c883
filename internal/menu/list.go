package menu

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Item is an entry of a List.
type Item struct {
	Label    string
	Detail   string
	Disabled bool
	Value    any
}

// List is a popup menu with a cursor and an incremental filter.
type List struct {
	Title   string
	items   []Item
	visible []int
	cursor  int
	query   string
}

// NewList returns a list showing all items.
func NewList(title string, items []Item) *List {
	l := &List{Title: title, items: items}
	l.Filter("")
	return l
}

// Filter narrows the list to items matching query. Prefix matches come
// first, then substring matches, then close misspellings by edit distance.
func (l *List) Filter(query string) {
	l.query = query
	l.cursor = 0
	l.visible = l.visible[:0]
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		for i := range l.items {
			l.visible = append(l.visible, i)
		}
		return
	}

	type scored struct {
		idx   int
		score int
	}
	var hits []scored
	for i, it := range l.items {
		label := strings.ToLower(it.Label)
		switch {
		case strings.HasPrefix(label, q):
			hits = append(hits, scored{i, 0})
		case strings.Contains(label, q):
			hits = append(hits, scored{i, 1})
		default:
			head := label
			if len(head) > len(q) {
				head = head[:len(q)]
			}
			if d := levenshtein.ComputeDistance(q, head); d <= maxDistance(q) {
				hits = append(hits, scored{i, 1 + d})
			}
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score < hits[b].score })
	for _, h := range hits {
		l.visible = append(l.visible, h.idx)
	}
}

func maxDistance(q string) int {
	switch n := len(q); {
	case n <= 2:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// Query is the active filter text.
func (l *List) Query() string { return l.query }

// Visible returns the filtered items in display order.
func (l *List) Visible() []Item {
	out := make([]Item, len(l.visible))
	for i, idx := range l.visible {
		out[i] = l.items[idx]
	}
	return out
}

// Cursor is the index of the highlighted item within Visible.
func (l *List) Cursor() int { return l.cursor }

// Move shifts the cursor by delta, clamped to the visible items.
func (l *List) Move(delta int) {
	l.cursor += delta
	if l.cursor >= len(l.visible) {
		l.cursor = len(l.visible) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Selected returns the highlighted item. Disabled items are not selectable.
func (l *List) Selected() (Item, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return Item{}, false
	}
	it := l.items[l.visible[l.cursor]]
	if it.Disabled {
		return Item{}, false
	}
	return it, true
}

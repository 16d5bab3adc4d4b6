// Package listnav computes the active item of keyboard-navigable lists such
// as menus, listboxes and tab lists.
package listnav

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// None is the active index when no item is active.
const None = -1

// Item is one registered list entry.
type Item[T any] struct {
	ID       string
	Disabled bool
	// TextValue is matched by type-ahead search. Empty never matches.
	TextValue string
	// Order is the host-maintained document position used by Reorder.
	Order   int
	Payload T
}

// Kind identifies a directive.
type Kind int

const (
	Nothing Kind = iota
	First
	Previous
	Next
	Last
	Specific
)

func (k Kind) String() string {
	switch k {
	case First:
		return "first"
	case Previous:
		return "previous"
	case Next:
		return "next"
	case Last:
		return "last"
	case Specific:
		return "specific"
	default:
		return "nothing"
	}
}

// Directive requests an active item change. ID is used by Specific only.
type Directive struct {
	Kind Kind
	ID   string
}

// To returns a Specific directive for id.
func To(id string) Directive { return Directive{Kind: Specific, ID: id} }

// Go returns a directive of the given kind.
func Go(k Kind) Directive { return Directive{Kind: k} }

// Calculate returns the new active index for d. It never lands on a
// disabled item and never wraps; when no target exists the current index is
// returned unchanged, which callers treat as a no-op. An out-of-range
// current counts as None when scanning.
func Calculate[T any](d Directive, items []Item[T], current int) int {
	unchanged := current
	if current < None || current >= len(items) {
		current = None
	}

	switch d.Kind {
	case Nothing:
		return None

	case First:
		for i := range items {
			if !items[i].Disabled {
				return i
			}
		}

	case Last:
		for i := len(items) - 1; i >= 0; i-- {
			if !items[i].Disabled {
				return i
			}
		}

	case Next:
		for i := current + 1; i < len(items); i++ {
			if !items[i].Disabled {
				return i
			}
		}

	case Previous:
		start := current - 1
		if current == None {
			start = len(items) - 1
		}
		for i := start; i >= 0; i-- {
			if !items[i].Disabled {
				return i
			}
		}

	case Specific:
		for i := range items {
			if items[i].ID == d.ID {
				return i
			}
		}
	}
	return unchanged
}

// Search returns the index of the first enabled item after current (wrapping
// around) whose text starts with query, compared case-insensitively. It
// returns current unchanged when nothing matches.
func Search[T any](query string, items []Item[T], current int) int {
	if query == "" || len(items) == 0 {
		return current
	}
	folder := cases.Fold()
	q := folder.String(query)

	start := 0
	if current >= 0 && current < len(items) {
		start = current + 1
	}
	for offset := 0; offset < len(items); offset++ {
		i := (start + offset) % len(items)
		if matches(folder, q, items[i]) {
			return i
		}
	}
	return current
}

// Matches reports whether item is enabled and its text starts with query
// under case folding.
func Matches[T any](query string, item Item[T]) bool {
	if query == "" {
		return false
	}
	folder := cases.Fold()
	return matches(folder, folder.String(query), item)
}

func matches[T any](folder cases.Caser, folded string, it Item[T]) bool {
	if it.Disabled || it.TextValue == "" {
		return false
	}
	return strings.HasPrefix(folder.String(it.TextValue), folded)
}

// Reorder sorts items by Order and returns the index of the previously
// active item in the new order, or None when it is gone.
func Reorder[T any](items []Item[T], current int) ([]Item[T], int) {
	activeID := ""
	hasActive := current >= 0 && current < len(items)
	if hasActive {
		activeID = items[current].ID
	}

	out := append([]Item[T](nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })

	if !hasActive {
		return out, None
	}
	for i := range out {
		if out[i].ID == activeID {
			return out, i
		}
	}
	return out, None
}

// IndexOf returns the index of the item with id, or None.
func IndexOf[T any](items []Item[T], id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return None
}

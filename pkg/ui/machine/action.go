// Package machine holds the pure state reducers behind menus, listboxes,
// tabs, disclosures and dialogs.
//
// Every reducer returns the next state and whether anything changed, so
// hosts can skip re-rendering when an action was a no-op.
package machine

import "github.com/odvcencio/tabstop/pkg/ui/listnav"

// Action is a reducer input. The concrete types below form a closed set.
type Action interface {
	action()
}

// Open opens a widget. For lists, Focus selects the item made active.
type Open struct {
	Focus listnav.Directive
}

// Close closes a widget.
type Close struct{}

// Toggle flips a widget between open and closed.
type Toggle struct{}

// GoTo moves the active item.
type GoTo struct {
	Directive listnav.Directive
}

// Search moves the active item to the next match of Query, the full
// accumulated type-ahead text.
type Search struct {
	Query string
}

// ClearSearch drops the type-ahead query.
type ClearSearch struct{}

// Register adds or replaces an item.
type Register[T any] struct {
	Item listnav.Item[T]
}

// Unregister removes the item with ID.
type Unregister struct {
	ID string
}

func (Open) action()        {}
func (Close) action()       {}
func (Toggle) action()      {}
func (GoTo) action()        {}
func (Search) action()      {}
func (ClearSearch) action() {}
func (Register[T]) action() {}
func (Unregister) action()  {}

package machine

import "github.com/odvcencio/tabstop/pkg/ui/listnav"

// ListState is the state of a menu or listbox.
type ListState[T any] struct {
	Open   bool
	Items  []listnav.Item[T]
	Active int
	Query  string
}

// NewListState returns a closed, empty list with no active item.
func NewListState[T any]() ListState[T] {
	return ListState[T]{Active: listnav.None}
}

// ActiveItem returns the active item, if any.
func (s ListState[T]) ActiveItem() (listnav.Item[T], bool) {
	if s.Active < 0 || s.Active >= len(s.Items) {
		var zero listnav.Item[T]
		return zero, false
	}
	return s.Items[s.Active], true
}

// ReduceList applies a to s. Unknown actions leave s unchanged.
func ReduceList[T any](s ListState[T], a Action) (ListState[T], bool) {
	switch a := a.(type) {
	case Open:
		if s.Open && a.Focus.Kind == listnav.Nothing {
			return s, false
		}
		next := s
		next.Open = true
		if a.Focus.Kind != listnav.Nothing {
			next.Active = listnav.Calculate(a.Focus, s.Items, s.Active)
		}
		return next, next.Open != s.Open || next.Active != s.Active

	case Close:
		if !s.Open {
			return s, false
		}
		s.Open = false
		s.Active = listnav.None
		s.Query = ""
		return s, true

	case Toggle:
		if s.Open {
			return ReduceList(s, Close{})
		}
		return ReduceList(s, Open{})

	case GoTo:
		active := listnav.Calculate(a.Directive, s.Items, s.Active)
		if active == s.Active && s.Query == "" {
			return s, false
		}
		s.Active = active
		s.Query = ""
		return s, true

	case Search:
		return reduceSearch(s, a.Query)

	case ClearSearch:
		if s.Query == "" {
			return s, false
		}
		s.Query = ""
		return s, true

	case Register[T]:
		return reduceRegister(s, a.Item)

	case Unregister:
		return reduceUnregister(s, a.ID)
	}
	return s, false
}

func reduceSearch[T any](s ListState[T], query string) (ListState[T], bool) {
	if query == s.Query {
		return s, false
	}
	// While a search is ongoing the active item stays active as long as
	// it still matches, so scanning starts at it instead of after it.
	from := s.Active
	if s.Query != "" && from != listnav.None {
		from--
	}
	active := listnav.Search(query, s.Items, from)
	if active == from && (from == listnav.None || !listnav.Matches(query, s.Items[from])) {
		active = s.Active
	}
	s.Query = query
	s.Active = active
	return s, true
}

func reduceRegister[T any](s ListState[T], item listnav.Item[T]) (ListState[T], bool) {
	items := append([]listnav.Item[T](nil), s.Items...)
	if i := listnav.IndexOf(items, item.ID); i != listnav.None {
		items[i] = item
	} else {
		items = append(items, item)
	}
	s.Items, s.Active = listnav.Reorder(items, s.Active)
	return s, true
}

func reduceUnregister[T any](s ListState[T], id string) (ListState[T], bool) {
	i := listnav.IndexOf(s.Items, id)
	if i == listnav.None {
		return s, false
	}
	active := s.Active
	if i == active {
		active = listnav.None
	}
	items := append(append([]listnav.Item[T](nil), s.Items[:i]...), s.Items[i+1:]...)
	if active > i {
		active--
	}
	s.Items = items
	s.Active = active
	return s, true
}

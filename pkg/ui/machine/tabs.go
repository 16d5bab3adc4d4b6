package machine

import "github.com/odvcencio/tabstop/pkg/ui/listnav"

// TabsState is the state of a tab list.
type TabsState[T any] struct {
	Tabs     []listnav.Item[T]
	Selected int
}

// NewTabsState returns a tab list with nothing selected.
func NewTabsState[T any]() TabsState[T] {
	return TabsState[T]{Selected: listnav.None}
}

// ReduceTabs applies GoTo, Register and Unregister. Unlike lists, Next and
// Previous wrap: running off either end selects the first or last enabled
// tab. The first enabled tab is selected once one registers.
func ReduceTabs[T any](s TabsState[T], a Action) (TabsState[T], bool) {
	switch a := a.(type) {
	case GoTo:
		selected := listnav.Calculate(a.Directive, s.Tabs, s.Selected)
		if selected == s.Selected {
			switch a.Directive.Kind {
			case listnav.Next:
				selected = listnav.Calculate(listnav.Go(listnav.First), s.Tabs, s.Selected)
			case listnav.Previous:
				selected = listnav.Calculate(listnav.Go(listnav.Last), s.Tabs, s.Selected)
			}
		}
		if selected == s.Selected || selected == listnav.None {
			return s, false
		}
		s.Selected = selected
		return s, true

	case Register[T]:
		list, _ := reduceRegister(ListState[T]{Items: s.Tabs, Active: s.Selected}, a.Item)
		s.Tabs, s.Selected = list.Items, list.Active
		if s.Selected == listnav.None {
			s.Selected = listnav.Calculate(listnav.Go(listnav.First), s.Tabs, listnav.None)
		}
		return s, true

	case Unregister:
		list, changed := reduceUnregister(ListState[T]{Items: s.Tabs, Active: s.Selected}, a.ID)
		if !changed {
			return s, false
		}
		s.Tabs, s.Selected = list.Items, list.Active
		if s.Selected == listnav.None {
			s.Selected = listnav.Calculate(listnav.Go(listnav.First), s.Tabs, listnav.None)
		}
		return s, true
	}
	return s, false
}

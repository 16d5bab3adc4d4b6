package machine

// DisclosureState is the state of a show/hide section.
type DisclosureState struct {
	Open bool
}

// ReduceDisclosure applies Open, Close and Toggle.
func ReduceDisclosure(s DisclosureState, a Action) (DisclosureState, bool) {
	open, changed := reduceOpen(s.Open, a)
	return DisclosureState{Open: open}, changed
}

// DialogState is the state of a dialog.
type DialogState struct {
	Open bool
}

// ReduceDialog applies Open, Close and Toggle.
func ReduceDialog(s DialogState, a Action) (DialogState, bool) {
	open, changed := reduceOpen(s.Open, a)
	return DialogState{Open: open}, changed
}

func reduceOpen(open bool, a Action) (bool, bool) {
	switch a.(type) {
	case Open:
		return true, !open
	case Close:
		return false, open
	case Toggle:
		return !open, true
	}
	return open, false
}

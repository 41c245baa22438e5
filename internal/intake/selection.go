package intake

import "slices"

// Selection is the set of checked condition ids in insertion order.
// It never holds NoneID together with any other id.
type Selection []string

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Toggle applies a single checkbox change and returns the new selection.
// The input is never modified.
//
// Checking NoneID clears everything else; checking any other id drops NoneID.
// Toggling an id into the state it is already in leaves the selection unchanged.
func Toggle(s Selection, id string, checked bool) Selection {
	if id == NoneID {
		if checked {
			return Selection{NoneID}
		}
		return Selection{}
	}

	out := append(Selection{}, s...)
	if !checked {
		return slices.DeleteFunc(out, func(e string) bool { return e == id })
	}
	out = slices.DeleteFunc(out, func(e string) bool { return e == NoneID })
	if !out.Contains(id) {
		out = append(out, id)
	}
	return out
}

// HasDisease is true when the selection is non-empty and is not exactly {NoneID}.
func HasDisease(s Selection) bool {
	return len(s) > 0 && !s.Contains(NoneID)
}

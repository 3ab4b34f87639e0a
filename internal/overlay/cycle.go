// Package overlay implements the composable HUD/overlay system:
// a stack of modal panels (help, settings, theme picker, transcript
// history, toast history, action center) layered over the PTY session, each
// reserving a fixed number of rows and navigable with cyclic index helpers.
package overlay

// CycleIndex computes the next index in a circular list of length len,
// stepping by direction (may be negative). Returns 0 for an empty list.
func CycleIndex(current, length, direction int) int {
	if length == 0 {
		return 0
	}
	next := (current+direction)%length
	if next < 0 {
		next += length
	}
	return next
}

// CycleOption returns the next value in a circular option list, wrapping
// past either end. If current is not found in options, behaves as though
// it were at index 0.
func CycleOption[T comparable](options []T, current T, direction int) T {
	if len(options) == 0 {
		return current
	}
	idx := 0
	for i, v := range options {
		if v == current {
			idx = i
			break
		}
	}
	next := CycleIndex(idx, len(options), direction)
	return options[next]
}

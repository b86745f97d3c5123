package search

// The expansion list renders three visible slots and always scrolls by
// exactly one item. Expansions 1 and 2 are visible without scrolling
// because the list shows two items above the fold; from the third
// onward, each scroll advances one position and the target ends up in
// the bottom slot.

// Scrolls returns how many scroll gestures bring the 1-indexed
// expansion n into view.
func Scrolls(n int) int {
	if n <= 2 {
		return 0
	}
	return n - 2
}

// Slot returns the 1-indexed visible slot to tap for expansion n after
// Scrolls(n) gestures: slot 1 or 2 for the first two, always the
// bottom slot (3) after scrolling.
func Slot(n int) int {
	if n < 3 {
		return n
	}
	return 3
}

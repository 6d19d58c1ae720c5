package termbox

import "github.com/mattn/go-runewidth"

// wcwidth reports how many terminal columns a codepoint occupies. The
// general case is delegated to go-runewidth; a handful of boundary cases
// are special-cased here because go-runewidth's defaults don't match them
// verbatim (it reports 0 for control bytes, where this library
// distinguishes "no width" from "invalid/control").
func wcwidth(ch rune) int {
	if ch == 0 {
		return 0
	}
	if ch >= 0x01 && ch <= 0x1F {
		return -1
	}
	return runewidth.RuneWidth(ch)
}

// displayWidth is wcwidth normalized the way the flush algorithm requires:
// width 0 (combining marks, controls) and any other non-positive result
// collapse to 1 so every cell advances the column walker by at least one.
func displayWidth(ch rune) int {
	w := wcwidth(ch)
	if w <= 0 {
		return 1
	}
	return w
}

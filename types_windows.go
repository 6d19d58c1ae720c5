//go:build windows

package termbox

import "golang.org/x/sys/windows"

// diffMsg is one contiguous run of changed cells in row-major order (it may
// wrap from the end of one row onto the next), queued for
// a single WriteConsoleOutputAttribute/WriteConsoleOutputCharacter pair.
// Grounded on the nsf/termbox-go Windows driver vendored at
// other_examples/f5add3bd_peco-peco.../termbox_windows.go ("diff_msg").
type diffMsg struct {
	pos   windows.Coord
	attrs []uint16
	chars []uint16
}

// platformState holds everything the Windows console driver needs beyond
// the shared Termbox fields. Two console-I/O strategies are supported:
// winVT, where ENABLE_VIRTUAL_TERMINAL_PROCESSING succeeded and the same
// ANSI SGR/cursor sequences as the POSIX driver are written directly; and
// the classic CHAR_INFO path, used when that mode is unavailable.
type platformState struct {
	inHandle  windows.Handle
	outHandle windows.Handle

	origInMode   uint32
	origOutMode  uint32
	origScreen   windows.Handle // caller's active screen buffer before Init, restored by Close
	origCodePage uint32         // output code page before Init, restored by Close
	consoleWin   bool           // true once Init has swapped in its own screen buffer
	winVT        bool

	attrsbuf []uint16
	charsbuf []uint16
	diffbuf  []diffMsg

	lastFg, lastBg Attribute
	lastX, lastY   int
	outbuf         []byte

	quit  chan struct{}
	input chan Event

	altModeEsc bool
	lastButton Key
	lastState  uint32
}

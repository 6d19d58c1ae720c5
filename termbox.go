// Package termbox provides a minimalist, dual-buffered terminal cell grid:
// set cells, flush the diff against the terminal, and read keyboard/mouse
// events off a single input stream. A *Termbox returned by Init owns every
// piece of its runtime state; only one may be live per process.
package termbox

import (
	"sync"
	"sync/atomic"
	"time"
)

// initialized guards the process-wide singleton: at most one *Termbox may
// be live at a time, enforced here rather than by a package of re-exported
// globals.
var initialized int32

// cursorHidden is the sentinel cursor coordinate meaning "hidden".
const cursorHidden = -1

// Termbox owns every piece of a session's runtime state: both cell
// buffers, the active modes, the cursor position, and (via the embedded,
// build-tag-specific platformState) every OS handle, queue and goroutine
// backing it. See DESIGN.md for the rationale behind owning this as a
// value rather than package-level state.
type Termbox struct {
	mu sync.Mutex

	inputMode  InputMode
	outputMode OutputMode
	fg, bg     Attribute
	cursorX    int
	cursorY    int

	back  CellBuffer
	front CellBuffer

	interruptCh chan struct{}

	plat platformState
}

func (tb *Termbox) isCursorHidden(x, y int) bool {
	return x == cursorHidden || y == cursorHidden
}

// SetCell changes a cell's parameters in the internal back buffer. An
// out-of-bounds position returns ErrOutOfBounds and leaves all state
// unchanged.
func (tb *Termbox) SetCell(x, y int, ch rune, fg, bg Attribute) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if !tb.back.inBounds(x, y) {
		return newErr(ErrOutOfBounds)
	}
	*tb.back.at(x, y) = Cell{Ch: ch, Fg: fg, Bg: bg}
	return nil
}

// GetCell returns a copy of the back-buffer cell at (x, y).
func (tb *Termbox) GetCell(x, y int) (Cell, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if !tb.back.inBounds(x, y) {
		return Cell{}, newErr(ErrOutOfBounds)
	}
	return *tb.back.at(x, y), nil
}

// CellBuffer returns a read view into the back buffer. It remains valid
// until the next Clear or Flush call.
func (tb *Termbox) CellBuffer() []Cell {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.back.Cells
}

// Size returns the current buffer dimensions, mirroring the terminal's
// last-observed size.
func (tb *Termbox) Size() (int, int) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.back.Width, tb.back.Height
}

// Clear records (fg, bg) as the clear color and resets every back-buffer
// cell to (space, fg, bg), first resizing the buffers if the terminal
// changed size since the last call.
func (tb *Termbox) Clear(fg, bg Attribute) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.fg, tb.bg = fg, bg
	err := tb.updateSizeMaybeLocked()
	tb.back.clear(fg, bg)
	return err
}

// SetOutputMode selects how Attribute color values are encoded into SGR
// sequences on the next Flush. OutputCurrent returns the active mode
// without changing it.
func (tb *Termbox) SetOutputMode(mode OutputMode) OutputMode {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if mode == OutputCurrent {
		return tb.outputMode
	}
	tb.outputMode = tb.normalizeOutputMode(mode)
	return tb.outputMode
}

// HideCursor is the shortcut for SetCursor(-1, -1).
func (tb *Termbox) HideCursor() {
	tb.SetCursor(cursorHidden, cursorHidden)
}

// Interrupt unblocks a single pending PollEvent, which then returns
// Event{Type: EventInterrupt}. Safe to call concurrently with PollEvent.
func (tb *Termbox) Interrupt() {
	select {
	case tb.interruptCh <- struct{}{}:
	default:
	}
}

// PeekEvent waits up to timeout for an event. On timeout it returns a
// *Error with code ErrNoEvent. It is built entirely out of Interrupt and a
// cancelled-on-success timer: a one-shot goroutine calls Interrupt after the
// deadline, and is cancelled if PollEvent returns first.
func (tb *Termbox) PeekEvent(timeout time.Duration) (Event, error) {
	var timedOut int32
	timer := time.AfterFunc(timeout, func() {
		atomic.StoreInt32(&timedOut, 1)
		tb.Interrupt()
	})

	ev := tb.PollEvent()
	timer.Stop()

	if ev.Type == EventInterrupt && atomic.LoadInt32(&timedOut) == 1 {
		return Event{}, newErr(ErrNoEvent)
	}
	return ev, nil
}

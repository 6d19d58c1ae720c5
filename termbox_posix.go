//go:build !windows

package termbox

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// Init acquires the controlling tty, resolves the terminal's capability
// tables, switches it into raw mode and spawns the POSIX input producer.
// Only one *Termbox may be live per process; a second call returns
// ErrAlreadyInitialized without touching terminal state.
func Init() (*Termbox, error) {
	if !atomic.CompareAndSwapInt32(&initialized, 0, 1) {
		return nil, newErr(ErrAlreadyInitialized)
	}

	tb := &Termbox{
		interruptCh: make(chan struct{}, 1),
		inputMode:   InputEsc,
		outputMode:  OutputNormal,
		fg:          ColorDefault,
		bg:          ColorDefault,
		cursorX:     cursorHidden,
		cursorY:     cursorHidden,
	}
	tb.plat.sigwinch = make(chan os.Signal, 1)
	tb.plat.sigio = make(chan os.Signal, 1)
	tb.plat.quit = make(chan struct{})
	tb.plat.input = make(chan inputRecord)
	tb.plat.lastFg = attrInvalid
	tb.plat.lastBg = attrInvalid
	tb.plat.lastX = coordInvalid
	tb.plat.lastY = coordInvalid

	var err error
	tb.plat.outFile, err = os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		tb.abortInit()
		return nil, wrapErr(ErrOpenTTY, err)
	}

	inFd, err := unix.Open("/dev/tty", unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		tb.abortInit()
		return nil, wrapErr(ErrOpenTTY, err)
	}
	tb.plat.inFd = inFd

	funcs, keys, err := setupTerm()
	if err != nil {
		tb.abortInit()
		return nil, err
	}
	tb.plat.funcs = funcs
	tb.plat.keys = keys

	signal.Notify(tb.plat.sigwinch, syscall.SIGWINCH)
	signal.Notify(tb.plat.sigio, syscall.SIGIO)

	flags, err := unix.FcntlInt(uintptr(inFd), unix.F_GETFL, 0)
	if err == nil {
		_, err = unix.FcntlInt(uintptr(inFd), unix.F_SETFL, flags|unix.O_ASYNC|unix.O_NONBLOCK)
	}
	if err != nil {
		tb.abortInit()
		return nil, wrapErr(ErrPollSetup, err)
	}
	if _, err = unix.FcntlInt(uintptr(inFd), unix.F_SETOWN, os.Getpid()); err != nil && runtime.GOOS != "darwin" {
		tb.abortInit()
		return nil, wrapErr(ErrPollSetup, err)
	}

	origTermios, err := unix.IoctlGetTermios(int(tb.plat.outFile.Fd()), ioctlTCGETS)
	if err != nil {
		tb.abortInit()
		return nil, wrapErr(ErrTermios, err)
	}
	tb.plat.origTermios = *origTermios

	tios := *origTermios
	tios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	tios.Oflag &^= unix.OPOST
	tios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	tios.Cflag &^= unix.CSIZE | unix.PARENB
	tios.Cflag |= unix.CS8
	tios.Cc[unix.VMIN] = 1
	tios.Cc[unix.VTIME] = 0

	if err = unix.IoctlSetTermios(int(tb.plat.outFile.Fd()), ioctlTCSETS, &tios); err != nil {
		tb.abortInit()
		return nil, wrapErr(ErrTermios, err)
	}

	tb.plat.outFile.WriteString(tb.plat.funcs[tEnterCA])
	tb.plat.outFile.WriteString(tb.plat.funcs[tEnterKeypad])
	tb.plat.outFile.WriteString(tb.plat.funcs[tHideCursor])
	tb.plat.outFile.WriteString(tb.plat.funcs[tClearScreen])

	w, h := tb.getTermSize()
	tb.back.init(w, h)
	tb.front.init(w, h)
	tb.back.clear(tb.fg, tb.bg)
	// front buffer is left zero-valued (not cleared) so the first Flush
	// diffs against nothing and redraws the whole screen.

	go tb.inputProducer()

	return tb, nil
}

func (tb *Termbox) abortInit() {
	if tb.plat.outFile != nil {
		tb.plat.outFile.Close()
	}
	if tb.plat.inFd != 0 {
		unix.Close(tb.plat.inFd)
	}
	atomic.StoreInt32(&initialized, 0)
}

// Close reverses every step of Init. It is best-effort: failures restoring
// terminal state are not reported, and Close always reports success unless
// called before Init.
func (tb *Termbox) Close() error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if atomic.LoadInt32(&initialized) == 0 {
		return newErr(ErrNotInitialized)
	}

	close(tb.plat.quit)
	signal.Stop(tb.plat.sigwinch)
	signal.Stop(tb.plat.sigio)

	tb.plat.outFile.WriteString(tb.plat.funcs[tShowCursor])
	tb.plat.outFile.WriteString(tb.plat.funcs[tSgr0])
	tb.plat.outFile.WriteString(tb.plat.funcs[tClearScreen])
	tb.plat.outFile.WriteString(tb.plat.funcs[tExitCA])
	tb.plat.outFile.WriteString(tb.plat.funcs[tExitKeypad])
	tb.plat.outFile.WriteString(tb.plat.funcs[tExitMouse])
	unix.IoctlSetTermios(int(tb.plat.outFile.Fd()), ioctlTCSETS, &tb.plat.origTermios)

	tb.plat.outFile.Close()
	unix.Close(tb.plat.inFd)

	atomic.StoreInt32(&initialized, 0)
	return nil
}

// Flush walks the back buffer row by row, emits the minimal set of SGR/
// cursor-move/UTF-8 writes needed to reconcile the front buffer with it,
// and copies back into front cell by cell as it goes.
func (tb *Termbox) Flush() error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.plat.lastX = coordInvalid
	tb.plat.lastY = coordInvalid
	tb.plat.lastFg = attrInvalid
	tb.plat.lastBg = attrInvalid

	if err := tb.updateSizeMaybeLocked(); err != nil {
		return err
	}

	for y := 0; y < tb.front.Height; y++ {
		lineOff := y * tb.front.Width
		for x := 0; x < tb.front.Width; {
			cellOff := lineOff + x
			back := &tb.back.Cells[cellOff]
			front := &tb.front.Cells[cellOff]

			if back.Ch < 0x20 {
				back.Ch = ' '
			}
			w := displayWidth(back.Ch)

			if *back == *front {
				x += w
				continue
			}
			*front = *back
			tb.sendAttr(back.Fg, back.Bg)

			if w == 2 && x == tb.front.Width-1 {
				tb.sendChar(x, y, ' ')
			} else {
				tb.sendChar(x, y, back.Ch)
				if w == 2 {
					tb.front.Cells[cellOff+1] = Cell{Ch: 0, Fg: back.Fg, Bg: back.Bg}
				}
			}
			x += w
		}
	}

	if !tb.isCursorHidden(tb.cursorX, tb.cursorY) {
		tb.writeCursor(tb.cursorX, tb.cursorY)
	}
	return tb.flushOut()
}

// Sync clears the remembered front buffer and forces a full redraw,
// recovering from out-of-band terminal corruption.
func (tb *Termbox) Sync() error {
	tb.mu.Lock()
	tb.front.clear(tb.fg, tb.bg)
	err := tb.sendClear()
	tb.mu.Unlock()
	if err != nil {
		return err
	}
	return tb.Flush()
}

func (tb *Termbox) updateSizeMaybeLocked() error {
	w, h := tb.getTermSize()
	if w != tb.back.Width || h != tb.back.Height {
		tb.back.resize(w, h, tb.fg, tb.bg)
		tb.front.resize(w, h, tb.fg, tb.bg)
		tb.front.clear(tb.fg, tb.bg)
		return tb.sendClear()
	}
	return nil
}

func (tb *Termbox) getTermSize() (int, int) {
	ws, err := unix.IoctlGetWinsize(int(tb.plat.outFile.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return tb.back.Width, tb.back.Height
	}
	return int(ws.Col), int(ws.Row)
}

func (tb *Termbox) sendClear() error {
	tb.sendAttr(tb.fg, tb.bg)
	tb.plat.outbuf.WriteString(tb.plat.funcs[tClearScreen])
	if !tb.isCursorHidden(tb.cursorX, tb.cursorY) {
		tb.writeCursor(tb.cursorX, tb.cursorY)
	}
	tb.plat.lastX = coordInvalid
	tb.plat.lastY = coordInvalid
	return tb.flushOut()
}

func (tb *Termbox) writeCursor(x, y int) {
	fmt.Fprintf(&tb.plat.outbuf, "\x1b[%d;%dH", y+1, x+1)
}

func (tb *Termbox) sendChar(x, y int, ch rune) {
	if x-1 != tb.plat.lastX || y != tb.plat.lastY {
		tb.writeCursor(x, y)
	}
	tb.plat.lastX, tb.plat.lastY = x, y

	var buf [4]byte
	n := utf8.EncodeRune(buf[:], ch)
	tb.plat.outbuf.Write(buf[:n])
}

func (tb *Termbox) flushOut() error {
	_, err := tb.plat.outFile.Write(tb.plat.outbuf.Bytes())
	tb.plat.outbuf.Reset()
	if err != nil {
		return wrapErr(ErrWrite, err)
	}
	return nil
}

// sendAttr emits sgr0 followed by the minimal SGR sequence for (fg, bg).
// The fg/bg caches are invalidated at the start of Flush; otherwise this
// short-circuits when (fg, bg) is unchanged.
func (tb *Termbox) sendAttr(fg, bg Attribute) {
	if fg == tb.plat.lastFg && bg == tb.plat.lastBg {
		return
	}
	tb.plat.outbuf.WriteString(tb.plat.funcs[tSgr0])

	for _, seq := range colorSequences(fg, bg, tb.outputMode) {
		tb.plat.outbuf.WriteString(seq)
	}

	if fg&AttrBold != 0 {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tBold])
	}
	if fg&AttrDim != 0 {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tDim])
	}
	if fg&AttrUnderline != 0 {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tUnderline])
	}
	if fg&AttrItalic != 0 {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tCursive])
	}
	if fg&AttrHidden != 0 {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tHidden])
	}
	if fg&AttrBlink != 0 {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tBlink])
	}
	// Background blink has no portable escape sequence across the builtin
	// terminal table; never emitted.
	if fg&AttrReverse != 0 || bg&AttrReverse != 0 {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tReverse])
	}

	tb.plat.lastFg, tb.plat.lastBg = fg, bg
}

// SetCursor shows/hides the terminal cursor as needed and, when visible,
// writes a cursor-move sequence to the new position.
func (tb *Termbox) SetCursor(x, y int) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.isCursorHidden(tb.cursorX, tb.cursorY) && !tb.isCursorHidden(x, y) {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tShowCursor])
	}
	if !tb.isCursorHidden(tb.cursorX, tb.cursorY) && tb.isCursorHidden(x, y) {
		tb.plat.outbuf.WriteString(tb.plat.funcs[tHideCursor])
	}

	tb.cursorX, tb.cursorY = x, y
	if !tb.isCursorHidden(x, y) {
		tb.writeCursor(x, y)
	}
	tb.flushOut()
}

// SetInputMode normalizes mode so at least one of Esc/Alt is set (Esc wins
// if both are requested), toggles the DECSET mouse-reporting sequences, and
// stores the result.
func (tb *Termbox) SetInputMode(mode InputMode) InputMode {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if mode == InputCurrent {
		return tb.inputMode
	}
	if mode&(InputEsc|InputAlt) == 0 {
		mode |= InputEsc
	}
	if mode&InputEsc != 0 {
		mode &^= InputAlt
	}

	if mode&InputMouse != 0 {
		tb.plat.outFile.WriteString(tb.plat.funcs[tEnterMouse])
	} else {
		tb.plat.outFile.WriteString(tb.plat.funcs[tExitMouse])
	}

	tb.inputMode = mode
	return tb.inputMode
}

// normalizeOutputMode is a no-op on POSIX: every OutputMode is rendered
// via terminfo-resolved SGR sequences, so nothing needs coercing.
func (tb *Termbox) normalizeOutputMode(mode OutputMode) OutputMode {
	return mode
}

// PollEvent deterministically prefers, in order: an event already decodable
// from the buffered input, a freshly read chunk, the interrupt channel,
// then the resize channel.
func (tb *Termbox) PollEvent() Event {
	escWait := runtime.GOOS == "darwin"

	for {
		tb.mu.Lock()
		ev, n, status := extractEvent(tb.plat.inbuf, tb.plat.keys, tb.inputMode, escWait)
		if status == extractOK || status == extractInvalid {
			tb.plat.inbuf = tb.plat.inbuf[n:]
			tb.mu.Unlock()
			return ev
		}
		tb.mu.Unlock()

		var timeoutC <-chan time.Time
		var timer *time.Timer
		if status == extractEscWait {
			timer = time.NewTimer(100 * time.Millisecond)
			timeoutC = timer.C
		}

		// Priority order: input > interrupt > resize. A non-blocking pass
		// first so a ready higher-priority source is never starved by
		// Go's unordered multi-case select.
		select {
		case rec, ok := <-tb.plat.input:
			stopTimer(timer)
			if !ok {
				return Event{Type: EventInterrupt}
			}
			if rec.err != nil {
				return Event{Type: EventError, Err: rec.err}
			}
			tb.mu.Lock()
			tb.plat.inbuf = append(tb.plat.inbuf, rec.data...)
			tb.mu.Unlock()
			continue
		default:
		}

		select {
		case <-tb.interruptCh:
			stopTimer(timer)
			return Event{Type: EventInterrupt}
		default:
		}

		select {
		case <-tb.plat.sigwinch:
			stopTimer(timer)
			w, h := tb.getTermSize()
			return Event{Type: EventResize, Width: w, Height: h}
		default:
		}

		select {
		case rec, ok := <-tb.plat.input:
			stopTimer(timer)
			if !ok {
				return Event{Type: EventInterrupt}
			}
			if rec.err != nil {
				return Event{Type: EventError, Err: rec.err}
			}
			tb.mu.Lock()
			tb.plat.inbuf = append(tb.plat.inbuf, rec.data...)
			tb.mu.Unlock()
		case <-tb.interruptCh:
			stopTimer(timer)
			return Event{Type: EventInterrupt}
		case <-tb.plat.sigwinch:
			stopTimer(timer)
			w, h := tb.getTermSize()
			return Event{Type: EventResize, Width: w, Height: h}
		case <-timeoutC:
			tb.mu.Lock()
			ev, n, _ := extractEvent(tb.plat.inbuf, tb.plat.keys, tb.inputMode, false)
			tb.plat.inbuf = tb.plat.inbuf[n:]
			tb.mu.Unlock()
			return ev
		}
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// PollRawEvent bypasses extraction entirely, delivering up to len(data)
// unparsed bytes as Event{Type: EventRaw}.
func (tb *Termbox) PollRawEvent(data []byte) Event {
	if len(data) == 0 {
		return Event{Type: EventError, Err: newErr(ErrOutOfMemory)}
	}

	for {
		tb.mu.Lock()
		if len(tb.plat.inbuf) > 0 {
			n := copy(data, tb.plat.inbuf)
			tb.plat.inbuf = tb.plat.inbuf[n:]
			tb.mu.Unlock()
			return Event{Type: EventRaw, Raw: data[:n], N: n}
		}
		tb.mu.Unlock()

		select {
		case rec, ok := <-tb.plat.input:
			if !ok {
				return Event{Type: EventInterrupt}
			}
			if rec.err != nil {
				return Event{Type: EventError, Err: rec.err}
			}
			tb.mu.Lock()
			tb.plat.inbuf = append(tb.plat.inbuf, rec.data...)
			tb.mu.Unlock()
		case <-tb.interruptCh:
			return Event{Type: EventInterrupt}
		case <-tb.plat.sigwinch:
			w, h := tb.getTermSize()
			return Event{Type: EventResize, Width: w, Height: h}
		}
	}
}

// inputProducer is the background reader task: it waits on sigio (data
// ready) or quit, non-blockingly drains up to 128 bytes per read, and
// enqueues each chunk.
func (tb *Termbox) inputProducer() {
	buf := make([]byte, 128)
	for {
		select {
		case <-tb.plat.sigio:
			for {
				n, err := unix.Read(tb.plat.inFd, buf)
				if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
					break
				}
				if n <= 0 {
					break
				}
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case tb.plat.input <- inputRecord{data: chunk, err: err}:
				case <-tb.plat.quit:
					return
				}
				if err != nil {
					break
				}
			}
		case <-tb.plat.quit:
			return
		}
	}
}

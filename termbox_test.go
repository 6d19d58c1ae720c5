package termbox

import "testing"

func newTestTermbox(w, h int) *Termbox {
	tb := &Termbox{
		interruptCh: make(chan struct{}, 1),
		inputMode:   InputEsc,
		outputMode:  OutputNormal,
		fg:          ColorDefault,
		bg:          ColorDefault,
		cursorX:     cursorHidden,
		cursorY:     cursorHidden,
	}
	tb.back.init(w, h)
	tb.front.init(w, h)
	tb.back.clear(tb.fg, tb.bg)
	return tb
}

func TestTermboxSetCellAndGetCell(t *testing.T) {
	tb := newTestTermbox(10, 5)
	if err := tb.SetCell(2, 1, 'x', ColorRed, ColorBlue); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	c, err := tb.GetCell(2, 1)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if c.Ch != 'x' || c.Fg != ColorRed || c.Bg != ColorBlue {
		t.Errorf("got %+v", c)
	}
}

func TestTermboxSetCellOutOfBounds(t *testing.T) {
	tb := newTestTermbox(10, 5)
	if err := tb.SetCell(10, 0, 'x', ColorDefault, ColorDefault); !IsErrorCode(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if _, err := tb.GetCell(-1, 0); !IsErrorCode(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestTermboxSize(t *testing.T) {
	tb := newTestTermbox(80, 24)
	w, h := tb.Size()
	if w != 80 || h != 24 {
		t.Errorf("Size() = (%d, %d), want (80, 24)", w, h)
	}
}

func TestTermboxCellBufferReflectsSetCell(t *testing.T) {
	tb := newTestTermbox(3, 1)
	tb.SetCell(1, 0, 'm', ColorGreen, ColorDefault)
	cells := tb.CellBuffer()
	if cells[1].Ch != 'm' || cells[1].Fg != ColorGreen {
		t.Errorf("CellBuffer()[1] = %+v", cells[1])
	}
}

func TestTermboxSetOutputMode(t *testing.T) {
	tb := newTestTermbox(1, 1)
	if got := tb.SetOutputMode(Output256); got != Output256 {
		t.Errorf("SetOutputMode(Output256) = %v", got)
	}
	if got := tb.SetOutputMode(OutputCurrent); got != Output256 {
		t.Errorf("SetOutputMode(OutputCurrent) = %v, want unchanged Output256", got)
	}
}

func TestTermboxInterruptUnblocksPollEvent(t *testing.T) {
	tb := newTestTermbox(1, 1)
	tb.Interrupt()
	ev := tb.PollEvent()
	if ev.Type != EventInterrupt {
		t.Fatalf("PollEvent() = %+v, want EventInterrupt", ev)
	}
}

package termbox

import "testing"

func TestExtractEventPlainASCII(t *testing.T) {
	ev, n, status := extractEvent([]byte("Az"), nil, InputEsc, false)
	if status != extractOK || n != 1 || ev.Type != EventKey || ev.Ch != 'A' {
		t.Fatalf("got ev=%+v n=%d status=%v", ev, n, status)
	}
}

func TestExtractEventControlByte(t *testing.T) {
	ev, n, status := extractEvent([]byte{0x03, 'x'}, nil, InputEsc, false)
	if status != extractOK || n != 1 || ev.Type != EventKey || ev.Key != KeyCtrlC {
		t.Fatalf("got ev=%+v n=%d status=%v", ev, n, status)
	}
}

func TestExtractEventUTF8Rune(t *testing.T) {
	buf := []byte("中x")
	ev, n, status := extractEvent(buf, nil, InputEsc, false)
	if status != extractOK || n != 3 || ev.Ch != '中' {
		t.Fatalf("got ev=%+v n=%d status=%v", ev, n, status)
	}
}

// "\x1bOD" with the "screen" terminal's key table yields KeyArrowLeft.
func TestExtractEventKeyPrefixArrowLeft(t *testing.T) {
	ev, n, status := extractEvent([]byte("\x1bOD"), screenKeys, InputEsc, false)
	if status != extractOK || n != 3 {
		t.Fatalf("status=%v n=%d", status, n)
	}
	if ev.Type != EventKey || ev.Key != KeyArrowLeft {
		t.Fatalf("got %+v, want KeyArrowLeft", ev)
	}
}

// A lone ESC is a prefix of every entry in a non-empty key table, so it is
// ambiguous; allowEscWait=false forces immediate resolution to KeyEsc.
func TestExtractEventLoneEscResolvesToKeyEsc(t *testing.T) {
	ev, n, status := extractEvent([]byte{0x1b}, screenKeys, InputEsc, false)
	if status != extractOK || n != 1 || ev.Key != KeyEsc {
		t.Fatalf("got ev=%+v n=%d status=%v", ev, n, status)
	}
}

func TestExtractEventLoneEscWaitsWhenAllowed(t *testing.T) {
	_, _, status := extractEvent([]byte{0x1b}, screenKeys, InputEsc, true)
	if status != extractEscWait {
		t.Fatalf("status=%v, want extractEscWait", status)
	}
}

func TestExtractEventAltModifiesNextKey(t *testing.T) {
	ev, n, status := extractEvent([]byte{0x1b, 'c'}, nil, InputAlt, false)
	if status != extractOK || n != 2 {
		t.Fatalf("status=%v n=%d", status, n)
	}
	if ev.Ch != 'c' || ev.Mod&ModAlt == 0 {
		t.Fatalf("got %+v, want Alt-modified 'c'", ev)
	}
}

// X10 mouse encoding.
func TestParseMouseX10(t *testing.T) {
	ev, n, status := parseMouse([]byte("\x1b[MC\x95("))
	if status != mmOK || n != 6 {
		t.Fatalf("status=%v n=%d", status, n)
	}
	if ev.Key != MouseRelease || ev.MouseX != 148 || ev.MouseY != 39 || ev.Mod != 0 {
		t.Fatalf("got %+v", ev)
	}
}

// SGR mouse encoding.
func TestParseMouseSGR(t *testing.T) {
	ev, n, status := parseMouse([]byte("\x1b[<35;110;11M"))
	if status != mmOK || n != len("\x1b[<35;110;11M") {
		t.Fatalf("status=%v n=%d", status, n)
	}
	if ev.Key != MouseRelease || ev.MouseX != 109 || ev.MouseY != 10 || ev.Mod != ModMotion {
		t.Fatalf("got %+v", ev)
	}
}

// URXVT mouse encoding.
func TestParseMouseURXVT(t *testing.T) {
	ev, n, status := parseMouse([]byte("\x1b[97;14;10M"))
	if status != mmOK || n != len("\x1b[97;14;10M") {
		t.Fatalf("status=%v n=%d", status, n)
	}
	if ev.Key != MouseWheelDown || ev.MouseX != 13 || ev.MouseY != 9 || ev.Mod != ModMotion {
		t.Fatalf("got %+v", ev)
	}
}

func TestParseMouseIncompleteWaits(t *testing.T) {
	_, _, status := parseMouse([]byte("\x1b[<35;110"))
	if status != mmIncomplete {
		t.Fatalf("status=%v, want mmIncomplete", status)
	}
}

func TestDecodeMouseButtonsLeftMiddleRight(t *testing.T) {
	cases := []struct {
		b    int
		want Key
	}{
		{0, MouseLeft},
		{1, MouseMiddle},
		{2, MouseRight},
		{3, MouseRelease},
	}
	for _, c := range cases {
		ev := decodeMouseButtons(c.b, false)
		if ev.Key != c.want {
			t.Errorf("decodeMouseButtons(%d) = %v, want %v", c.b, ev.Key, c.want)
		}
	}
}

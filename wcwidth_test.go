package termbox

import "testing"

func TestDisplayWidthControlAndNull(t *testing.T) {
	if w := displayWidth(0); w != 1 {
		t.Errorf("displayWidth(0) = %d, want 1 (normalized)", w)
	}
	if w := displayWidth(0x07); w != 1 {
		t.Errorf("displayWidth(BEL) = %d, want 1 (normalized)", w)
	}
}

func TestDisplayWidthASCII(t *testing.T) {
	if w := displayWidth('A'); w != 1 {
		t.Errorf("displayWidth('A') = %d, want 1", w)
	}
}

func TestDisplayWidthWide(t *testing.T) {
	if w := displayWidth('中'); w != 2 {
		t.Errorf("displayWidth(CJK) = %d, want 2", w)
	}
}

func TestWcwidthRawControl(t *testing.T) {
	if w := wcwidth(0x01); w != -1 {
		t.Errorf("wcwidth(0x01) = %d, want -1", w)
	}
	if w := wcwidth(0); w != 0 {
		t.Errorf("wcwidth(0) = %d, want 0", w)
	}
}

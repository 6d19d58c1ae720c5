package termbox

import "testing"

func TestCellBufferInitAndClear(t *testing.T) {
	var b CellBuffer
	b.init(4, 3)
	if len(b.Cells) != 12 {
		t.Fatalf("expected 12 cells, got %d", len(b.Cells))
	}
	b.clear(ColorRed, ColorBlue)
	for i, c := range b.Cells {
		if c.Ch != ' ' || c.Fg != ColorRed || c.Bg != ColorBlue {
			t.Fatalf("cell %d not cleared: %+v", i, c)
		}
	}
}

func TestCellBufferResizeGrowPreservesContent(t *testing.T) {
	var b CellBuffer
	b.init(2, 2)
	b.clear(ColorDefault, ColorDefault)
	*b.at(0, 0) = Cell{Ch: 'A'}
	*b.at(1, 1) = Cell{Ch: 'B'}

	b.resize(4, 4, ColorDefault, ColorDefault)
	if b.Width != 4 || b.Height != 4 {
		t.Fatalf("expected 4x4, got %dx%d", b.Width, b.Height)
	}
	if b.at(0, 0).Ch != 'A' {
		t.Fatalf("top-left content lost on grow")
	}
	if b.at(1, 1).Ch != 'B' {
		t.Fatalf("interior content lost on grow")
	}
	if b.at(3, 3).Ch != ' ' {
		t.Fatalf("new region should be cleared, got %q", b.at(3, 3).Ch)
	}
}

func TestCellBufferResizeShrinkClipsContent(t *testing.T) {
	var b CellBuffer
	b.init(4, 4)
	b.clear(ColorDefault, ColorDefault)
	*b.at(3, 3) = Cell{Ch: 'Z'}
	*b.at(0, 0) = Cell{Ch: 'A'}

	b.resize(2, 2, ColorDefault, ColorDefault)
	if b.Width != 2 || b.Height != 2 {
		t.Fatalf("expected 2x2, got %dx%d", b.Width, b.Height)
	}
	if b.at(0, 0).Ch != 'A' {
		t.Fatalf("surviving top-left content lost on shrink")
	}
}

func TestCellBufferInBounds(t *testing.T) {
	var b CellBuffer
	b.init(3, 2)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true}, {2, 1, true}, {3, 0, false}, {-1, 0, false}, {0, 2, false},
	}
	for _, c := range cases {
		if got := b.inBounds(c.x, c.y); got != c.want {
			t.Errorf("inBounds(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRGBAttributeRoundTrip(t *testing.T) {
	cases := [][3]byte{{0, 0, 0}, {255, 255, 255}, {17, 200, 3}}
	for _, c := range cases {
		a := RGBToAttribute(c[0], c[1], c[2])
		if !isRGBAttribute(a) {
			t.Fatalf("RGBToAttribute(%v) not flagged as RGB", c)
		}
		r, g, b := AttributeToRGB(a)
		if r != c[0] || g != c[1] || b != c[2] {
			t.Errorf("round trip %v -> (%d,%d,%d)", c, r, g, b)
		}
	}
}

func TestIsRGBAttributeFalseForPalette(t *testing.T) {
	if isRGBAttribute(ColorRed) {
		t.Fatalf("palette color misclassified as RGB")
	}
	if isRGBAttribute(ColorRed | AttrBold) {
		t.Fatalf("palette color with style bits misclassified as RGB")
	}
}

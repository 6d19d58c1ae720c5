package termbox

// Attribute packs a color index (or an RGB/grayscale/256-color encoding,
// depending on the active OutputMode) together with style bits in bits
// 24-30, above both the palette field and the 24-bit RGB triple.
// Attribute(0) always means "default":
// skip emitting any color code for this half of a cell.
type Attribute uint32

const (
	ColorDefault Attribute = 0
	ColorBlack   Attribute = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite

	ColorBlackBright
	ColorRedBright
	ColorGreenBright
	ColorYellowBright
	ColorBlueBright
	ColorMagentaBright
	ColorCyanBright
	ColorWhiteBright
)

// 256-color and 216-cube palette indices extend the basic sixteen. Values
// are 1-based so that 0 keeps meaning ColorDefault; callers subtract 1
// before emitting the terminal-facing index.
const (
	attrColorMask Attribute = 0x1FF
)

// Style bits, OR'd with a color value. Only AttrReverse meaningfully applies
// to the background half; the rest apply to the foreground half only (see
// sendAttr).
const (
	AttrBold Attribute = 1 << (iota + 24)
	AttrUnderline
	AttrReverse
	AttrItalic
	AttrBlink
	AttrHidden
	AttrDim
)

// rgbAttrFlag marks an Attribute as carrying a packed 24-bit RGB triple in
// its low 24 bits rather than a palette index. Set by RGBToAttribute.
const rgbAttrFlag Attribute = 1 << 31

// RGBToAttribute packs an (r,g,b) triple, each 0-255, into an Attribute
// usable in OutputRGB mode. AttributeToRGB reverses the packing exactly.
func RGBToAttribute(r, g, b byte) Attribute {
	return rgbAttrFlag | Attribute(r)<<16 | Attribute(g)<<8 | Attribute(b)
}

// AttributeToRGB unpacks an Attribute produced by RGBToAttribute back into
// its (r,g,b) triple.
func AttributeToRGB(a Attribute) (r, g, b byte) {
	a &^= rgbAttrFlag
	r = byte((a >> 16) & 0xFF)
	g = byte((a >> 8) & 0xFF)
	b = byte(a & 0xFF)
	return
}

func isRGBAttribute(a Attribute) bool {
	return a&rgbAttrFlag != 0
}

// Cell is a single conceptual screen position: a unicode codepoint plus a
// foreground and background Attribute. Ch == 0 marks a cell as the
// continuation of a double-width rune in the column to its left.
type Cell struct {
	Ch rune
	Fg Attribute
	Bg Attribute
}

// CellBuffer is a width*height matrix of Cells stored row-major, alongside
// its own dimensions. len(Cells) == Width*Height is an invariant maintained
// by every method.
type CellBuffer struct {
	Width  int
	Height int
	Cells  []Cell
}

func (b *CellBuffer) init(width, height int) {
	b.Width = width
	b.Height = height
	b.Cells = make([]Cell, width*height)
}

// clear fills every cell with (space, fg, bg).
func (b *CellBuffer) clear(fg, bg Attribute) {
	for i := range b.Cells {
		b.Cells[i] = Cell{Ch: ' ', Fg: fg, Bg: bg}
	}
}

// resize preserves the top-left min(old,new) rectangle of content and pads
// the rest with cleared cells, matching fg/bg of the existing clear color.
func (b *CellBuffer) resize(width, height int, fg, bg Attribute) {
	if b.Width == width && b.Height == height {
		return
	}

	oldWidth := b.Width
	oldHeight := b.Height
	oldCells := b.Cells

	b.init(width, height)
	b.clear(fg, bg)

	minWidth := oldWidth
	if width < minWidth {
		minWidth = width
	}
	minHeight := oldHeight
	if height < minHeight {
		minHeight = height
	}

	for y := 0; y < minHeight; y++ {
		srcOff := y * oldWidth
		dstOff := y * width
		copy(b.Cells[dstOff:dstOff+minWidth], oldCells[srcOff:srcOff+minWidth])
	}
}

func (b *CellBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

func (b *CellBuffer) at(x, y int) *Cell {
	return &b.Cells[y*b.Width+x]
}

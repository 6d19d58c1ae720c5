package termbox

import (
	"fmt"
	"strconv"
)

// grayscaleTable maps a 1..26 grayscale index into the 256-color palette's
// grayscale ramp and bright-white slot. Entries are pre-offset by one
// (256 rather than 255) so the shared colorSequences "n-1" emission
// produces the correct final code; grounded on the nsf/termbox-go vendor
// copy in other_examples/3d10b191_ethereum-go-ethereum.
var grayscaleTable = [27]Attribute{
	0, 17, 233, 234, 235, 236, 237, 238, 239, 240, 241, 242, 243, 244,
	245, 246, 247, 248, 249, 250, 251, 252, 253, 254, 255, 256, 232,
}

func clamp216(c Attribute) Attribute {
	c &= 0xFF
	if c > 216 {
		return ColorDefault
	}
	if c != ColorDefault {
		c += 0x10
	}
	return c
}

func grayscaleIndex(c Attribute) Attribute {
	c &= 0x1F
	if c > 26 {
		return ColorDefault
	}
	if c == ColorDefault {
		return ColorDefault
	}
	return grayscaleTable[c]
}

func normalSGRCode(c Attribute, fg bool) (string, bool) {
	switch {
	case c == ColorDefault:
		return "", false
	case c >= ColorBlack && c <= ColorWhite:
		base := "3"
		if !fg {
			base = "4"
		}
		return base + strconv.Itoa(int(c-ColorBlack)), true
	case c >= ColorBlackBright && c <= ColorWhiteBright:
		base := "9"
		if !fg {
			base = "10"
		}
		return base + strconv.Itoa(int(c-ColorBlackBright)), true
	default:
		return "", false
	}
}

// colorSequences returns the escape sequences needed to set the color half
// of an SGR state for fg/bg under the given output mode. It is shared by
// every SGR emitter (POSIX terminfo-driven and the Windows WinVT path)
// since the ECMA-48 color encoding itself doesn't vary by platform.
func colorSequences(fg, bg Attribute, mode OutputMode) []string {
	switch mode {
	case OutputRGB:
		var seqs []string
		if isRGBAttribute(fg) {
			r, g, b := AttributeToRGB(fg)
			seqs = append(seqs, fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b))
		}
		if isRGBAttribute(bg) {
			r, g, b := AttributeToRGB(bg)
			seqs = append(seqs, fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b))
		}
		return seqs
	case Output256:
		return color256Sequences(fg&attrColorMask, bg&attrColorMask)
	case Output216:
		return color256Sequences(clamp216(fg), clamp216(bg))
	case OutputGrayscale:
		return color256Sequences(grayscaleIndex(fg), grayscaleIndex(bg))
	default:
		return normalSequences(fg&0x1F, bg&0x1F)
	}
}

func color256Sequences(fg, bg Attribute) []string {
	var seqs []string
	if fg != ColorDefault {
		seqs = append(seqs, fmt.Sprintf("\x1b[38;5;%dm", int(fg)-1))
	}
	if bg != ColorDefault {
		seqs = append(seqs, fmt.Sprintf("\x1b[48;5;%dm", int(bg)-1))
	}
	return seqs
}

func normalSequences(fg, bg Attribute) []string {
	fgCode, fgOK := normalSGRCode(fg, true)
	bgCode, bgOK := normalSGRCode(bg, false)
	switch {
	case fgOK && bgOK:
		return []string{fmt.Sprintf("\x1b[%s;%sm", fgCode, bgCode)}
	case fgOK:
		return []string{fmt.Sprintf("\x1b[%sm", fgCode)}
	case bgOK:
		return []string{fmt.Sprintf("\x1b[%sm", bgCode)}
	default:
		return nil
	}
}

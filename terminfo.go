package termbox

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Function capability indices, in a fixed enumeration order shared by every
// terminfo source (compiled file or builtin table).
const (
	tEnterCA = iota
	tExitCA
	tShowCursor
	tHideCursor
	tClearScreen
	tSgr0
	tUnderline
	tBold
	tHidden
	tBlink
	tDim
	tCursive
	tReverse
	tEnterKeypad
	tExitKeypad
	tEnterMouse
	tExitMouse
	tMaxFuncs
)

// terminfoHeader is the 12-byte compiled terminfo header: six little-endian
// 16-bit words (magic, names-size, booleans-size, numbers-count,
// strings-count, string-table size).
type terminfoHeader struct {
	Magic        int16
	NamesSize    int16
	BooleansSize int16
	NumbersCount int16
	StringsCount int16
	TableSize    int16
}

const (
	magicLegacy   = 0432  // octal: 16-bit numbers section
	magicExtended = 0x20F // 32-bit numbers section
)

// tiFuncs maps the fixed function-capability enumeration to its ncurses
// term.h string-table position. tiKeys does the same for the key-sequence
// capabilities, ordered to match the high-range Key enumeration starting at
// KeyF1 (KeyMin+22 down to KeyMin+1).
var tiFuncs = [tMaxFuncs]int{
	tEnterCA:     28, // smcup
	tExitCA:      40, // rmcup
	tShowCursor:  16, // cnorm
	tHideCursor:  13, // civis
	tClearScreen: 5,  // clear
	tSgr0:        39, // sgr0
	tUnderline:   36, // smul
	tBold:        27, // bold
	tHidden:      32, // invis
	tBlink:       26, // blink
	tDim:         30, // dim
	tCursive:     311, // sitm
	tReverse:     34, // rev
	tEnterKeypad: 89, // smkx
	tExitKeypad:  88, // rmkx
	// enter_mouse/exit_mouse are never read from terminfo; see parseTerminfo.
}

var tiKeys = [22]int{
	66, // kf1
	68, // kf2
	69, // kf3
	70, // kf4
	71, // kf5
	72, // kf6
	73, // kf7
	74, // kf8
	75, // kf9
	67, // kf10
	216, // kf11
	217, // kf12
	77, // kich1 (insert)
	59, // kdch1 (delete)
	76, // khome
	164, // kend
	82, // kpp (page up)
	81, // knp (page down)
	87, // kcuu1 (arrow up)
	61, // kcud1 (arrow down)
	79, // kcub1 (arrow left)
	83, // kcuf1 (arrow right)
}

const mouseEnterSeq = "\x1b[?1000h\x1b[?1002h\x1b[?1015h\x1b[?1006h"
const mouseExitSeq = "\x1b[?1000l\x1b[?1002l\x1b[?1015l\x1b[?1006l"

// loadTerminfo searches TERMINFO, $HOME/.terminfo, each entry of
// TERMINFO_DIRS, /lib/terminfo and /usr/share/terminfo, in that order, for
// the compiled terminfo file named by $TERM.
func loadTerminfo() ([]byte, error) {
	term := os.Getenv("TERM")
	if term == "" {
		return nil, newErr(ErrNoTerm)
	}

	if dir := os.Getenv("TERMINFO"); dir != "" {
		if data, err := loadTerminfoFromDir(dir, term); err == nil {
			return data, nil
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		if data, err := loadTerminfoFromDir(filepath.Join(home, ".terminfo"), term); err == nil {
			return data, nil
		}
	}

	if dirs := os.Getenv("TERMINFO_DIRS"); dirs != "" {
		for _, dir := range strings.Split(dirs, ":") {
			if dir == "" {
				dir = "/usr/share/terminfo"
			}
			if data, err := loadTerminfoFromDir(dir, term); err == nil {
				return data, nil
			}
		}
	}

	if data, err := loadTerminfoFromDir("/lib/terminfo", term); err == nil {
		return data, nil
	}

	return loadTerminfoFromDir("/usr/share/terminfo", term)
}

func loadTerminfoFromDir(dir, term string) ([]byte, error) {
	if term == "" {
		return nil, newErr(ErrNoTerm)
	}

	path := filepath.Join(dir, term[0:1], term)
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	// macOS fallback layout: prefix/<hex-first-char>/<term>
	hexPrefix := strconv.FormatInt(int64(term[0]), 16)
	path = filepath.Join(dir, hexPrefix, term)
	return os.ReadFile(path)
}

// parseTerminfo decodes a compiled terminfo file into the fixed-size
// funcs/keys tables.
func parseTerminfo(data []byte) (funcs, keys []string, err error) {
	rd := bytes.NewReader(data)

	var header terminfoHeader
	if err = binary.Read(rd, binary.LittleEndian, &header); err != nil {
		return nil, nil, wrapErr(ErrUnsupportedTerm, err)
	}

	var numberSize int64
	switch header.Magic {
	case magicLegacy:
		numberSize = 2
	case magicExtended:
		numberSize = 4
	default:
		return nil, nil, newErr(ErrUnsupportedTerm)
	}

	// names + booleans sections, with alignment padding.
	skip := int64(header.NamesSize) + int64(header.BooleansSize)
	if skip%2 != 0 {
		skip++
	}
	if _, err = rd.Seek(skip, 1); err != nil {
		return nil, nil, wrapErr(ErrUnsupportedTerm, err)
	}

	// numbers section.
	if _, err = rd.Seek(int64(header.NumbersCount)*numberSize, 1); err != nil {
		return nil, nil, wrapErr(ErrUnsupportedTerm, err)
	}

	offsets := make([]int16, header.StringsCount)
	if err = binary.Read(rd, binary.LittleEndian, offsets); err != nil {
		return nil, nil, wrapErr(ErrUnsupportedTerm, err)
	}

	table := make([]byte, header.TableSize)
	if _, err = rd.Read(table); err != nil {
		return nil, nil, wrapErr(ErrUnsupportedTerm, err)
	}

	str := func(i int) string {
		if i < 0 || i >= len(offsets) {
			return ""
		}
		off := offsets[i]
		if off < 0 || int(off) >= len(table) {
			return ""
		}
		nul := bytes.IndexByte(table[off:], 0)
		if nul < 0 {
			return string(table[off:])
		}
		return string(table[off : int(off)+nul])
	}

	funcs = make([]string, tMaxFuncs)
	for cap, idx := range tiFuncs {
		if cap == tEnterMouse || cap == tExitMouse {
			continue
		}
		funcs[cap] = str(idx)
	}
	funcs[tEnterMouse] = mouseEnterSeq
	funcs[tExitMouse] = mouseExitSeq

	keys = make([]string, len(tiKeys))
	for i, idx := range tiKeys {
		keys[i] = str(idx)
	}

	return funcs, keys, nil
}

// setupTerm loads the terminal's capability and key-sequence tables, first
// from a compiled terminfo file and, failing that, from the builtin table.
func setupTerm() (funcs, keys []string, err error) {
	data, lerr := loadTerminfo()
	if lerr == nil {
		if funcs, keys, err = parseTerminfo(data); err == nil {
			return funcs, keys, nil
		}
	}
	return setupBuiltin()
}

package termbox

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildSyntheticTerminfo assembles a minimal compiled terminfo blob with
// strings placed at the given string-table positions, for exercising
// parseTerminfo without touching any real system terminfo database.
func buildSyntheticTerminfo(strs map[int]string) []byte {
	maxIdx := 0
	for idx := range strs {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	count := maxIdx + 1

	var table bytes.Buffer
	offsets := make([]int16, count)
	for i := range offsets {
		offsets[i] = -1
	}
	for idx, s := range strs {
		offsets[idx] = int16(table.Len())
		table.WriteString(s)
		table.WriteByte(0)
	}

	header := terminfoHeader{
		Magic:        magicLegacy,
		NamesSize:    2,
		BooleansSize: 0,
		NumbersCount: 0,
		StringsCount: int16(count),
		TableSize:    int16(table.Len()),
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, header)
	buf.Write(make([]byte, 2)) // names+booleans section (sized to stay even)
	binary.Write(&buf, binary.LittleEndian, offsets)
	buf.Write(table.Bytes())
	return buf.Bytes()
}

func TestParseTerminfoFuncsAndKeys(t *testing.T) {
	blob := buildSyntheticTerminfo(map[int]string{
		tiFuncs[tEnterCA]:     "ENTER_CA",
		tiFuncs[tClearScreen]: "CLEAR",
		tiFuncs[tSgr0]:        "SGR0",
		tiKeys[18]:            "\x1b[A", // kcuu1 (arrow up)
	})

	funcs, keys, err := parseTerminfo(blob)
	if err != nil {
		t.Fatalf("parseTerminfo: %v", err)
	}
	if funcs[tEnterCA] != "ENTER_CA" {
		t.Errorf("funcs[tEnterCA] = %q", funcs[tEnterCA])
	}
	if funcs[tClearScreen] != "CLEAR" {
		t.Errorf("funcs[tClearScreen] = %q", funcs[tClearScreen])
	}
	if funcs[tSgr0] != "SGR0" {
		t.Errorf("funcs[tSgr0] = %q", funcs[tSgr0])
	}
	if keys[18] != "\x1b[A" {
		t.Errorf("keys[18] = %q", keys[18])
	}

	// Mouse DECSET sequences are never read from terminfo.
	if funcs[tEnterMouse] != mouseEnterSeq || funcs[tExitMouse] != mouseExitSeq {
		t.Errorf("mouse func slots not populated from constants")
	}
}

func TestParseTerminfoMissingCapabilityIsEmpty(t *testing.T) {
	blob := buildSyntheticTerminfo(map[int]string{
		tiFuncs[tEnterCA]: "ENTER_CA",
	})
	funcs, _, err := parseTerminfo(blob)
	if err != nil {
		t.Fatalf("parseTerminfo: %v", err)
	}
	if funcs[tBold] != "" {
		t.Errorf("expected empty funcs[tBold], got %q", funcs[tBold])
	}
}

func TestParseTerminfoBadMagic(t *testing.T) {
	header := terminfoHeader{Magic: 0xDEAD}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, header)

	_, _, err := parseTerminfo(buf.Bytes())
	if !IsErrorCode(err, ErrUnsupportedTerm) {
		t.Fatalf("err = %v, want ErrUnsupportedTerm", err)
	}
}

func TestSetupBuiltinMatchesXterm(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	funcs, keys, err := setupBuiltin()
	if err != nil {
		t.Fatalf("setupBuiltin: %v", err)
	}
	if len(funcs) != len(xtermFuncs) || len(keys) != len(xtermKeys) {
		t.Fatalf("unexpected table lengths")
	}
}

func TestSetupBuiltinUnsupported(t *testing.T) {
	t.Setenv("TERM", "totally-unknown-terminal")
	_, _, err := setupBuiltin()
	if !IsErrorCode(err, ErrUnsupportedTerm) {
		t.Fatalf("err = %v, want ErrUnsupportedTerm", err)
	}
}

func TestSetupBuiltinNoTerm(t *testing.T) {
	t.Setenv("TERM", "")
	_, _, err := setupBuiltin()
	if !IsErrorCode(err, ErrNoTerm) {
		t.Fatalf("err = %v, want ErrNoTerm", err)
	}
}

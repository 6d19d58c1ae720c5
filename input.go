package termbox

import (
	"bytes"
	"strconv"
	"unicode/utf8"
)

// extractStatus classifies the outcome of extractEvent.
type extractStatus int

const (
	extractNone    extractStatus = iota // nothing decoded: buffer empty, or an Alt-mode ESC not yet followed by a complete event
	extractOK                           // event successfully decoded
	extractEscWait                      // lone/ambiguous ESC, caller should wait for more bytes
	extractInvalid                      // malformed sequence, skip N bytes (EventNone)
)

// extractEvent is a pure, stateless parser: given the bytes read so far, it
// decodes at most one event off the front of buf. It
// never touches package state: callers own the byte buffer and the
// input-mode bitset. keys is the terminal's resolved key-sequence table
// (from terminfo or the builtin table), ordered to match the high-range Key
// enumeration starting at KeyF1. allowEscWait permits returning
// extractEscWait for a lone/ambiguous ESC instead of resolving it
// immediately; callers that have already waited pass false.
func extractEvent(buf []byte, keys []string, mode InputMode, allowEscWait bool) (Event, int, extractStatus) {
	if len(buf) == 0 {
		return Event{}, 0, extractNone
	}

	if buf[0] != 0x1b {
		if buf[0] <= 0x20 || buf[0] == 0x7f {
			return Event{Type: EventKey, Key: Key(buf[0])}, 1, extractOK
		}

		r, n := utf8.DecodeRune(buf)
		if r == utf8.RuneError && n <= 1 {
			return Event{Type: EventNone, N: 1}, 1, extractInvalid
		}
		return Event{Type: EventKey, Ch: r}, n, extractOK
	}

	// buf[0] == ESC: try every known key escape prefix by longest match.
	bestLen := -1
	var bestKey Key
	ambiguous := false
	for i, k := range keys {
		if k == "" {
			continue
		}
		if len(buf) >= len(k) {
			if string(buf[:len(k)]) == k && len(k) > bestLen {
				bestLen = len(k)
				bestKey = Key(0xFFFF - i)
			}
		} else if string(buf) == k[:len(buf)] {
			ambiguous = true
		}
	}
	if bestLen > 0 {
		return Event{Type: EventKey, Key: bestKey}, bestLen, extractOK
	}

	// No key prefix matched (or only ambiguously so); try mouse encodings.
	mev, mn, mstatus := parseMouse(buf)
	switch mstatus {
	case mmOK:
		return mev, mn, extractOK
	case mmIncomplete:
		ambiguous = true
	case mmMalformed:
		return Event{Type: EventNone, N: mn}, mn, extractInvalid
	}

	if ambiguous && allowEscWait {
		return Event{}, 0, extractEscWait
	}

	switch {
	case mode&InputEsc != 0:
		return Event{Type: EventKey, Key: KeyEsc}, 1, extractOK
	case mode&InputAlt != 0:
		sub, n, status := extractEvent(buf[1:], keys, mode, allowEscWait)
		switch status {
		case extractOK:
			sub.Mod |= ModAlt
			return sub, n + 1, extractOK
		case extractEscWait:
			return Event{}, 0, extractEscWait
		default:
			return Event{}, 0, extractNone
		}
	default:
		// At least one of Esc/Alt is always effectively set on mode, so an
		// unmatched lone ESC in Esc mode always resolves to KeyEsc.
		return Event{Type: EventKey, Key: KeyEsc}, 1, extractOK
	}
}

// mouse-parse status codes.
const (
	mmNoMatch = iota
	mmIncomplete
	mmOK
	mmMalformed
)

// parseMouse recognizes the three mouse wire encodings a terminal may send:
// X10/1005 (ESC [ M cb cx cy), SGR/1006 (ESC [ < b ; x ; y
// M|m) and URXVT/1015 (ESC [ b ; x ; y M, same button bits as SGR).
func parseMouse(buf []byte) (Event, int, int) {
	if len(buf) < 3 || buf[0] != 0x1b || buf[1] != '[' {
		return Event{}, 0, mmNoMatch
	}

	switch {
	case buf[2] == 'M':
		if len(buf) < 6 {
			return Event{}, 0, mmIncomplete
		}
		ev := decodeMouseButtons(int(buf[3]), false)
		ev.MouseX = int(buf[4]) - 1
		ev.MouseY = int(buf[5]) - 1
		return ev, 6, mmOK

	case buf[2] == '<':
		return parseSeqMouse(buf[3:], 3, true)

	case buf[2] >= '0' && buf[2] <= '9':
		return parseSeqMouse(buf[2:], 2, false)

	default:
		return Event{}, 0, mmNoMatch
	}
}

// parseSeqMouse parses the shared "b;x;y<term>" body of the SGR and URXVT
// encodings: both carry the same button/motion/wheel bit layout directly in
// b, unlike X10's single-byte form. prefixLen is how many bytes of buf
// preceded rest (used to compute the total consumed length); sgr selects
// whether a trailing 'm' means release (URXVT has no release letter).
func parseSeqMouse(rest []byte, prefixLen int, sgr bool) (Event, int, int) {
	i1 := bytes.IndexByte(rest, ';')
	if i1 < 0 {
		if isAllDigits(rest) {
			return Event{}, 0, mmIncomplete
		}
		return Event{}, prefixLen + len(rest), mmMalformed
	}

	i2rel := bytes.IndexByte(rest[i1+1:], ';')
	if i2rel < 0 {
		if isAllDigits(rest[i1+1:]) {
			return Event{}, 0, mmIncomplete
		}
		return Event{}, prefixLen + len(rest), mmMalformed
	}
	i2 := i1 + 1 + i2rel

	termIdx := -1
	for j := i2 + 1; j < len(rest); j++ {
		if rest[j] == 'M' || (sgr && rest[j] == 'm') {
			termIdx = j
			break
		}
	}
	if termIdx < 0 {
		if isAllDigits(rest[i2+1:]) {
			return Event{}, 0, mmIncomplete
		}
		return Event{}, prefixLen + len(rest), mmMalformed
	}

	b, err1 := strconv.Atoi(string(rest[:i1]))
	x, err2 := strconv.Atoi(string(rest[i1+1 : i2]))
	y, err3 := strconv.Atoi(string(rest[i2+1 : termIdx]))
	total := prefixLen + termIdx + 1
	if err1 != nil || err2 != nil || err3 != nil {
		return Event{}, total, mmMalformed
	}

	release := sgr && rest[termIdx] == 'm'
	ev := decodeMouseButtons(b, release)
	ev.MouseX = x - 1
	ev.MouseY = y - 1
	return ev, total, mmOK
}

func isAllDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// decodeMouseButtons applies the shared button/wheel/motion bit layout: bits
// 0-1 are the button (3 means release), bit 5 (32) is the motion flag, bit 6
// (64) is the wheel flag distinguishing wheel-up (button bits 0) from
// wheel-down (button bits 1). release forces MouseRelease regardless of the
// button bits (used for the SGR trailing 'm' terminator).
func decodeMouseButtons(b int, release bool) Event {
	ev := Event{Type: EventMouse}
	if b&32 != 0 {
		ev.Mod = ModMotion
	}

	btn := b & 3
	wheel := b&64 != 0

	switch {
	case release || btn == 3:
		ev.Key = MouseRelease
	case wheel && btn == 0:
		ev.Key = MouseWheelUp
	case wheel && btn == 1:
		ev.Key = MouseWheelDown
	case btn == 0:
		ev.Key = MouseLeft
	case btn == 1:
		ev.Key = MouseMiddle
	case btn == 2:
		ev.Key = MouseRight
	default:
		ev.Key = MouseRelease
	}
	return ev
}

package termbox

import (
	"os"
	"strings"
)

// builtinTerm is a hand-maintained capability set used when no compiled
// terminfo entry is found, keyed by a substring match against $TERM (see
// setupBuiltin).
type builtinTerm struct {
	keys  []string
	funcs []string
}

var (
	xtermKeys = []string{
		"\x1bOP", "\x1bOQ", "\x1bOR", "\x1bOS", "\x1b[15~",
		"\x1b[17~", "\x1b[18~", "\x1b[19~", "\x1b[20~", "\x1b[21~",
		"\x1b[23~", "\x1b[24~",
		"\x1b[2~", "\x1b[3~", "\x1b[1~", "\x1b[4~", "\x1b[5~", "\x1b[6~",
		"\x1b[A", "\x1b[B", "\x1b[D", "\x1b[C",
	}
	xtermFuncs = []string{
		"\x1b[?1049h\x1b[22;0;0t", // enter_ca
		"\x1b[?1049l\x1b[23;0;0t", // exit_ca
		"\x1b[?12l\x1b[?25h",      // show_cursor
		"\x1b[?25l",               // hide_cursor
		"\x1b[H\x1b[2J",           // clear_screen
		"\x1b[m",                  // sgr0
		"\x1b[4m",                 // underline
		"\x1b[1m",                 // bold
		"\x1b[8m",                 // hidden
		"\x1b[5m",                 // blink
		"\x1b[2m",                 // dim
		"\x1b[3m",                 // cursive (italic)
		"\x1b[7m",                 // reverse
		"\x1b[?1h\x1b=",           // enter_keypad
		"\x1b[?1l\x1b>",           // exit_keypad
		mouseEnterSeq,
		mouseExitSeq,
	}

	screenKeys = []string{
		"\x1bOP", "\x1bOQ", "\x1bOR", "\x1bOS", "\x1b[15~",
		"\x1b[17~", "\x1b[18~", "\x1b[19~", "\x1b[20~", "\x1b[21~",
		"\x1b[23~", "\x1b[24~",
		"\x1b[2~", "\x1b[3~", "\x1b[1~", "\x1b[4~", "\x1b[5~", "\x1b[6~",
		"\x1bOA", "\x1bOB", "\x1bOD", "\x1bOC",
	}
	screenFuncs = []string{
		"\x1b[?1049h", "\x1b[?1049l",
		"\x1b[34h\x1b[?25h", "\x1b[?25l",
		"\x1b[H\x1b[J",
		"\x1b[m", "\x1b[4m", "\x1b[1m", "\x1b[8m", "\x1b[5m", "\x1b[2m",
		"\x1b[3m", "\x1b[7m",
		"\x1b[?1h\x1b=", "\x1b[?1l\x1b>",
		mouseEnterSeq, mouseExitSeq,
	}

	linuxKeys = []string{
		"\x1b[[A", "\x1b[[B", "\x1b[[C", "\x1b[[D", "\x1b[[E",
		"\x1b[17~", "\x1b[18~", "\x1b[19~", "\x1b[20~", "\x1b[21~",
		"\x1b[23~", "\x1b[24~",
		"\x1b[2~", "\x1b[3~", "\x1b[1~", "\x1b[4~", "\x1b[5~", "\x1b[6~",
		"\x1b[A", "\x1b[B", "\x1b[D", "\x1b[C",
	}
	linuxFuncs = []string{
		"", "",
		"\x1b[?25h\x1b[?0c", "\x1b[?25l\x1b[?1c",
		"\x1b[H\x1b[J",
		"\x1b[0;10m", "\x1b[4m", "\x1b[1m", "\x1b[8m", "\x1b[5m", "",
		"", "\x1b[7m",
		"", "",
		mouseEnterSeq, mouseExitSeq,
	}

	rxvtUnicodeKeys = []string{
		"\x1b[11~", "\x1b[12~", "\x1b[13~", "\x1b[14~", "\x1b[15~",
		"\x1b[17~", "\x1b[18~", "\x1b[19~", "\x1b[20~", "\x1b[21~",
		"\x1b[23~", "\x1b[24~",
		"\x1b[2~", "\x1b[3~", "\x1b[7~", "\x1b[8~", "\x1b[5~", "\x1b[6~",
		"\x1b[A", "\x1b[B", "\x1b[D", "\x1b[C",
	}
	rxvtUnicodeFuncs = []string{
		"\x1b[?1049h", "\x1b[?1049l",
		"\x1b[?25h", "\x1b[?25l",
		"\x1b[H\x1b[2J",
		"\x1b[m", "\x1b[4m", "\x1b[1m", "\x1b[8m", "\x1b[5m", "",
		"", "\x1b[7m",
		"\x1b=", "\x1b>",
		mouseEnterSeq, mouseExitSeq,
	}

	cygwinFuncs = xtermFuncs
	cygwinKeys  = xtermKeys

	stFuncs = xtermFuncs
	stKeys  = xtermKeys
)

// builtinTerms is tried in order as a substring match against $TERM;
// "rxvt-unicode"/"rxvt-256color" must be checked before any generic "rxvt"
// entry would be (there is none here).
var builtinTerms = []struct {
	substr string
	term   builtinTerm
}{
	{"Eterm", builtinTerm{xtermKeys, xtermFuncs}},
	{"screen", builtinTerm{screenKeys, screenFuncs}},
	{"xterm", builtinTerm{xtermKeys, xtermFuncs}},
	{"rxvt-unicode", builtinTerm{rxvtUnicodeKeys, rxvtUnicodeFuncs}},
	{"rxvt-256color", builtinTerm{rxvtUnicodeKeys, rxvtUnicodeFuncs}},
	{"linux", builtinTerm{linuxKeys, linuxFuncs}},
	{"cygwin", builtinTerm{cygwinKeys, cygwinFuncs}},
	{"st", builtinTerm{stKeys, stFuncs}},
}

// setupBuiltin resolves capability/key tables by substring match against
// $TERM when no compiled terminfo file is available. Returns
// ErrUnsupportedTerm if nothing matches.
func setupBuiltin() (funcs, keys []string, err error) {
	term := os.Getenv("TERM")
	if term == "" {
		return nil, nil, newErr(ErrNoTerm)
	}

	for _, bt := range builtinTerms {
		if strings.Contains(term, bt.substr) {
			return bt.term.funcs, bt.term.keys, nil
		}
	}

	return nil, nil, newErr(ErrUnsupportedTerm)
}

//go:build !windows

package termbox

import (
	"bytes"
	"os"

	"golang.org/x/sys/unix"
)

// inputRecord is a chunk read by the POSIX input producer, paired with the
// read error (if any).
type inputRecord struct {
	data []byte
	err  error
}

// platformState holds everything the POSIX output/input driver needs beyond
// the shared Termbox fields: the tty handles, terminfo-resolved capability
// tables, SGR/cursor emission caches, and the producer goroutine's queues.
type platformState struct {
	outFile     *os.File
	inFd        int
	origTermios unix.Termios

	funcs []string
	keys  []string

	lastFg, lastBg Attribute
	lastX, lastY   int

	outbuf bytes.Buffer
	inbuf  []byte

	sigwinch chan os.Signal
	sigio    chan os.Signal
	quit     chan struct{}
	input    chan inputRecord
}

const (
	coordInvalid = -2
	attrInvalid  = Attribute(0xFFFFFFFF)
)

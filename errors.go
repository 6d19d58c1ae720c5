package termbox

import "fmt"

// ErrorCode discriminates the closed error taxonomy every public operation
// can return.
// Interrupt is never surfaced as an error; it arrives as Event{Type:
// EventInterrupt}.
type ErrorCode int

const (
	ErrAlreadyInitialized ErrorCode = iota
	ErrNotInitialized
	ErrOpenTTY
	ErrTermios
	ErrIoctl
	ErrPollSetup
	ErrNoTerm
	ErrUnsupportedTerm
	ErrCapCollision
	ErrOutOfBounds
	ErrOutOfMemory
	ErrRead
	ErrWrite
	ErrPoll
	ErrNoEvent
	ErrNeedMore
)

var errorText = map[ErrorCode]string{
	ErrAlreadyInitialized: "termbox: already initialized",
	ErrNotInitialized:     "termbox: not initialized",
	ErrOpenTTY:            "termbox: could not open tty",
	ErrTermios:            "termbox: termios failure",
	ErrIoctl:              "termbox: ioctl failure",
	ErrPollSetup:          "termbox: could not set up input polling",
	ErrNoTerm:             "termbox: TERM environment variable not set",
	ErrUnsupportedTerm:    "termbox: unsupported terminal",
	ErrCapCollision:       "termbox: terminfo capability index collision",
	ErrOutOfBounds:        "termbox: coordinates out of bounds",
	ErrOutOfMemory:        "termbox: out of memory",
	ErrRead:               "termbox: read error",
	ErrWrite:              "termbox: write error",
	ErrPoll:               "termbox: poll error",
	ErrNoEvent:            "termbox: no event before timeout",
	ErrNeedMore:           "termbox: need more bytes to decode event",
}

// Error is the concrete error type returned by every package operation that
// can fail. Code identifies the taxonomy member; Err, when non-nil, carries
// the underlying OS error (errno) for Read/Write/Poll/Ioctl/Termios/OpenTTY
// failures.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	msg := errorText[e.Code]
	if msg == "" {
		msg = "termbox: unknown error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(code ErrorCode) error {
	return &Error{Code: code}
}

func wrapErr(code ErrorCode, err error) error {
	if err == nil {
		return newErr(code)
	}
	return &Error{Code: code, Err: err}
}

// IsErrorCode reports whether err is a *Error carrying the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}

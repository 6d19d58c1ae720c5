package termbox

// EventType is the type of an Event. See Event.Type.
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventMouse
	EventError
	EventInterrupt
	EventRaw
	EventNone
)

// Modifier is a bitset of modifier keys attached to an Event.
type Modifier uint8

const (
	ModAlt Modifier = 1 << iota
	ModMotion
)

// InputMode is a bitset controlling how PollEvent decodes raw input bytes.
// See SetInputMode.
type InputMode int

const (
	InputCurrent InputMode = 0
	InputEsc     InputMode = 1 << iota
	InputAlt
	InputMouse
)

// OutputMode selects how Attribute color values are translated into SGR
// escape sequences on Flush. See SetOutputMode.
type OutputMode int

const (
	OutputCurrent OutputMode = iota
	OutputNormal
	Output256
	Output216
	OutputGrayscale
	OutputRGB
)

// Key is either an ASCII printable character, one of the control-key
// aliases in the 0x00-0x1f/0x7f range, or one of the high-range pseudo-keys
// (function keys, navigation keys, mouse buttons) counting down from KeyF1
// (0xFFFF).
type Key uint16

// KeyMin is the value just below the 22 keyboard keys of the high range
// (KeyF1 through KeyArrowRight occupy KeyMin+22 down to KeyMin+1). It equals
// MouseLeft; MouseMiddle through MouseWheelDown lie below it, so
// application-level key values must stay below MouseWheelDown to avoid
// colliding with the high range.
const KeyMin Key = 0xFFFF - 22

const (
	KeyF1 Key = 0xFFFF - iota
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPgup
	KeyPgdn
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight

	MouseLeft
	MouseMiddle
	MouseRight
	MouseRelease
	MouseWheelUp
	MouseWheelDown
)

const (
	KeyCtrlTilde      Key = 0x00
	KeyCtrl2          Key = 0x00
	KeyCtrlA          Key = 0x01
	KeyCtrlB          Key = 0x02
	KeyCtrlC          Key = 0x03
	KeyCtrlD          Key = 0x04
	KeyCtrlE          Key = 0x05
	KeyCtrlF          Key = 0x06
	KeyCtrlG          Key = 0x07
	KeyBackspace      Key = 0x08
	KeyCtrlH          Key = 0x08
	KeyTab            Key = 0x09
	KeyCtrlI          Key = 0x09
	KeyCtrlJ          Key = 0x0A
	KeyCtrlK          Key = 0x0B
	KeyCtrlL          Key = 0x0C
	KeyEnter          Key = 0x0D
	KeyCtrlM          Key = 0x0D
	KeyCtrlN          Key = 0x0E
	KeyCtrlO          Key = 0x0F
	KeyCtrlP          Key = 0x10
	KeyCtrlQ          Key = 0x11
	KeyCtrlR          Key = 0x12
	KeyCtrlS          Key = 0x13
	KeyCtrlT          Key = 0x14
	KeyCtrlU          Key = 0x15
	KeyCtrlV          Key = 0x16
	KeyCtrlW          Key = 0x17
	KeyCtrlX          Key = 0x18
	KeyCtrlY          Key = 0x19
	KeyCtrlZ          Key = 0x1A
	KeyEsc            Key = 0x1B
	KeyCtrlLsqBracket Key = 0x1B
	KeyCtrl3          Key = 0x1B
	KeyCtrl4          Key = 0x1C
	KeyCtrlBackslash  Key = 0x1C
	KeyCtrl5          Key = 0x1D
	KeyCtrlRsqBracket Key = 0x1D
	KeyCtrl6          Key = 0x1E
	KeyCtrl7          Key = 0x1F
	KeyCtrlSlash      Key = 0x1F
	KeyCtrlUnderscore Key = 0x1F
	KeySpace          Key = 0x20
	KeyBackspace2     Key = 0x7F
	KeyCtrl8          Key = 0x7F
)

// Event is a single item from the unified input stream. Which fields are
// meaningful depends on Type: EventKey sets Mod/Key/Ch, EventResize sets
// Width/Height, EventMouse sets Mod/Key/MouseX/MouseY, EventError sets Err,
// EventRaw sets Raw/N, EventNone sets N (number of bytes to skip).
type Event struct {
	Type   EventType
	Mod    Modifier
	Key    Key
	Ch     rune
	Width  int
	Height int
	MouseX int
	MouseY int
	Err    error
	Raw    []byte
	N      int
}

//go:build linux

package termbox

import "golang.org/x/sys/unix"

// ioctlTCGETS/ioctlTCSETS are split per-OS because x/sys/unix only defines
// the Linux termios ioctl numbers under this name; BSD/Darwin use
// TIOCGETA/TIOCSETA instead (see ioctl_bsd.go).
const (
	ioctlTCGETS = unix.TCGETS
	ioctlTCSETS = unix.TCSETS
)

//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package termbox

import "golang.org/x/sys/unix"

const (
	ioctlTCGETS = unix.TIOCGETA
	ioctlTCSETS = unix.TIOCSETA
)

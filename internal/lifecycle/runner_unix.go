//go:build !windows

package lifecycle

import "syscall"

// detachAttr puts the child in its own session so closing the terminal or
// exiting commitgen does not take the server down with it.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

//go:build linux || darwin

package interaction

import "golang.org/x/sys/unix"

func (kr *KeyboardReader) enableRawMode() error {
	old, err := unix.IoctlGetTermios(kr.fd, ioctlGetTermios)
	if err != nil {
		return err
	}
	kr.oldState = old
	return unix.IoctlSetTermios(kr.fd, ioctlSetTermios, rawState(old))
}

func (kr *KeyboardReader) disableRawMode() error {
	if kr.oldState == nil || kr.fd < 0 {
		return nil
	}
	return unix.IoctlSetTermios(kr.fd, ioctlSetTermios, kr.oldState)
}

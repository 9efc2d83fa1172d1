//go:build unix

package pty

import (
	"os"

	"golang.org/x/sys/unix"
)

// cloneFile duplicates f's descriptor so the copy can be locked and closed
// on its own.
func cloneFile(f *os.File, role string) (*os.File, error) {
	raw, err := f.SyscallConn()
	if err != nil {
		return nil, err
	}

	var fd int
	var dupErr error
	if err := raw.Control(func(s uintptr) {
		fd, dupErr = unix.FcntlInt(s, unix.F_DUPFD_CLOEXEC, 0)
	}); err != nil {
		return nil, err
	}
	if dupErr != nil {
		return nil, os.NewSyscallError("fcntl", dupErr)
	}
	return os.NewFile(uintptr(fd), f.Name()+":"+role), nil
}

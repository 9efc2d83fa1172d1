//go:build unix

package pty

import (
	"os"
	"os/exec"
	"syscall"
)

// attach makes tty the child's stdio and controlling terminal.
func attach(cmd *exec.Cmd, tty *os.File) {
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.SysProcAttr.Setctty = true
}

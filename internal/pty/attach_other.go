//go:build !unix

package pty

import (
	"os"
	"os/exec"
)

func attach(cmd *exec.Cmd, tty *os.File) {
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
}

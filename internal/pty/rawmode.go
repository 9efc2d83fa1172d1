package pty

import (
	"fmt"
	"sync"

	"golang.org/x/term"
)

// RawModeGuard restores a terminal put into raw mode by EnterRawMode.
type RawModeGuard struct {
	fd    int
	state *term.State
	once  sync.Once
}

// EnterRawMode switches the terminal on fd to raw mode, so keystrokes reach
// the child unprocessed. Call Restore when done.
func EnterRawMode(fd int) (*RawModeGuard, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return &RawModeGuard{fd: fd, state: state}, nil
}

// Restore puts the terminal back in the mode it had before EnterRawMode.
// Only the first call has an effect.
func (g *RawModeGuard) Restore() error {
	var err error
	g.once.Do(func() {
		if rerr := term.Restore(g.fd, g.state); rerr != nil {
			err = fmt.Errorf("failed to restore terminal: %w", rerr)
		}
	})
	return err
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// HostSize returns the size of the terminal on fd.
func HostSize(fd int) (Size, error) {
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return Size{}, fmt.Errorf("failed to get terminal size: %w", err)
	}
	return Size{Rows: uint16(rows), Cols: uint16(cols)}, nil
}

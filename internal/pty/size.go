package pty

import (
	"fmt"

	"github.com/creack/pty"
)

// Size is a terminal size in character cells.
type Size struct {
	Rows uint16 `json:"rows"`
	Cols uint16 `json:"cols"`
}

// DefaultSize returns the classic 24x80 terminal size.
func DefaultSize() Size {
	return Size{Rows: 24, Cols: 80}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

func (s Size) winsize() *pty.Winsize {
	return &pty.Winsize{Rows: s.Rows, Cols: s.Cols}
}

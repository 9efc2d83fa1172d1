package pty

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProcessExited is returned (wrapped) when input is sent to a child that has already exited.
var ErrProcessExited = errors.New("PTY process has exited")

// Op identifies the phase of a session operation that failed.
type Op string

const (
	OpCreate Op = "create"
	OpSpawn  Op = "spawn"
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpFlush  Op = "flush"
	OpResize Op = "resize"
	OpWait   Op = "wait"
	OpKill   Op = "kill"
	OpIO     Op = "io"
)

// Error is the error type returned by every fallible Session operation.
// The underlying OS failure is kept in Err and reachable through errors.Unwrap.
type Error struct {
	Op Op
	// Command is set for spawn failures.
	Command string
	// Size is the attempted size for resize failures.
	Size Size
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Op {
	case OpCreate:
		msg = "failed to create PTY"
	case OpSpawn:
		msg = fmt.Sprintf("failed to spawn command %q", e.Command)
	case OpRead:
		msg = "failed to read from PTY"
	case OpWrite:
		msg = "failed to write to PTY"
	case OpFlush:
		msg = "failed to flush PTY writer"
	case OpResize:
		msg = fmt.Sprintf("failed to resize PTY to %d rows x %d cols", e.Size.Rows, e.Size.Cols)
	case OpWait:
		msg = "failed to wait for child process"
	case OpKill:
		msg = "failed to kill child process"
	default:
		msg = "PTY io error"
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errCreate(err error) error { return &Error{Op: OpCreate, Err: err} }

func errSpawn(command string, err error) error {
	return &Error{Op: OpSpawn, Command: command, Err: err}
}

func errRead(err error) error  { return &Error{Op: OpRead, Err: err} }
func errWrite(err error) error { return &Error{Op: OpWrite, Err: err} }
func errFlush(err error) error { return &Error{Op: OpFlush, Err: err} }

func errResize(size Size, err error) error {
	return &Error{Op: OpResize, Size: size, Err: err}
}

func errWait(err error) error { return &Error{Op: OpWait, Err: err} }
func errKill(err error) error { return &Error{Op: OpKill, Err: err} }

// IsOp reports whether err is a session Error for the given operation.
func IsOp(err error, op Op) bool {
	var e *Error
	return errors.As(err, &e) && e.Op == op
}

// Chain renders err followed by every wrapped cause, one per line.
//
//	failed to write to PTY: broken pipe
//	Caused by:
//	  broken pipe
func Chain(err error) string {
	if err == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(err.Error())
	first := true
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		if first {
			sb.WriteString("\nCaused by:")
			first = false
		}
		sb.WriteString("\n  ")
		sb.WriteString(cause.Error())
	}
	return sb.String()
}

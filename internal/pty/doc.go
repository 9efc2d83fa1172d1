// Package pty hosts an interactive child process on a pseudo-terminal.
//
// A Session owns four resources behind separate locks:
//   - the PTY control handle (resize)
//   - the input sink feeding the child's stdin
//   - the output source draining the child's terminal output
//   - the child process handle (liveness, wait, kill)
//
// Lifecycle:
//
//	Constructing → Running → Exited(code) | Killed
//
// A session is never revived; a new command needs a new session. After the
// child is gone, Read settles to an empty result, Write fails with
// ErrProcessExited, and IsRunning/Wait keep reporting the final state.
//
// Example Usage:
//
//	sess, err := pty.New("bash", []string{"-l"}, pty.DefaultSize())
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
//	_ = sess.WriteString("echo hello\n")
//	out, _ := sess.ReadAsync(ctx)
//
//	_ = sess.Resize(pty.Size{Rows: 40, Cols: 120})
//	_ = sess.Kill()
//	code, _ := sess.Wait()
//
// Errors are *Error values tagged with the failing Op; the OS cause is
// available through errors.Unwrap and Chain prints the whole chain.
package pty

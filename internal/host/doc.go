// Package host connects the user's terminal to a PTY session.
//
// Run drives three pumps in one errgroup:
//   - output: child output is echoed to the terminal, kept in a ring
//     buffer, classified, counted toward the token estimate, and may
//     trigger a suggestion written back into the child's input
//   - resize: window changes on the user's terminal resize the PTY
//   - cancel: a cancelled context kills the child
//
// Keyboard input is forwarded by a detached goroutine since reads from a
// terminal cannot be interrupted.
package host

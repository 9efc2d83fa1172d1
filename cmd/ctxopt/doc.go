// Package main is the entry point for ctxopt, a terminal wrapper that hosts
// an interactive CLI on a pseudo-terminal.
//
// The wrapper passes every keystroke and every byte of output through
// unchanged. On the side it keeps recent output, classifies it, estimates
// tokens, and may type a short tip into the prompt when it spots a build
// error, a file read, or a wall of output.
//
// Configuration:
//   - ~/.ctxopt/config.toml (or .yaml)
//   - CTXOPT_* environment variables (override the file)
//   - CLI flags (override both)
//
// Usage:
//
//	# Host the default CLI
//	ctxopt
//
//	# Host another command, passing arguments through
//	ctxopt -command bash -- -l
//
//	# Write a starter config
//	ctxopt -init-config
//
// Logs go to ~/.ctxopt/ctxopt.log since the terminal belongs to the child.
//
// Signals:
//   - SIGINT, SIGTERM: kill the child and exit with its status
//   - SIGWINCH: resize the child's terminal
package main

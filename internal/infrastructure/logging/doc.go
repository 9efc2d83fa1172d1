// Package logging provides structured logging using uber/zap.
//
// This package offers two modes:
//   - Production: JSON output for machine parsing
//   - Development: console output at debug level for human readability
//
// The wrapper draws the hosted CLI on stdout, so loggers write to stderr or,
// in the ctxopt binary, to a file under ~/.ctxopt.
//
// Example Usage:
//
//	cfg, _ := logging.FileConfig(logging.DefaultConfig(), "/home/me/.ctxopt/ctxopt.log")
//	logger, err := logging.New(cfg)
//	logger.Named("pty").Info("Session started", zap.Int("pid", pid))
//	logger.Error("Failed to resize", zap.Error(err))
package logging

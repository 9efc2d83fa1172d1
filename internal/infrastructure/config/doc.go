// Package config loads the wrapper settings.
//
// Settings are resolved in three layers:
//   - Defaults (Default)
//   - The settings file, ~/.ctxopt/config.toml (TOML, or YAML for .yaml/.yml paths)
//   - Environment overrides prefixed with CTXOPT_
//
// Example config.toml:
//
//	injection_interval_ms = 5000
//	suggestions_enabled = true
//	verbose = false
//	command = "claude"
//
//	[logging]
//	level = "info"
//
//	[metrics]
//	enabled = true
//	address = "127.0.0.1:9464"
//
// Environment Variables:
//   - CTXOPT_INJECTION_INTERVAL_MS, CTXOPT_SUGGESTIONS_ENABLED, CTXOPT_VERBOSE
//   - CTXOPT_COMMAND, CTXOPT_PROFILE
//   - CTXOPT_LARGE_OUTPUT_BYTES, CTXOPT_HISTORY_BYTES
//   - CTXOPT_LOG_LEVEL, CTXOPT_LOG_DEV, CTXOPT_LOG_FILE
//   - CTXOPT_METRICS_ENABLED, CTXOPT_METRICS_ADDR
package config

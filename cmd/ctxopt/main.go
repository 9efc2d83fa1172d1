package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ctxopt/internal/host"
	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/config"
	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/server"
	"github.com/GriffinCanCode/ctxopt/internal/injector"
	"github.com/GriffinCanCode/ctxopt/internal/pty"
	"github.com/GriffinCanCode/ctxopt/internal/shared/id"
	"github.com/GriffinCanCode/ctxopt/internal/stream"
	"github.com/GriffinCanCode/ctxopt/internal/tokens"
)

var version = "0.1.0"

const defaultTerm = "xterm-256color"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the wrapper and returns the process exit code.
func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("ctxopt", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "Config file (default ~/.ctxopt/config.toml)")
	command := flags.String("command", "", "Command to host (overrides config)")
	profile := flags.String("profile", "", "Profile passed to the hosted CLI")
	verbose := flags.Bool("verbose", false, "Debug logging")
	dev := flags.Bool("dev", false, "Development logging (console format)")
	initConfig := flags.Bool("init-config", false, "Write a default config file and exit")
	showVersion := flags.Bool("version", false, "Print version and exit")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "ctxopt %s\n", version)
		return 0
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(stderr, "ctxopt: %v\n", err)
			return 1
		}
		path = p
	}

	if *initConfig {
		if err := writeDefaultConfig(path); err != nil {
			fmt.Fprintf(stderr, "ctxopt: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote default config to %s\n", path)
		return 0
	}

	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "ctxopt: %v\n", err)
		return 1
	}
	if *command != "" {
		settings.Command = *command
	}
	if *profile != "" {
		settings.Profile = *profile
	}
	if *verbose {
		settings.Verbose = true
	}
	if *dev {
		settings.Logging.Development = true
	}

	logger, err := newLogger(settings)
	if err != nil {
		fmt.Fprintf(stderr, "ctxopt: %v\n", err)
		return 1
	}
	defer logger.Sync()

	return serve(settings, flags.Args(), stdin, stdout, stderr, logger)
}

func serve(settings *config.Settings, args []string, stdin *os.File, stdout, stderr io.Writer, logger *logging.Logger) int {
	fd := int(stdin.Fd())
	interactive := pty.IsTerminal(fd)

	size := pty.DefaultSize()
	if interactive {
		if s, err := pty.HostSize(fd); err == nil {
			size = s
		}
	}

	env := pty.InheritEnvironment()
	if _, ok := env.Lookup("TERM"); !ok {
		env = env.With("TERM", defaultTerm)
	}
	if settings.Profile != "" {
		args = pty.ProfileArgs(settings.Profile, args)
	}

	sessionID := id.NewSessionID()

	sess, err := pty.NewWithEnvironment(settings.Command, args, size, env)
	if err != nil {
		logger.Error("Failed to start session",
			zap.Stringer("session_id", sessionID),
			zap.String("command", settings.Command),
			zap.String("error", pty.Chain(err)),
		)
		fmt.Fprintf(stderr, "ctxopt: %s\n", pty.Chain(err))
		return 1
	}
	defer sess.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	opts := host.Options{
		SessionID: sessionID,
		Output:    stdout,
		History:   stream.NewRingBuffer(settings.HistoryBytes),
		Analyzer:  stream.NewAnalyzer(stream.AnalyzerConfig{LargeOutputBytes: settings.LargeOutputBytes}),
		Injector:  injector.New(settings.InjectionInterval(), settings.SuggestionsEnabled),
		Estimator: tokens.NewEstimator(),
		Metrics:   metrics,
		Logger:    logger,
	}
	if interactive {
		opts.HostSize = func() (pty.Size, error) { return pty.HostSize(fd) }
	}
	h := host.New(sess, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.Metrics.Enabled {
		srv := server.New(server.Config{
			Address:     settings.Metrics.Address,
			Development: settings.Logging.Development,
			RateLimit:   server.DefaultRateLimitConfig(),
		}, h, registry, metrics, logger)

		srvCtx, cancelSrv := context.WithCancel(ctx)
		srvDone := make(chan struct{})
		go func() {
			defer close(srvDone)
			if err := srv.Run(srvCtx); err != nil {
				logger.Warn("Status server stopped", zap.Error(err))
			}
		}()
		defer func() {
			cancelSrv()
			<-srvDone
		}()
	}

	if interactive {
		guard, err := pty.EnterRawMode(fd)
		if err != nil {
			logger.Warn("Failed to enter raw mode", zap.Error(err))
		} else {
			defer guard.Restore()
		}
	}

	code, err := h.Run(ctx, stdin)
	if err != nil {
		logger.Error("Session failed",
			zap.Stringer("session_id", sessionID),
			zap.String("error", pty.Chain(err)),
		)
	}
	return code
}

// newLogger logs to a file. Development mode always logs at debug level.
func newLogger(settings *config.Settings) (*logging.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = settings.LogLevel()
	if settings.Logging.Development {
		cfg = logging.DevelopmentConfig()
	}

	file := settings.Logging.File
	if file == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(dir, "ctxopt.log")
	}

	cfg, err := logging.FileConfig(cfg, file)
	if err != nil {
		return nil, err
	}
	return logging.New(cfg)
}

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check config %s: %w", path, err)
	}
	return config.Save(path, config.Default())
}

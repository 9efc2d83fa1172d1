package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ctxopt/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ctxopt/internal/injector"
	"github.com/GriffinCanCode/ctxopt/internal/pty"
	"github.com/GriffinCanCode/ctxopt/internal/shared/id"
	"github.com/GriffinCanCode/ctxopt/internal/stream"
	"github.com/GriffinCanCode/ctxopt/internal/tokens"
)

const (
	inputWindow = 1024

	// idlePoll paces the output pump while the child is alive but its
	// terminal reports no data.
	idlePoll = 20 * time.Millisecond

	// drainGrace bounds how long output is drained after the child exits.
	// Grandchildren may keep the terminal open indefinitely.
	drainGrace = time.Second
)

// Session is the part of *pty.Session the host drives.
type Session interface {
	ReadAsync(ctx context.Context) ([]byte, error)
	Write(p []byte) error
	WriteString(text string) error
	Resize(size pty.Size) error
	Size() pty.Size
	IsRunning() bool
	Done() <-chan struct{}
	Wait() (int, error)
	Kill() error
	Pid() int
	Command() string
}

// Options wires collaborators into a Host. Zero fields take defaults.
type Options struct {
	SessionID id.SessionID
	Output    io.Writer
	History   *stream.RingBuffer
	Analyzer  *stream.Analyzer
	Injector  *injector.Injector
	Estimator *tokens.Estimator
	Metrics   *monitoring.Metrics
	Logger    *logging.Logger

	// HostSize reports the size of the terminal the user sees. When nil the
	// child keeps its initial size.
	HostSize func() (pty.Size, error)

	// Resize delivers window-change notifications. When nil and HostSize is
	// set, Run listens for SIGWINCH where the platform has it.
	Resize <-chan os.Signal
}

// Stats is a point-in-time view of a hosted session.
type Stats struct {
	SessionID      string    `json:"session_id"`
	Command        string    `json:"command"`
	Pid            int       `json:"pid"`
	Running        bool      `json:"running"`
	Size           pty.Size  `json:"size"`
	StartedAt      time.Time `json:"started_at"`
	BytesOut       uint64    `json:"bytes_out"`
	BytesIn        uint64    `json:"bytes_in"`
	Tokens         uint64    `json:"tokens"`
	Injections     uint64    `json:"injections"`
	LastContent    string    `json:"last_content"`
	LastSuggestion string    `json:"last_suggestion,omitempty"`
	HistoryBytes   int       `json:"history_bytes"`
	BurstBytes     int       `json:"burst_bytes"`
}

// Host runs the pipeline between the user's terminal and a Session.
type Host struct {
	sess      Session
	id        id.SessionID
	out       io.Writer
	history   *stream.RingBuffer
	tracker   *stream.Tracker
	injector  *injector.Injector
	estimator *tokens.Estimator
	metrics   *monitoring.Metrics
	logger    *logging.Logger
	hostSize  func() (pty.Size, error)
	resize    <-chan os.Signal
	startedAt time.Time

	mu    sync.RWMutex
	stats Stats
}

// New creates a host for sess.
func New(sess Session, opts Options) *Host {
	if opts.SessionID == "" {
		opts.SessionID = id.NewSessionID()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.History == nil {
		opts.History = stream.NewRingBuffer(stream.DefaultHistoryBytes)
	}
	if opts.Analyzer == nil {
		opts.Analyzer = stream.NewAnalyzer(stream.AnalyzerConfig{})
	}
	if opts.Injector == nil {
		opts.Injector = injector.New(injector.DefaultInterval, true)
	}
	if opts.Estimator == nil {
		opts.Estimator = tokens.NewEstimator()
	}
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics(prometheus.NewRegistry())
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	return &Host{
		sess:      sess,
		id:        opts.SessionID,
		out:       opts.Output,
		history:   opts.History,
		tracker:   opts.Analyzer.Track(),
		injector:  opts.Injector,
		estimator: opts.Estimator,
		metrics:   opts.Metrics,
		logger:    opts.Logger.Named("host").WithSession(opts.SessionID.String()),
		hostSize:  opts.HostSize,
		resize:    opts.Resize,
		startedAt: time.Now(),
		stats:     Stats{LastContent: stream.Normal.String()},
	}
}

// RecentOutput returns up to the last n bytes of child output.
func (h *Host) RecentOutput(n int) []byte {
	return h.history.Tail(n)
}

// Run pumps data until the child exits and returns its exit code.
// Cancelling ctx kills the child. stdin may be nil.
func (h *Host) Run(ctx context.Context, stdin io.Reader) (int, error) {
	h.metrics.SetSessionRunning(h.sess.IsRunning())
	h.logger.Info("Session started",
		zap.String("command", h.sess.Command()),
		zap.Int("pid", h.sess.Pid()),
		zap.Stringer("size", h.sess.Size()),
		zap.Bool("suggestions", h.injector.Enabled()),
		zap.Duration("injection_interval", h.injector.Interval()),
	)

	resize := h.resize
	if resize == nil && h.hostSize != nil {
		ch, stop := notifyResize()
		defer stop()
		resize = ch
	}

	if stdin != nil {
		go func() {
			if err := h.pumpInput(stdin); err != nil {
				h.logger.Warn("Input forwarding stopped", zap.Error(err))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.pumpOutput(gctx) })
	g.Go(func() error { return h.pumpResize(gctx, resize) })
	g.Go(func() error { return h.killOnCancel(gctx) })

	pumpErr := g.Wait()

	code, err := h.sess.Wait()
	h.metrics.SetSessionRunning(false)
	if err != nil {
		return code, errors.Join(pumpErr, err)
	}

	h.logger.Info("Session ended", zap.Int("exit_code", code))
	return code, pumpErr
}

func (h *Host) pumpOutput(ctx context.Context) error {
	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()

	go func() {
		select {
		case <-h.sess.Done():
		case <-readCtx.Done():
			return
		}
		select {
		case <-time.After(drainGrace):
			cancelRead()
		case <-readCtx.Done():
		}
	}()

	for {
		timer := monitoring.NewTimer(h.metrics)
		chunk, err := h.sess.ReadAsync(readCtx)
		if err != nil {
			if readCtx.Err() != nil {
				return nil
			}
			return err
		}

		if len(chunk) == 0 {
			if !h.sess.IsRunning() {
				return nil
			}
			select {
			case <-readCtx.Done():
				return nil
			case <-h.sess.Done():
			case <-time.After(idlePoll):
			}
			continue
		}

		timer.Stop()
		if err := h.handleOutput(chunk); err != nil {
			return err
		}
	}
}

func (h *Host) handleOutput(chunk []byte) error {
	if _, err := h.out.Write(chunk); err != nil {
		return fmt.Errorf("failed to forward output: %w", err)
	}
	h.history.Push(chunk)
	h.metrics.RecordBytes(monitoring.DirectionOut, len(chunk))

	content := h.tracker.Observe(chunk)
	h.metrics.RecordChunk(content.String())

	estimate := h.estimator.EstimateBytes(stream.StripANSI(chunk))
	h.metrics.AddTokens(estimate)

	h.mu.Lock()
	h.stats.BytesOut += uint64(len(chunk))
	h.stats.Tokens += uint64(estimate)
	h.stats.LastContent = content.String()
	h.stats.BurstBytes = h.tracker.Pending()
	h.mu.Unlock()

	suggestion, injected, err := h.injector.Offer(h.sess, content)
	if err != nil {
		// The child may exit between the read and the write.
		h.logger.Debug("Suggestion not delivered", zap.Error(err))
		return nil
	}
	if injected {
		h.metrics.RecordInjection(suggestion.Type.String())
		h.mu.Lock()
		h.stats.Injections++
		h.stats.LastSuggestion = suggestion.Type.String()
		h.mu.Unlock()
		h.logger.Debug("Suggestion injected",
			zap.Stringer("type", suggestion.Type),
			zap.Stringer("content", content),
		)
	}
	return nil
}

func (h *Host) pumpInput(stdin io.Reader) error {
	buf := make([]byte, inputWindow)
	for {
		n, err := stdin.Read(buf)
		if n > 0 {
			if werr := h.sess.Write(buf[:n]); werr != nil {
				if errors.Is(werr, pty.ErrProcessExited) {
					return nil
				}
				return werr
			}
			h.metrics.RecordBytes(monitoring.DirectionIn, n)
			h.mu.Lock()
			h.stats.BytesIn += uint64(n)
			h.mu.Unlock()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
}

func (h *Host) pumpResize(ctx context.Context, resize <-chan os.Signal) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.sess.Done():
			return nil
		case <-resize:
			h.applyHostSize()
		}
	}
}

func (h *Host) applyHostSize() {
	if h.hostSize == nil {
		return
	}
	size, err := h.hostSize()
	if err != nil {
		h.logger.Debug("Host size unavailable", zap.Error(err))
		return
	}

	err = h.sess.Resize(size)
	h.metrics.RecordResize(err)
	if err != nil {
		h.logger.Warn("Failed to resize session", zap.String("error", pty.Chain(err)))
		return
	}
	h.logger.Debug("Session resized", zap.Stringer("size", size))
}

func (h *Host) killOnCancel(ctx context.Context) error {
	select {
	case <-h.sess.Done():
		return nil
	case <-ctx.Done():
	}
	if !h.sess.IsRunning() {
		return nil
	}
	h.logger.Info("Stopping session", zap.NamedError("reason", context.Cause(ctx)))
	if err := h.sess.Kill(); err != nil && !errors.Is(err, pty.ErrProcessExited) {
		return err
	}
	return nil
}

// Stats returns a snapshot of the session.
func (h *Host) Stats() Stats {
	h.mu.RLock()
	s := h.stats
	h.mu.RUnlock()

	s.SessionID = h.id.String()
	s.Command = h.sess.Command()
	s.Pid = h.sess.Pid()
	s.Running = h.sess.IsRunning()
	s.Size = h.sess.Size()
	s.StartedAt = h.startedAt
	s.HistoryBytes = h.history.Len()
	return s
}

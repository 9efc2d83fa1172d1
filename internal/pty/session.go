package pty

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// readWindow bounds a single Read.
const readWindow = 8 * 1024

// ClaudeCommand is the interactive CLI pinned by SpawnClaude.
const ClaudeCommand = "claude"

// Session is one child process attached to a PTY pair.
//
// The control handle, input sink, output source and child handle are each
// guarded by their own lock, so a Write never waits on a Resize or a
// liveness probe and a blocked Read only holds up other reads.
type Session struct {
	command string

	control controlHandle
	input   inputSink
	output  outputSource
	child   *child

	sizeMu sync.RWMutex
	size   Size

	closeOnce sync.Once
	closeErr  error
}

type controlHandle struct {
	mu     sync.Mutex
	master *os.File
}

type inputSink struct {
	mu sync.Mutex
	w  io.Writer
}

type outputSource struct {
	mu sync.Mutex
	r  io.Reader
	// pending holds bytes read on behalf of an abandoned ReadAsync.
	pending []byte
}

type flusher interface {
	Flush() error
}

// New allocates a PTY of the given size and spawns command with args on its
// slave side. The child inherits the caller's environment and working
// directory.
func New(command string, args []string, size Size) (*Session, error) {
	return NewWithEnvironment(command, args, size, InheritEnvironment())
}

// SpawnClaude spawns the claude CLI.
func SpawnClaude(size Size) (*Session, error) {
	return New(ClaudeCommand, nil, size)
}

// SpawnClaudeWithProfile spawns the claude CLI with the given profile selected.
func SpawnClaudeWithProfile(profile string, size Size) (*Session, error) {
	return New(ClaudeCommand, ProfileArgs(profile, nil), size)
}

// ProfileArgs returns args with the profile selection flag prepended.
// An empty profile leaves args unchanged.
func ProfileArgs(profile string, args []string) []string {
	if profile == "" {
		return args
	}
	return append([]string{"--profile", profile}, args...)
}

// NewWithEnvironment is New with an explicit child environment.
//
// On error no child is left running and every descriptor opened so far is
// released.
func NewWithEnvironment(command string, args []string, size Size, env Environment) (*Session, error) {
	master, tty, err := pty.Open()
	if err != nil {
		return nil, errCreate(err)
	}
	if err := pty.Setsize(master, size.winsize()); err != nil {
		master.Close()
		tty.Close()
		return nil, errCreate(err)
	}

	cmd := exec.Command(command, args...)
	cmd.Env = env.Vars
	cmd.Dir = env.Dir
	attach(cmd, tty)

	if err := cmd.Start(); err != nil {
		master.Close()
		tty.Close()
		return nil, errSpawn(command, err)
	}
	// The child holds its own copy of the slave.
	tty.Close()

	writer, err := cloneFile(master, "writer")
	if err != nil {
		abort(cmd, master)
		return nil, errCreate(err)
	}
	reader, err := cloneFile(master, "reader")
	if err != nil {
		writer.Close()
		abort(cmd, master)
		return nil, errCreate(err)
	}

	return &Session{
		command: command,
		control: controlHandle{master: master},
		input:   inputSink{w: writer},
		output:  outputSource{r: reader},
		child:   newChild(cmd),
		size:    size,
	}, nil
}

// abort tears down a child whose session could not be assembled.
func abort(cmd *exec.Cmd, master *os.File) {
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
	master.Close()
}

// Command returns the name of the spawned command.
func (s *Session) Command() string {
	return s.command
}

// Pid returns the child's process id.
func (s *Session) Pid() int {
	return s.child.pid()
}

// Read performs one bounded read of the child's output. It blocks until
// output is available; callers running an event loop should use ReadAsync.
//
// End of stream and would-block conditions yield an empty, non-nil slice
// and a nil error.
func (s *Session) Read() ([]byte, error) {
	s.output.mu.Lock()
	defer s.output.mu.Unlock()
	return s.output.read()
}

func (o *outputSource) read() ([]byte, error) {
	if len(o.pending) > 0 {
		data := o.pending
		o.pending = nil
		return data, nil
	}

	buf := make([]byte, readWindow)
	n, err := o.r.Read(buf)
	if n > 0 {
		// A trailing error resurfaces on the next read.
		return buf[:n], nil
	}
	if err == nil || isEndOfStream(err) || isWouldBlock(err) {
		return []byte{}, nil
	}
	return nil, errRead(err)
}

// isEndOfStream reports conditions that mean no more output will arrive.
// Linux reports a hung-up slave as EIO on the master.
func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EIO)
}

func isWouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}

// ReadAsync has the contract of Read, but the read runs on its own
// goroutine so the caller can give up through ctx. Output read after the
// caller gave up is kept and returned by the next read.
func (s *Session) ReadAsync(ctx context.Context) ([]byte, error) {
	req := &asyncRead{ready: make(chan struct{})}
	go s.serveAsyncRead(req)

	select {
	case <-req.ready:
		return req.data, req.err
	case <-ctx.Done():
		if req.abandon() {
			return req.data, req.err
		}
		return nil, errRead(ctx.Err())
	}
}

func (s *Session) serveAsyncRead(req *asyncRead) {
	s.output.mu.Lock()
	defer s.output.mu.Unlock()

	if req.isAbandoned() {
		return
	}
	data, err := s.output.read()
	if !req.deliver(data, err) && len(data) > 0 {
		s.output.pending = append(s.output.pending, data...)
	}
}

type asyncRead struct {
	ready chan struct{}

	mu        sync.Mutex
	delivered bool
	abandoned bool
	data      []byte
	err       error
}

// deliver hands the result to the waiting caller. It returns false when the
// caller already left.
func (r *asyncRead) deliver(data []byte, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.abandoned {
		return false
	}
	r.data, r.err, r.delivered = data, err, true
	close(r.ready)
	return true
}

// abandon marks the request as given up. It returns true when a result had
// already been delivered, in which case the caller should use it.
func (r *asyncRead) abandon() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delivered {
		return true
	}
	r.abandoned = true
	return false
}

func (r *asyncRead) isAbandoned() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.abandoned
}

// Write delivers all of p to the child's input and flushes it.
func (s *Session) Write(p []byte) error {
	if s.child.exited() {
		return errWrite(ErrProcessExited)
	}

	s.input.mu.Lock()
	defer s.input.mu.Unlock()

	if _, err := s.input.w.Write(p); err != nil {
		return errWrite(err)
	}
	if f, ok := s.input.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errFlush(err)
		}
	}
	return nil
}

// WriteString writes text to the child's input.
func (s *Session) WriteString(text string) error {
	return s.Write([]byte(text))
}

// IsRunning reports whether the child has not exited yet. It never blocks
// and does not disturb a later Wait.
func (s *Session) IsRunning() bool {
	return !s.child.exited()
}

// Done returns a channel closed once the child has exited.
func (s *Session) Done() <-chan struct{} {
	return s.child.done
}

// Wait blocks until the child exits and returns its exit code.
func (s *Session) Wait() (int, error) {
	return s.child.wait()
}

// Resize applies size to the PTY. The cached size is only updated when the
// PTY accepted it.
func (s *Session) Resize(size Size) error {
	s.control.mu.Lock()
	defer s.control.mu.Unlock()

	if err := pty.Setsize(s.control.master, size.winsize()); err != nil {
		return errResize(size, err)
	}

	s.sizeMu.Lock()
	s.size = size
	s.sizeMu.Unlock()
	return nil
}

// Size returns the last successfully applied size.
func (s *Session) Size() Size {
	s.sizeMu.RLock()
	defer s.sizeMu.RUnlock()
	return s.size
}

// Kill terminates the child immediately. Killing a child that already
// exited returns an error, which callers cleaning up may ignore.
func (s *Session) Kill() error {
	return s.child.kill()
}

// Close releases the PTY descriptors. Reads blocked on the session return
// end of stream. Close does not signal the child.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if c, ok := s.output.r.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
		if c, ok := s.input.w.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
		errs = append(errs, s.control.master.Close())
		if err := errors.Join(errs...); err != nil {
			s.closeErr = &Error{Op: OpIO, Err: err}
		}
	})
	return s.closeErr
}

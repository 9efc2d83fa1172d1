package pty

import (
	"os/exec"
	"sync"
	"syscall"
)

// child owns the spawned process. A single goroutine waits for it, since a
// process can only be reaped once; IsRunning and Wait read what it recorded.
type child struct {
	mu  sync.Mutex
	cmd *exec.Cmd

	done  chan struct{}
	code  int
	err   error
	ended bool
}

func newChild(cmd *exec.Cmd) *child {
	c := &child{
		cmd:  cmd,
		done: make(chan struct{}),
	}
	go c.reap()
	return c
}

func (c *child) reap() {
	err := c.cmd.Wait()
	if state := c.cmd.ProcessState; state != nil {
		c.code = exitCode(state.Sys(), state.ExitCode())
	} else {
		c.err = err
	}
	c.mu.Lock()
	c.ended = true
	c.mu.Unlock()
	close(c.done)
}

// exitCode maps a signalled child to the shell convention 128+signal.
func exitCode(sys any, code int) int {
	if ws, ok := sys.(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return code
}

func (c *child) pid() int {
	return c.cmd.Process.Pid
}

func (c *child) exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *child) wait() (int, error) {
	<-c.done
	if c.err != nil {
		return -1, errWait(c.err)
	}
	return c.code, nil
}

func (c *child) kill() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return errKill(ErrProcessExited)
	}
	if err := c.cmd.Process.Kill(); err != nil {
		return errKill(err)
	}
	return nil
}

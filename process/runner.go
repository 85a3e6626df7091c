// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

var _ Runner = &ExecRunner{}

type ExecRunnerConfig struct {
	// Command builds the argv used to start an extension, typically
	// ["node", "."] for package-backed extensions.
	Command []string
	Sink    SinkFunc
	OnExit  ExitFunc
}

// ExecRunner supervises extensions as plain child processes.
type ExecRunner struct {
	command []string
	sink    SinkFunc
	onExit  ExitFunc

	mu       sync.Mutex
	children map[string]*child
	exitCbs  []func()
}

// stopGracePeriod bounds how long Stop waits after SIGTERM before
// escalating to SIGKILL.
const stopGracePeriod = 30 * time.Second

type child struct {
	cmd      *exec.Cmd
	status   Status
	userStop bool
	done     chan struct{} // closed once the exit event has been delivered
}

func NewExecRunner(config ExecRunnerConfig) *ExecRunner {
	command := config.Command
	if len(command) == 0 {
		command = []string{"node", "."}
	}
	return &ExecRunner{
		command:  command,
		sink:     config.Sink,
		onExit:   config.OnExit,
		children: make(map[string]*child),
	}
}

func (r *ExecRunner) Start(ctx context.Context, name string, cwd string, mode IOMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.children[name]; ok && c.status != Stopped {
		return fmt.Errorf("%s is already running", name)
	}

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Dir = cwd

	var out io.Writer
	if mode == IOCapture && r.sink != nil {
		out = r.sink(name)
	}
	if out != nil {
		cmd.Stdout = out
		cmd.Stderr = out
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	c := &child{cmd: cmd, status: Running, done: make(chan struct{})}
	r.children[name] = c

	go r.wait(name, c)

	logrus.WithField("extension", name).Info("started")
	return nil
}

func (r *ExecRunner) wait(name string, c *child) {
	err := c.cmd.Wait()

	ev := ExitEvent{}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		ev.Code = exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			ev.Signal = status.Signal().String()
		}
	default:
		ev.Code = -1
	}

	r.mu.Lock()
	ev.UserInitiated = c.userStop
	c.status = Stopped
	c.userStop = false
	onExit := r.onExit
	r.mu.Unlock()

	if onExit != nil {
		onExit(name, ev)
	}
	close(c.done)
}

// Stop terminates a child and returns only after its exit event has been
// delivered, so callers can reuse the name (back up, update, restart)
// immediately. A child that survives the grace period is killed.
func (r *ExecRunner) Stop(name string, userInitiated bool) error {
	r.mu.Lock()
	c, ok := r.children[name]
	if !ok || c.status == Stopped {
		r.mu.Unlock()
		return nil
	}
	if c.status == Terminating {
		r.mu.Unlock()
		<-c.done
		return nil
	}
	c.status = Terminating
	c.userStop = userInitiated
	proc := c.cmd.Process
	r.mu.Unlock()

	// The child may have exited on its own between the lock release and
	// the signal.
	if err := proc.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}

	select {
	case <-c.done:
	case <-time.After(stopGracePeriod):
		_ = proc.Kill()
		<-c.done
	}
	return nil
}

func (r *ExecRunner) Terminate(name string) error {
	r.mu.Lock()
	c, ok := r.children[name]
	if !ok || c.status == Stopped {
		r.mu.Unlock()
		return nil
	}
	c.userStop = true
	proc := c.cmd.Process
	r.mu.Unlock()

	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	<-c.done
	return nil
}

func (r *ExecRunner) Status(name string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.children[name]; ok {
		return c.status
	}
	return Stopped
}

func (r *ExecRunner) PrepareExit(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exitCbs = append(r.exitCbs, fn)
}

// Shutdown runs the registered exit callbacks. Children are left running:
// the detach protocol hands them over to the relaunched instance.
func (r *ExecRunner) Shutdown() {
	r.mu.Lock()
	cbs := r.exitCbs
	r.exitCbs = nil
	r.mu.Unlock()

	for _, fn := range cbs {
		fn()
	}
}

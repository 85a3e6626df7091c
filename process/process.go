// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package process defines the child-process contract the supervisor core
// consumes. The core starts, stops and observes extensions through Runner;
// it never touches OS process primitives itself.
package process

import (
	"context"
	"io"
)

// IOMode selects what happens to a child's combined output.
type IOMode int

const (
	// IODiscard drops the child's output.
	IODiscard IOMode = iota
	// IOCapture routes the child's output to the sink registered for its
	// name.
	IOCapture
)

// Status of a supervised child.
type Status int

const (
	Stopped Status = iota
	Running
	Terminating
)

// ExitEvent describes a child's termination.
type ExitEvent struct {
	Code   int
	Signal string
	// UserInitiated is true when the stop was requested explicitly rather
	// than caused by the child or the host.
	UserInitiated bool
}

// ExitFunc receives termination events.
type ExitFunc func(name string, ev ExitEvent)

// SinkFunc supplies the output writer for a capturing child. A nil writer
// falls back to discarding.
type SinkFunc func(name string) io.Writer

// Runner starts and stops extension processes.
type Runner interface {
	Start(ctx context.Context, name string, cwd string, mode IOMode) error
	Stop(name string, userInitiated bool) error
	Terminate(name string) error
	Status(name string) Status
	// PrepareExit registers a callback invoked once right before the
	// hosting process exits, so children can be detached cleanly.
	PrepareExit(fn func())
}

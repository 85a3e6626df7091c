// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package relaunch models the cooperative hand-off between the manager and
// its external relauncher. The manager cannot replace its own running
// image, so a self-update or restart ends the process with a reserved exit
// status and resumes in a freshly launched instance.
package relaunch

import "github.com/fieldline/extman/constant"

// Request says what the hosting entry point should do when the manager's
// run loop returns.
type Request int

const (
	// None is an ordinary shutdown.
	None Request = iota
	// RestartOnly asks the relauncher to start a new instance without
	// touching the installed package.
	RestartOnly
	// UpdateThenRestart asks the relauncher to apply the manager's
	// package update first, then start a new instance.
	UpdateThenRestart
)

func (r Request) String() string {
	switch r {
	case RestartOnly:
		return "restart"
	case UpdateThenRestart:
		return "update-then-restart"
	default:
		return "none"
	}
}

// ExitCode maps the request to the reserved process exit status understood
// by the external relauncher. Any other nonzero exit is an ordinary
// failure, not a protocol signal.
func (r Request) ExitCode() int {
	switch r {
	case RestartOnly:
		return constant.ExitRelaunch
	case UpdateThenRestart:
		return constant.ExitUpdateAndRelaunch
	default:
		return 0
	}
}

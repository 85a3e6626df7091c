// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package backend defines the contracts the supervisor core consumes to
// install, update, uninstall and inspect extensions. The core only ever
// invokes these; the reference implementations live in the npm and docker
// subpackages.
package backend

import (
	"context"
	"fmt"
	"strings"
)

// Backend is the operation set shared by both providers. ListInstalled and
// ListOutdated take an optional name; the empty string means "everything".
// Both return name → version maps.
type Backend interface {
	Install(ctx context.Context, source string) error
	Update(ctx context.Context, name string) error
	Uninstall(ctx context.Context, name string) error
	ListInstalled(ctx context.Context, name string) (map[string]string, error)
	ListOutdated(ctx context.Context, name string) (map[string]string, error)
}

// PackageBackend is the package-manager provider. InstallDependency installs
// a package inside an extension's own working directory, used for peer
// dependency recovery.
type PackageBackend interface {
	Backend
	InstallDependency(ctx context.Context, dir string, pkg string) error
}

// ContainerBackend is the container-runtime provider.
type ContainerBackend interface {
	Backend
	// NameFromImage derives the extension name for an image reference.
	NameFromImage(ref string) (string, error)
	// InstallOptions resolves runtime options declared by the image.
	InstallOptions(ctx context.Context, ref string) ([]string, error)
}

// PeerDependencyError reports that a scoped installed-state query failed
// solely because peer dependencies are missing. It is a retryable payload,
// not a failure: the scheduler recovers by installing the missing peers.
type PeerDependencyError struct {
	Missing []string
}

func (e *PeerDependencyError) Error() string {
	return fmt.Sprintf("missing peer dependencies: %s", strings.Join(e.Missing, ", "))
}

// CommandError is a failed backend command invocation. The enclosing job
// fails and is dequeued; the queue continues.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

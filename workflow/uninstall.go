// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"context"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/process"
)

var _ Workflow = &Uninstall{}

type UninstallConfig struct {
	Name    string
	Backend backend.Backend
	Runner  process.Runner
	// Forget drops every tracker and log-registration entry for the
	// name once the backend has removed it.
	Forget func(name string) error
}

func NewUninstall(config UninstallConfig) *Uninstall {
	return &Uninstall{
		name:    config.Name,
		backend: config.Backend,
		runner:  config.Runner,
		forget:  config.Forget,
	}
}

type Uninstall struct {
	name    string
	backend backend.Backend
	runner  process.Runner
	forget  func(name string) error
}

func (u *Uninstall) Execute(ctx context.Context) error {
	if err := u.runner.Stop(u.name, true); err != nil {
		return err
	}

	if err := u.backend.Uninstall(ctx, u.name); err != nil {
		return err
	}

	return u.forget(u.name)
}

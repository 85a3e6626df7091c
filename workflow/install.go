// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"context"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/constant"
	"github.com/fieldline/extman/process"
	"github.com/fieldline/extman/types"
)

var _ Workflow = &Install{}

type InstallConfig struct {
	Name        string
	Extension   types.Extension
	Source      string
	Backend     backend.Backend
	Runner      process.Runner
	PostInstall *PostInstall
	WorkingDir  string
	IOMode      process.IOMode
}

func NewInstall(config InstallConfig) *Install {
	return &Install{
		name:        config.Name,
		extension:   config.Extension,
		source:      config.Source,
		backend:     config.Backend,
		runner:      config.Runner,
		postInstall: config.PostInstall,
		workingDir:  config.WorkingDir,
		ioMode:      config.IOMode,
	}
}

type Install struct {
	name        string
	extension   types.Extension
	source      string
	backend     backend.Backend
	runner      process.Runner
	postInstall *PostInstall
	workingDir  string
	ioMode      process.IOMode
}

func (i *Install) Execute(ctx context.Context) error {
	if err := i.backend.Install(ctx, i.source); err != nil {
		return err
	}

	if err := i.postInstall.Run(ctx, i.name, i.extension, i.workingDir); err != nil {
		return err
	}

	// The manager and the repository-fragment package are not ordinary
	// children; they are never auto-started here.
	if i.name == constant.ManagerName || i.name == constant.RepositoryName {
		return nil
	}

	return i.runner.Start(ctx, i.name, i.workingDir, i.ioMode)
}

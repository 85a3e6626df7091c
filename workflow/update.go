// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/backup"
	"github.com/fieldline/extman/process"
	"github.com/fieldline/extman/types"
)

var _ Workflow = &Update{}

type UpdateConfig struct {
	Name        string
	Extension   types.Extension
	Backend     backend.Backend
	Runner      process.Runner
	Archiver    *backup.Archiver
	PostInstall *PostInstall
	WorkingDir  string
	IOMode      process.IOMode
}

func NewUpdate(config UpdateConfig) *Update {
	return &Update{
		name:        config.Name,
		extension:   config.Extension,
		backend:     config.Backend,
		runner:      config.Runner,
		archiver:    config.Archiver,
		postInstall: config.PostInstall,
		workingDir:  config.WorkingDir,
		ioMode:      config.IOMode,
	}
}

type Update struct {
	name        string
	extension   types.Extension
	backend     backend.Backend
	runner      process.Runner
	archiver    *backup.Archiver
	postInstall *PostInstall
	workingDir  string
	ioMode      process.IOMode
}

// Execute updates one extension with the backup safety net around the
// backend call. The manager's own update never reaches this workflow; it
// diverts into the process-replacement protocol instead.
func (u *Update) Execute(ctx context.Context) error {
	wasRunning := u.runner.Status(u.name) == process.Running

	if err := u.runner.Stop(u.name, false); err != nil {
		return err
	}

	// Archiving is a best-effort safety net: a failed backup is logged and
	// the update proceeds without one.
	archived, err := u.archiver.Backup(u.name, u.workingDir)
	if err != nil {
		logrus.WithError(err).WithField("extension", u.name).Warn("backup failed")
		archived = false
	}

	if err := u.backend.Update(ctx, u.name); err != nil {
		return err
	}

	if err := u.postInstall.Run(ctx, u.name, u.extension, u.workingDir); err != nil {
		return err
	}

	if archived {
		if err := u.archiver.Restore(u.name, u.workingDir); err != nil {
			logrus.WithError(err).WithField("extension", u.name).Warn("restore failed")
		}
	}

	// Resume only what was running: an extension deliberately left
	// stopped stays stopped.
	if !wasRunning {
		return nil
	}
	return u.runner.Start(ctx, u.name, u.workingDir, u.ioMode)
}

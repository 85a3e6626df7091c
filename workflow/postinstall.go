// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/constant"
	"github.com/fieldline/extman/fetch"
	"github.com/fieldline/extman/scheduler"
	"github.com/fieldline/extman/types"
	"github.com/fieldline/extman/util"
)

// Refresher is the tracker surface the pipeline needs: a scoped refresh
// returning the missing peer dependencies, if any.
type Refresher interface {
	RefreshInstalled(ctx context.Context, name string) ([]string, error)
}

type PostInstallConfig struct {
	Tracker Refresher
	Package backend.PackageBackend
	Fetch   fetch.Client
	Fs      afero.Fs
}

// PostInstall is the pipeline shared by Install and Update jobs: peer
// dependency recovery plus ignore-file provisioning.
type PostInstall struct {
	tracker Refresher
	pkg     backend.PackageBackend
	fetch   fetch.Client
	fs      afero.Fs
	log     *logrus.Entry
}

func NewPostInstall(config PostInstallConfig) *PostInstall {
	return &PostInstall{
		tracker: config.Tracker,
		pkg:     config.Package,
		fetch:   config.Fetch,
		fs:      config.Fs,
		log:     logrus.WithField("component", "post-install"),
	}
}

// Run executes the pipeline for one extension. When recovery of a missing
// peer dependency fails and the target is not the manager itself, the
// returned error converts the running job into an Uninstall of the same
// name rather than leaving a half-broken install behind.
func (p *PostInstall) Run(ctx context.Context, name string, ext types.Extension, workingDir string) error {
	missing, err := p.tracker.RefreshInstalled(ctx, name)
	if err != nil {
		return err
	}

	for _, dependency := range missing {
		p.log.WithFields(logrus.Fields{
			"extension":  name,
			"dependency": dependency,
		}).Info("installing missing peer dependency")

		if err := p.pkg.InstallDependency(ctx, workingDir, dependency); err != nil {
			if name == constant.ManagerName {
				return err
			}
			return &scheduler.ConvertError{
				To:    scheduler.Job{Kind: scheduler.Uninstall},
				Cause: err,
			}
		}
	}

	p.ensureIgnoreFile(ctx, name, ext, workingDir)
	return nil
}

// ensureIgnoreFile fetches the canonical ignore-file from the extension's
// source host when the install did not bring one, so the next update has a
// backup manifest to work with. Best-effort: failures are logged and never
// block completion.
func (p *PostInstall) ensureIgnoreFile(ctx context.Context, name string, ext types.Extension, workingDir string) {
	if ext.Kind() != types.SourceRepository {
		return
	}

	path := filepath.Join(workingDir, constant.IgnoreFile)
	if ok, err := afero.Exists(p.fs, path); err != nil || ok {
		return
	}

	url, err := util.IgnoreFileURL(ext.Repository.URL)
	if err != nil {
		p.log.WithError(err).WithField("extension", name).Warn("cannot locate ignore-file")
		return
	}

	if err := p.fetch.Fetch(ctx, url, path); err != nil {
		p.log.WithError(err).WithField("extension", name).Warn("ignore-file fetch failed")
		return
	}

	p.log.WithField("extension", name).Debug("ignore-file fetched")
}

// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package backup

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fieldline/extman/constant"
)

type ArchiverConfig struct {
	Fs afero.Fs
	// BackupsDir holds one archive per extension between backup and
	// restore.
	BackupsDir string
}

// Archiver is the update safety net: Backup before the backend update,
// Restore after the post-install pipeline.
type Archiver struct {
	fs         afero.Fs
	backupsDir string
	log        *logrus.Entry
}

func NewArchiver(config ArchiverConfig) *Archiver {
	return &Archiver{
		fs:         config.Fs,
		backupsDir: config.BackupsDir,
		log:        logrus.WithField("component", "backup"),
	}
}

// Backup archives the extension's ignore-file paths. It reports whether an
// archive was produced; a missing ignore-file or an empty resolved path
// list means the directory is clean and archiving is skipped entirely.
func (a *Archiver) Backup(name string, workingDir string) (bool, error) {
	ignorePath := filepath.Join(workingDir, constant.IgnoreFile)

	contents, err := afero.ReadFile(a.fs, ignorePath)
	if err != nil {
		a.log.WithField("extension", name).Debug("no ignore-file, nothing to back up")
		return false, nil
	}

	paths := IgnorePaths(a.fs, string(contents), workingDir)
	if len(paths) == 0 {
		return false, nil
	}

	if err := archive(a.fs, workingDir, paths, a.archivePath(name)); err != nil {
		return false, fmt.Errorf("archiving %s: %w", name, err)
	}

	a.log.WithField("extension", name).WithField("paths", len(paths)).Info("backed up")
	return true, nil
}

// Restore extracts the archive produced by Backup back into the working
// directory. It is a no-op when no archive exists.
func (a *Archiver) Restore(name string, workingDir string) error {
	path := a.archivePath(name)

	if ok, err := afero.Exists(a.fs, path); err != nil || !ok {
		return err
	}

	if err := extract(a.fs, path, workingDir); err != nil {
		return fmt.Errorf("restoring %s: %w", name, err)
	}

	// The archive is single-use.
	if err := a.fs.Remove(path); err != nil {
		a.log.WithError(err).WithField("extension", name).Warn("could not remove archive")
	}

	a.log.WithField("extension", name).Info("restored")
	return nil
}

func (a *Archiver) archivePath(name string) string {
	return filepath.Join(a.backupsDir, name+".tar.gz")
}

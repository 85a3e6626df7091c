// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package backup archives and restores extension working-directory state
// around updates. What gets archived is decided by the extension's own
// ignore-file: the paths it excludes from packaging are exactly the ones an
// update would otherwise destroy.
package backup

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// IgnorePaths resolves an ignore-file's contents to the listed paths that
// currently exist under workingDir. Blank lines, comments and node_modules
// never qualify; a trailing directory slash is stripped.
func IgnorePaths(fs afero.Fs, contents string, workingDir string) []string {
	var paths []string

	for _, line := range strings.Split(contents, "\n") {
		entry := strings.TrimSpace(line)
		entry = strings.TrimSuffix(entry, "/")

		if entry == "" || strings.HasPrefix(entry, "#") || entry == "node_modules" {
			continue
		}

		if ok, err := afero.Exists(fs, filepath.Join(workingDir, entry)); err != nil || !ok {
			continue
		}

		paths = append(paths, entry)
	}

	return paths
}

// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	logModeKey       = "log_mode"
	dockerInstallKey = "docker_install"
	npmInstallKey    = "npm_install"
	autoUpdateKey    = "auto_update"

	off  = "off"
	prio = "prio"

	// LogModeChildren restricts log capture to child extensions only.
	LogModeChildren = "child_nodes"
)

// Flags holds the feature-flag file contents, read once at startup. The
// zero value enables everything with default behavior.
type Flags struct {
	LogMode       string
	DockerInstall string
	NpmInstall    string
	AutoUpdate    string
}

// ReadFlags loads the feature-flag file. A missing file yields defaults;
// an unreadable or malformed file is an error so a typo never silently
// flips a backend off.
func ReadFlags(fs afero.Fs, path string) (Flags, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if ok, err := afero.Exists(fs, path); err != nil {
		return Flags{}, err
	} else if !ok {
		return Flags{}, nil
	}

	if err := v.ReadInConfig(); err != nil {
		return Flags{}, err
	}

	return Flags{
		LogMode:       v.GetString(logModeKey),
		DockerInstall: v.GetString(dockerInstallKey),
		NpmInstall:    v.GetString(npmInstallKey),
		AutoUpdate:    v.GetString(autoUpdateKey),
	}, nil
}

// LoggingEnabled reports whether log capture is enabled at all.
func (f Flags) LoggingEnabled() bool {
	return f.LogMode != off
}

// ManagerLoggingEnabled reports whether the manager's own output is
// captured alongside its children.
func (f Flags) ManagerLoggingEnabled() bool {
	return f.LoggingEnabled() && f.LogMode != LogModeChildren
}

// ContainerEnabled reports whether the container backend may be used.
// Detection of the container runtime is the caller's concern.
func (f Flags) ContainerEnabled() bool {
	return f.DockerInstall != off
}

// ContainerPreferred reports whether the container backend wins when an
// extension is published through both backends.
func (f Flags) ContainerPreferred() bool {
	return f.DockerInstall == prio
}

// PackageInstallsEnabled reports whether source-control installs through
// the package backend are enabled.
func (f Flags) PackageInstallsEnabled() bool {
	return f.NpmInstall != off
}

// AutoUpdateEnabled reports whether periodic bulk update scans run.
func (f Flags) AutoUpdateEnabled() bool {
	return f.AutoUpdate != off
}

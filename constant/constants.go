// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package constant

const (
	AppName = "extman"

	// Names of the system extensions. They are derived from the repository
	// URLs below and must stay in sync with them.
	ManagerName    = "extman"
	UpdaterName    = "extman-updater"
	RepositoryName = "extman-repository"

	ManagerURL    = "https://github.com/fieldline/extman.git"
	UpdaterURL    = "https://github.com/fieldline/extman-updater.git"
	RepositoryURL = "https://github.com/fieldline/extman-repository.git"

	SystemCategory = "System"

	// DefaultBranch is used when a repository URL carries no #branch suffix.
	DefaultBranch = "master"

	// IgnoreFile is the per-extension manifest of paths excluded from
	// packaging. Its listed paths are what we back up across an update.
	IgnoreFile = ".npmignore"
)

// Exit statuses reserved for the relauncher contract. Any other nonzero
// exit is an ordinary failure.
const (
	ExitRelaunch          = 66
	ExitUpdateAndRelaunch = 67
)

// ExpectedTerminationCode is the status a child reports when the host
// delivers SIGTERM. It is never flagged as an unexpected termination.
const ExpectedTerminationCode = 143

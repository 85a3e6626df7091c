// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package npm implements the package backend over the npm CLI. Extensions
// install under <dir>/node_modules; all commands run with the supervisor
// data directory as their working directory.
package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fieldline/extman/backend"
)

const peerDepMarker = "peer dep missing: "

var _ backend.PackageBackend = &NPM{}

type Config struct {
	// Dir is the directory npm operates in.
	Dir string
}

type NPM struct {
	dir string
	log *logrus.Entry
}

func New(config Config) *NPM {
	return &NPM{
		dir: config.Dir,
		log: logrus.WithField("component", "npm"),
	}
}

// Detect reports whether the npm CLI is available. Its absence is fatal at
// startup: no queue activity begins without the package backend.
func Detect() error {
	if _, err := exec.LookPath("npm"); err != nil {
		return fmt.Errorf("npm executable not found: %w", err)
	}
	return nil
}

func (n *NPM) Install(ctx context.Context, source string) error {
	_, err := n.run(ctx, n.dir, "install", "--save", source)
	return err
}

func (n *NPM) InstallDependency(ctx context.Context, dir string, pkg string) error {
	_, err := n.run(ctx, dir, "install", pkg)
	return err
}

func (n *NPM) Update(ctx context.Context, name string) error {
	_, err := n.run(ctx, n.dir, "update", name)
	return err
}

func (n *NPM) Uninstall(ctx context.Context, name string) error {
	_, err := n.run(ctx, n.dir, "uninstall", "--save", name)
	return err
}

// lsOutput is the subset of `npm ls --json` the tracker cares about.
type lsOutput struct {
	Dependencies map[string]struct {
		Version string `json:"version"`
	} `json:"dependencies"`
	Problems []string `json:"problems"`
}

func (n *NPM) ListInstalled(ctx context.Context, name string) (map[string]string, error) {
	args := []string{"ls", "--json", "--depth", "0"}
	if name != "" {
		args = append(args, name)
	}

	// npm ls exits nonzero when the tree has problems but still prints
	// the tree; parse whatever came out before judging the exit status.
	stdout, runErr := n.run(ctx, n.dir, args...)

	var parsed lsOutput
	if err := json.Unmarshal(stdout, &parsed); err != nil {
		if runErr != nil {
			return nil, runErr
		}
		return nil, fmt.Errorf("parsing npm ls output: %w", err)
	}

	if missing := missingPeers(parsed.Problems); len(missing) > 0 {
		return nil, &backend.PeerDependencyError{Missing: missing}
	}
	if runErr != nil && len(parsed.Dependencies) == 0 {
		return nil, runErr
	}

	installed := make(map[string]string, len(parsed.Dependencies))
	for dep, info := range parsed.Dependencies {
		installed[dep] = info.Version
	}
	return installed, nil
}

// missingPeers extracts the dependency identifiers of problems that are
// solely missing peer dependencies. Any other problem kind disqualifies
// the peer-recovery classification.
func missingPeers(problems []string) []string {
	var missing []string
	for _, problem := range problems {
		i := strings.Index(problem, peerDepMarker)
		if i < 0 {
			return nil
		}
		spec := problem[i+len(peerDepMarker):]
		if j := strings.Index(spec, ","); j >= 0 {
			spec = spec[:j]
		}
		missing = append(missing, strings.TrimSpace(spec))
	}
	return missing
}

type outdatedEntry struct {
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

func (n *NPM) ListOutdated(ctx context.Context, name string) (map[string]string, error) {
	args := []string{"outdated", "--json"}
	if name != "" {
		args = append(args, name)
	}

	// npm outdated exits 1 whenever anything is outdated.
	stdout, runErr := n.run(ctx, n.dir, args...)
	if len(bytes.TrimSpace(stdout)) == 0 {
		if runErr != nil {
			return nil, runErr
		}
		return map[string]string{}, nil
	}

	var parsed map[string]outdatedEntry
	if err := json.Unmarshal(stdout, &parsed); err != nil {
		return nil, fmt.Errorf("parsing npm outdated output: %w", err)
	}

	outdated := make(map[string]string, len(parsed))
	for dep, entry := range parsed {
		if entry.Current == entry.Wanted {
			continue
		}
		outdated[dep] = entry.Wanted
	}
	return outdated, nil
}

func (n *NPM) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "npm", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	n.log.WithField("args", strings.Join(args, " ")).Debug("npm")

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &backend.CommandError{
			Command: "npm " + strings.Join(args, " "),
			Output:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package docker implements the container backend over the docker CLI.
// Extensions are container images; the image tag doubles as the installed
// version.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fieldline/extman/backend"
)

// optionsLabel declares runtime options on the image itself.
const optionsLabel = "com.fieldline.extman.options"

var _ backend.ContainerBackend = &Docker{}

type Docker struct {
	log *logrus.Entry

	mu sync.Mutex
	// refs remembers the image reference behind each extension name, so
	// update and uninstall can resolve names back to images.
	refs map[string]string
}

func New() *Docker {
	return &Docker{
		log:  logrus.WithField("component", "docker"),
		refs: make(map[string]string),
	}
}

// Detect reports whether a usable container runtime is present. Unlike the
// package backend its absence is not fatal; container installs are simply
// disabled.
func Detect() bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	return true
}

// NameFromImage derives the extension name from an image reference:
// everything after the last path separator, minus the tag.
func (d *Docker) NameFromImage(ref string) (string, error) {
	name := ref
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", fmt.Errorf("cannot derive a name from image %q", ref)
	}

	d.mu.Lock()
	d.refs[name] = ref
	d.mu.Unlock()

	return name, nil
}

func (d *Docker) InstallOptions(ctx context.Context, ref string) ([]string, error) {
	stdout, err := d.run(ctx, "inspect", "--format", fmt.Sprintf("{{index .Config.Labels %q}}", optionsLabel), ref)
	if err != nil {
		return nil, err
	}

	declared := strings.TrimSpace(string(stdout))
	if declared == "" || declared == "<no value>" {
		return nil, nil
	}
	return strings.Fields(declared), nil
}

func (d *Docker) Install(ctx context.Context, source string) error {
	if _, err := d.NameFromImage(source); err != nil {
		return err
	}
	_, err := d.run(ctx, "pull", source)
	return err
}

func (d *Docker) Update(ctx context.Context, name string) error {
	ref, err := d.refFor(name)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, "pull", ref)
	return err
}

func (d *Docker) Uninstall(ctx context.Context, name string) error {
	ref, err := d.refFor(name)
	if err != nil {
		return err
	}

	if _, err := d.run(ctx, "rmi", ref); err != nil {
		return err
	}

	d.mu.Lock()
	delete(d.refs, name)
	d.mu.Unlock()
	return nil
}

func (d *Docker) ListInstalled(ctx context.Context, name string) (map[string]string, error) {
	stdout, err := d.run(ctx, "images", "--format", "{{.Repository}}:{{.Tag}}")
	if err != nil {
		return nil, err
	}

	installed := make(map[string]string)
	for _, line := range strings.Split(string(stdout), "\n") {
		ref := strings.TrimSpace(line)
		if ref == "" {
			continue
		}

		imageName, err := d.NameFromImage(ref)
		if err != nil {
			continue
		}
		if name != "" && imageName != name {
			continue
		}

		version := "latest"
		if i := strings.LastIndex(ref, ":"); i >= 0 {
			version = ref[i+1:]
		}
		installed[imageName] = version
	}
	return installed, nil
}

// ListOutdated asks the registry for newer digests. A pull that changes
// the local digest counts as an available update; this scan is advisory
// only and never authoritative for the manager's own updates.
func (d *Docker) ListOutdated(ctx context.Context, name string) (map[string]string, error) {
	d.mu.Lock()
	refs := make(map[string]string, len(d.refs))
	for extName, ref := range d.refs {
		refs[extName] = ref
	}
	d.mu.Unlock()

	outdated := make(map[string]string)
	for extName, ref := range refs {
		if name != "" && extName != name {
			continue
		}

		stale, err := d.remoteDigestDiffers(ctx, ref)
		if err != nil {
			d.log.WithError(err).WithField("image", ref).Debug("outdated check failed")
			continue
		}
		if stale {
			outdated[extName] = "latest"
		}
	}
	return outdated, nil
}

func (d *Docker) remoteDigestDiffers(ctx context.Context, ref string) (bool, error) {
	local, err := d.run(ctx, "images", "--no-trunc", "--quiet", ref)
	if err != nil {
		return false, err
	}

	remote, err := d.run(ctx, "manifest", "inspect", "--verbose", ref)
	if err != nil {
		return false, err
	}

	localID := strings.TrimSpace(string(local))
	return localID != "" && !strings.Contains(string(remote), localID), nil
}

func (d *Docker) refFor(name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ref, ok := d.refs[name]
	if !ok {
		return "", fmt.Errorf("no image known for %s", name)
	}
	return ref, nil
}

func (d *Docker) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "docker", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.log.WithField("args", strings.Join(args, " ")).Debug("docker")

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &backend.CommandError{
			Command: "docker " + strings.Join(args, " "),
			Output:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

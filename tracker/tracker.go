// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tracker maintains the ground truth of installed versions and
// advertised updates per backend, scoped to catalog membership.
package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/iancoleman/orderedmap"
	"github.com/sirupsen/logrus"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/constant"
)

// Membership answers whether a name is part of the current catalog.
type Membership interface {
	Has(name string) bool
}

// latestVersion is advertised when the wanted version cannot be determined.
const latestVersion = "latest"

type Config struct {
	Package   backend.PackageBackend
	Container backend.ContainerBackend // nil when the container backend is unavailable
}

type Tracker struct {
	pkg backend.PackageBackend
	ctr backend.ContainerBackend
	log *logrus.Entry

	mu           sync.RWMutex
	membership   Membership
	installedPkg map[string]string
	installedCtr map[string]string
	updates      *orderedmap.OrderedMap
}

func New(config Config) *Tracker {
	return &Tracker{
		pkg:          config.Package,
		ctr:          config.Container,
		log:          logrus.WithField("component", "tracker"),
		installedPkg: make(map[string]string),
		installedCtr: make(map[string]string),
		updates:      orderedmap.New(),
	}
}

// SetMembership swaps the catalog the tracker filters against, then drops
// entries that are no longer members.
func (t *Tracker) SetMembership(m Membership) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.membership = m
	t.filterLocked()
}

// RefreshInstalled refreshes installed state. An empty name replaces both
// per-backend maps wholesale; a scoped refresh replaces only that entry and
// preserves the rest even when the scoped query fails. A scoped failure
// caused solely by missing peer dependencies is returned as a retryable
// payload, not an error.
func (t *Tracker) RefreshInstalled(ctx context.Context, name string) ([]string, error) {
	if name == "" {
		return nil, t.refreshInstalledAll(ctx)
	}
	return t.refreshInstalledOne(ctx, name)
}

func (t *Tracker) refreshInstalledAll(ctx context.Context) error {
	pkg, err := t.pkg.ListInstalled(ctx, "")
	if err != nil {
		return err
	}

	ctr := map[string]string{}
	if t.ctr != nil {
		if ctr, err = t.ctr.ListInstalled(ctx, ""); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.installedPkg = make(map[string]string, len(pkg))
	for name, version := range pkg {
		t.installedPkg[name] = version
	}

	t.installedCtr = make(map[string]string, len(ctr))
	for name, version := range ctr {
		// A name appears in at most one backend's map.
		if _, ok := t.installedPkg[name]; ok {
			continue
		}
		t.installedCtr[name] = version
	}

	t.filterLocked()
	return nil
}

func (t *Tracker) refreshInstalledOne(ctx context.Context, name string) ([]string, error) {
	b := t.backendFor(name)

	result, err := b.ListInstalled(ctx, name)

	var peerErr *backend.PeerDependencyError
	if errors.As(err, &peerErr) {
		return peerErr.Missing, nil
	}
	if err != nil {
		// Preserve the existing entry.
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	installed := t.installedMapFor(name)
	if version, ok := result[name]; ok {
		installed[name] = version
	} else {
		delete(installed, name)
	}

	t.filterLocked()
	return nil, nil
}

// RefreshUpdates merges both backends' outdated results into the shared
// advertisement, restricted to catalog membership. An empty name scans
// everything.
func (t *Tracker) RefreshUpdates(ctx context.Context, name string) error {
	pkgOutdated, err := t.pkg.ListOutdated(ctx, name)
	if err != nil {
		return err
	}

	ctrOutdated := map[string]string{}
	if t.ctr != nil {
		if ctrOutdated, err = t.ctr.ListOutdated(ctx, ""); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if name == "" {
		t.updates = orderedmap.New()
	} else {
		t.updates.Delete(name)
	}

	for pkgName, wanted := range pkgOutdated {
		if name != "" && pkgName != name {
			continue
		}
		t.updates.Set(pkgName, wanted)
	}

	if name == "" || len(pkgOutdated) == 0 {
		for ctrName, wanted := range ctrOutdated {
			// The container backend is not authoritative for the
			// manager's own updates.
			if ctrName == constant.ManagerName {
				continue
			}
			if name != "" && ctrName != name {
				continue
			}
			t.updates.Set(ctrName, wanted)
		}
	}

	if name != "" {
		t.assumeUpdatableWhenOutdatedEmpty(name, pkgOutdated)
	}

	t.filterLocked()
	return nil
}

// assumeUpdatableWhenOutdatedEmpty reproduces a backend-version quirk: when
// a scoped query was requested and the package backend reports no outdated
// packages at all while installed entries exist, the one queried name is
// treated as unconditionally updatable. This may well be an upstream bug,
// but behavior compatibility wins over plausibility here.
func (t *Tracker) assumeUpdatableWhenOutdatedEmpty(name string, pkgOutdated map[string]string) {
	if len(pkgOutdated) > 0 {
		return
	}
	if len(t.installedPkg) == 0 && len(t.installedCtr) == 0 {
		return
	}
	t.log.WithField("extension", name).Debug("empty outdated scan, assuming updatable")
	t.updates.Set(name, latestVersion)
}

// Installed returns the version for a name and whether it is installed.
func (t *Tracker) Installed(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if version, ok := t.installedPkg[name]; ok {
		return version, true
	}
	version, ok := t.installedCtr[name]
	return version, ok
}

// InstalledInContainer reports whether the name is tracked by the container
// backend.
func (t *Tracker) InstalledInContainer(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.installedCtr[name]
	return ok
}

// InstalledAll returns a copy of the merged installed map.
func (t *Tracker) InstalledAll() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	merged := make(map[string]string, len(t.installedPkg)+len(t.installedCtr))
	for name, version := range t.installedPkg {
		merged[name] = version
	}
	for name, version := range t.installedCtr {
		merged[name] = version
	}
	return merged
}

// Update returns the advertised wanted version for a name.
func (t *Tracker) Update(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	wanted, ok := t.updates.Get(name)
	if !ok {
		return "", false
	}
	return wanted.(string), true
}

// Advertised returns the advertised names in advertisement order.
func (t *Tracker) Advertised() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := t.updates.Keys()
	names := make([]string, len(keys))
	copy(names, keys)
	return names
}

// Forget drops every trace of a name, used on uninstall.
func (t *Tracker) Forget(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.installedPkg, name)
	delete(t.installedCtr, name)
	t.updates.Delete(name)
}

func (t *Tracker) backendFor(name string) backend.Backend {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.installedCtr[name]; ok && t.ctr != nil {
		return t.ctr
	}
	return t.pkg
}

func (t *Tracker) installedMapFor(name string) map[string]string {
	if _, ok := t.installedCtr[name]; ok {
		return t.installedCtr
	}
	return t.installedPkg
}

// filterLocked drops entries for names outside the catalog. Callers hold
// the write lock.
func (t *Tracker) filterLocked() {
	if t.membership == nil {
		return
	}

	for name := range t.installedPkg {
		if !t.membership.Has(name) {
			delete(t.installedPkg, name)
		}
	}
	for name := range t.installedCtr {
		if !t.membership.Has(name) {
			delete(t.installedCtr, name)
		}
	}
	advertised := append([]string(nil), t.updates.Keys()...)
	for _, name := range advertised {
		if !t.membership.Has(name) {
			t.updates.Delete(name)
		}
	}
}

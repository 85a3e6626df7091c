// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tracker

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/constant"
)

type membership map[string]bool

func (m membership) Has(name string) bool { return m[name] }

func newTracker(t *testing.T) (*Tracker, *backend.MockPackageBackend, *backend.MockContainerBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	pkg := backend.NewMockPackageBackend(ctrl)
	ctr := backend.NewMockContainerBackend(ctrl)
	return New(Config{Package: pkg, Container: ctr}), pkg, ctr
}

func TestRefreshInstalledGlobalReplacesAndFilters(t *testing.T) {
	tr, pkg, ctr := newTracker(t)
	tr.SetMembership(membership{"alpha": true, "bravo": true, "rotel-bridge": true})

	pkg.EXPECT().ListInstalled(gomock.Any(), "").Return(map[string]string{
		"alpha":    "1.0.0",
		"orphaned": "0.1.0",
	}, nil)
	ctr.EXPECT().ListInstalled(gomock.Any(), "").Return(map[string]string{
		"rotel-bridge": "2.0.0",
		"alpha":        "9.9.9", // already owned by the package backend
	}, nil)

	missing, err := tr.RefreshInstalled(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	version, ok := tr.Installed("alpha")
	assert.True(t, ok)
	assert.Equal(t, "1.0.0", version)

	assert.True(t, tr.InstalledInContainer("rotel-bridge"))
	assert.False(t, tr.InstalledInContainer("alpha"))

	// Catalog filtering dropped the orphan.
	_, ok = tr.Installed("orphaned")
	assert.False(t, ok)
}

func TestRefreshInstalledScoped(t *testing.T) {
	errWrong := fmt.Errorf("something went wrong")

	tests := []struct {
		name        string
		setup       func(pkg *backend.MockPackageBackend)
		wantMissing []string
		wantErr     assert.ErrorAssertionFunc
		wantVersion string
		wantOk      bool
	}{
		{
			name: "entry replaced",
			setup: func(pkg *backend.MockPackageBackend) {
				pkg.EXPECT().ListInstalled(gomock.Any(), "alpha").Return(map[string]string{"alpha": "1.1.0"}, nil)
			},
			wantErr:     assert.NoError,
			wantVersion: "1.1.0",
			wantOk:      true,
		},
		{
			name: "entry removed when absent",
			setup: func(pkg *backend.MockPackageBackend) {
				pkg.EXPECT().ListInstalled(gomock.Any(), "alpha").Return(map[string]string{}, nil)
			},
			wantErr: assert.NoError,
			wantOk:  false,
		},
		{
			name: "failure preserves entry",
			setup: func(pkg *backend.MockPackageBackend) {
				pkg.EXPECT().ListInstalled(gomock.Any(), "alpha").Return(nil, errWrong)
			},
			wantErr:     assert.Error,
			wantVersion: "1.0.0",
			wantOk:      true,
		},
		{
			name: "missing peers is a retryable payload",
			setup: func(pkg *backend.MockPackageBackend) {
				pkg.EXPECT().ListInstalled(gomock.Any(), "alpha").
					Return(nil, &backend.PeerDependencyError{Missing: []string{"left-pad", "ws"}})
			},
			wantMissing: []string{"left-pad", "ws"},
			wantErr:     assert.NoError,
			wantVersion: "1.0.0",
			wantOk:      true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tr, pkg, ctr := newTracker(t)
			tr.SetMembership(membership{"alpha": true, "bravo": true})

			pkg.EXPECT().ListInstalled(gomock.Any(), "").Return(map[string]string{
				"alpha": "1.0.0",
				"bravo": "2.0.0",
			}, nil)
			ctr.EXPECT().ListInstalled(gomock.Any(), "").Return(nil, nil)
			_, err := tr.RefreshInstalled(context.Background(), "")
			assert.NoError(t, err)

			test.setup(pkg)

			missing, err := tr.RefreshInstalled(context.Background(), "alpha")
			test.wantErr(t, err)
			assert.Equal(t, test.wantMissing, missing)

			version, ok := tr.Installed("alpha")
			assert.Equal(t, test.wantOk, ok)
			if test.wantOk {
				assert.Equal(t, test.wantVersion, version)
			}

			// Unrelated entries survive a scoped refresh.
			version, ok = tr.Installed("bravo")
			assert.True(t, ok)
			assert.Equal(t, "2.0.0", version)
		})
	}
}

func TestRefreshUpdatesMergesAndExcludesManagerFromContainerScan(t *testing.T) {
	tr, pkg, ctr := newTracker(t)
	tr.SetMembership(membership{
		"alpha": true, "bravo": true, "rotel-bridge": true,
		constant.ManagerName: true,
	})

	pkg.EXPECT().ListInstalled(gomock.Any(), "").Return(map[string]string{"alpha": "1.0.0"}, nil)
	ctr.EXPECT().ListInstalled(gomock.Any(), "").Return(nil, nil)
	_, err := tr.RefreshInstalled(context.Background(), "")
	assert.NoError(t, err)

	pkg.EXPECT().ListOutdated(gomock.Any(), "").Return(map[string]string{"alpha": "2.0"}, nil)
	ctr.EXPECT().ListOutdated(gomock.Any(), "").Return(map[string]string{
		"rotel-bridge":       "3.0",
		constant.ManagerName: "9.0", // not authoritative for self-updates
		"unlisted":           "1.0",
	}, nil)

	assert.NoError(t, tr.RefreshUpdates(context.Background(), ""))

	wanted, ok := tr.Update("alpha")
	assert.True(t, ok)
	assert.Equal(t, "2.0", wanted)

	_, ok = tr.Update("rotel-bridge")
	assert.True(t, ok)

	_, ok = tr.Update(constant.ManagerName)
	assert.False(t, ok)

	_, ok = tr.Update("unlisted")
	assert.False(t, ok)
}

func TestRefreshUpdatesEmptyOutdatedFallback(t *testing.T) {
	tests := []struct {
		name        string
		installed   map[string]string
		wantAssumed bool
	}{
		{
			name:        "installed entries present",
			installed:   map[string]string{"alpha": "1.0.0"},
			wantAssumed: true,
		},
		{
			name:        "nothing installed",
			installed:   map[string]string{},
			wantAssumed: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tr, pkg, ctr := newTracker(t)
			tr.SetMembership(membership{"alpha": true})

			pkg.EXPECT().ListInstalled(gomock.Any(), "").Return(test.installed, nil)
			ctr.EXPECT().ListInstalled(gomock.Any(), "").Return(nil, nil)
			_, err := tr.RefreshInstalled(context.Background(), "")
			assert.NoError(t, err)

			pkg.EXPECT().ListOutdated(gomock.Any(), "alpha").Return(map[string]string{}, nil)
			ctr.EXPECT().ListOutdated(gomock.Any(), "").Return(nil, nil)

			assert.NoError(t, tr.RefreshUpdates(context.Background(), "alpha"))

			wanted, ok := tr.Update("alpha")
			assert.Equal(t, test.wantAssumed, ok)
			if test.wantAssumed {
				assert.Equal(t, "latest", wanted)
			}
		})
	}
}

func TestAdvertisedPreservesOrder(t *testing.T) {
	tr, _, _ := newTracker(t)

	tr.updates.Set("alpha", "2.0")
	tr.updates.Set("bravo", "1.5")
	tr.updates.Set("charlie", "3.0")

	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, tr.Advertised())
}

func TestForget(t *testing.T) {
	tr, pkg, ctr := newTracker(t)

	pkg.EXPECT().ListInstalled(gomock.Any(), "").Return(map[string]string{"alpha": "1.0.0"}, nil)
	ctr.EXPECT().ListInstalled(gomock.Any(), "").Return(nil, nil)
	_, err := tr.RefreshInstalled(context.Background(), "")
	assert.NoError(t, err)
	tr.updates.Set("alpha", "2.0")

	tr.Forget("alpha")

	_, ok := tr.Installed("alpha")
	assert.False(t, ok)
	_, ok = tr.Update("alpha")
	assert.False(t, ok)
}

// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manager

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/juju/fslock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/config"
	"github.com/fieldline/extman/constant"
	"github.com/fieldline/extman/fetch"
	"github.com/fieldline/extman/process"
	"github.com/fieldline/extman/relaunch"
	"github.com/fieldline/extman/scheduler"
	"github.com/fieldline/extman/types"
)

const (
	dataDir      = "/data"
	manifestPath = "/data/manifest.json"
	extName      = "some-ext"
)

type mocks struct {
	pkg    *backend.MockPackageBackend
	runner *process.MockRunner
	fetch  *fetch.MockClient
	fs     afero.Fs
}

func newTestManager(t *testing.T, ctrl *gomock.Controller) (*Manager, *mocks) {
	return newTestManagerCfg(t, ctrl, nil)
}

func newTestManagerCfg(t *testing.T, ctrl *gomock.Controller, mutate func(*Config)) (*Manager, *mocks) {
	m := &mocks{
		pkg:    backend.NewMockPackageBackend(ctrl),
		runner: process.NewMockRunner(ctrl),
		fetch:  fetch.NewMockClient(ctrl),
		fs:     afero.NewMemMapFs(),
	}
	m.runner.EXPECT().PrepareExit(gomock.Any()).AnyTimes()

	writeManifest(t, m.fs, types.Manifest{
		{
			DisplayName: "Utilities",
			Extensions: []types.Extension{
				{
					DisplayName: "Some Extension",
					Repository:  &types.Repository{Type: "git", URL: "https://github.com/Owner/" + extName + ".git"},
				},
			},
		},
	})

	cfg := Config{
		Fs:           m.fs,
		DataDir:      dataDir,
		MainManifest: manifestPath,
		Package:      m.pkg,
		Fetch:        m.fetch,
		Runner:       m.runner,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	mgr, err := New(cfg)
	require.NoError(t, err)
	return mgr, m
}

func writeManifest(t *testing.T, fs afero.Fs, manifest types.Manifest) {
	bytes, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, manifestPath, bytes, 0o644))
}

func TestUpdateAllOrder(t *testing.T) {
	tests := []struct {
		name       string
		advertised []string
		want       []string
	}{
		{
			name:       "system packages move last",
			advertised: []string{"ext-a", constant.ManagerName, "ext-b", constant.UpdaterName},
			want:       []string{"ext-a", "ext-b", constant.UpdaterName, constant.ManagerName},
		},
		{
			name:       "updater precedes manager",
			advertised: []string{constant.ManagerName, constant.UpdaterName},
			want:       []string{constant.UpdaterName, constant.ManagerName},
		},
		{
			name:       "no system packages advertised",
			advertised: []string{"ext-a", "ext-b"},
			want:       []string{"ext-a", "ext-b"},
		},
		{
			name:       "empty",
			advertised: nil,
			want:       []string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, updateAllOrder(test.advertised))
		})
	}
}

// A self-update never reaches the package backend; it ends in-process
// scheduling and surfaces the update-then-restart request instead.
func TestSelfUpdateDiverts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, _ := newTestManager(t, ctrl)

	err := mgr.Execute(context.Background(), &scheduler.Entry{
		Name: constant.ManagerName,
		Kind: scheduler.Update,
	})

	var relaunchErr *scheduler.RelaunchError
	require.ErrorAs(t, err, &relaunchErr)
	assert.Equal(t, relaunch.UpdateThenRestart, relaunchErr.Request)
}

func TestRestartDivertsWithoutUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, _ := newTestManager(t, ctrl)

	err := mgr.Execute(context.Background(), &scheduler.Entry{
		Name:    constant.ManagerName,
		Kind:    scheduler.Update,
		Payload: restartOnly{},
	})

	var relaunchErr *scheduler.RelaunchError
	require.ErrorAs(t, err, &relaunchErr)
	assert.Equal(t, relaunch.RestartOnly, relaunchErr.Request)
}

func TestUninstallForgets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, m := newTestManager(t, ctrl)

	m.pkg.EXPECT().ListInstalled(gomock.Any(), extName).Return(map[string]string{extName: "1.0.0"}, nil)
	_, err := mgr.tracker.RefreshInstalled(context.Background(), extName)
	require.NoError(t, err)
	require.NoError(t, mgr.SetLogging(extName, true))

	m.runner.EXPECT().Stop(extName, true).Return(nil)
	m.pkg.EXPECT().Uninstall(gomock.Any(), extName).Return(nil)

	err = mgr.Execute(context.Background(), &scheduler.Entry{
		Name: extName,
		Kind: scheduler.Uninstall,
	})
	require.NoError(t, err)

	_, installed := mgr.tracker.Installed(extName)
	assert.False(t, installed)
	assert.False(t, mgr.registry.Registered(extName))
}

func TestInstallRejectsUnknownExtension(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, _ := newTestManager(t, ctrl)

	assert.Error(t, mgr.Install(context.Background(), "never-published"))
}

// A finished repository-fragment job reloads the catalog, so fragments
// delivered by that update become installable immediately.
func TestRepositoryJobReloadsCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, m := newTestManager(t, ctrl)
	require.False(t, mgr.Catalog().Has("late-arrival"))

	writeManifest(t, m.fs, types.Manifest{
		{
			DisplayName: "Utilities",
			Extensions: []types.Extension{
				{
					DisplayName: "Late Arrival",
					Repository:  &types.Repository{Type: "git", URL: "https://github.com/Owner/late-arrival.git"},
				},
			},
		},
	})

	m.pkg.EXPECT().ListInstalled(gomock.Any(), constant.RepositoryName).Return(map[string]string{}, nil)
	mgr.onComplete(&scheduler.Entry{Name: constant.RepositoryName, Kind: scheduler.Update}, nil)

	assert.True(t, mgr.Catalog().Has("late-arrival"))
}

func TestStatusRollsUpViews(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, m := newTestManager(t, ctrl)

	m.pkg.EXPECT().ListInstalled(gomock.Any(), extName).Return(map[string]string{extName: "1.2.0"}, nil)
	_, err := mgr.tracker.RefreshInstalled(context.Background(), extName)
	require.NoError(t, err)
	require.NoError(t, mgr.SetLogging(extName, true))

	m.runner.EXPECT().Status(extName).Return(process.Running)

	status := mgr.Status(extName)
	assert.Equal(t, ExtensionStatus{
		Name:      extName,
		Installed: true,
		Version:   "1.2.0",
		Process:   process.Running,
		Logging:   true,
	}, status)
}

// A relaunch hands only the previously-running extensions to the next
// instance: installed extensions the user had stopped stay stopped.
func TestResumeRestartsOnlyPreviouslyRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, m := newTestManager(t, ctrl)
	ctx := context.Background()

	writeManifest(t, m.fs, types.Manifest{
		{
			DisplayName: "Utilities",
			Extensions: []types.Extension{
				{
					DisplayName: "Ext A",
					Repository:  &types.Repository{Type: "git", URL: "https://github.com/Owner/ext-a.git"},
				},
				{
					DisplayName: "Ext B",
					Repository:  &types.Repository{Type: "git", URL: "https://github.com/Owner/ext-b.git"},
				},
			},
		},
	})
	mgr.reloadCatalog()

	installed := map[string]string{"ext-a": "1.0.0", "ext-b": "1.0.0"}
	m.pkg.EXPECT().ListInstalled(gomock.Any(), "").Return(installed, nil).Times(2)
	m.pkg.EXPECT().ListOutdated(gomock.Any(), "").Return(map[string]string{}, nil).Times(2)
	require.NoError(t, mgr.Refresh(ctx))

	m.runner.EXPECT().Status("ext-a").Return(process.Running)
	m.runner.EXPECT().Status("ext-b").Return(process.Stopped)

	err := mgr.Execute(ctx, &scheduler.Entry{Name: constant.ManagerName, Kind: scheduler.Update})
	var relaunchErr *scheduler.RelaunchError
	require.ErrorAs(t, err, &relaunchErr)

	// The successor instance sees the persisted running set.
	successor, err := New(Config{
		Fs:           m.fs,
		DataDir:      dataDir,
		MainManifest: manifestPath,
		Package:      m.pkg,
		Fetch:        m.fetch,
		Runner:       m.runner,
	})
	require.NoError(t, err)

	m.runner.EXPECT().Start(gomock.Any(), "ext-a", "/data/node_modules/ext-a", process.IODiscard).Return(nil)
	require.NoError(t, successor.resume(ctx))
}

func TestManagerSelfLogRegistration(t *testing.T) {
	tests := []struct {
		name  string
		flags config.Flags
		want  bool
	}{
		{
			name:  "default captures manager output",
			flags: config.Flags{},
			want:  true,
		},
		{
			name:  "child_nodes restricts capture to children",
			flags: config.Flags{LogMode: config.LogModeChildren},
			want:  false,
		},
		{
			name:  "off disables capture",
			flags: config.Flags{LogMode: "off"},
			want:  false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mgr, _ := newTestManagerCfg(t, ctrl, func(cfg *Config) {
				cfg.Flags = test.flags
			})

			assert.Equal(t, test.want, mgr.registry.Registered(constant.ManagerName))
		})
	}
}

// A registration left over from an earlier log_mode is dropped when the
// restart diverts under the stricter mode.
func TestDivertAdjustsManagerLogRegistration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, _ := newTestManagerCfg(t, ctrl, func(cfg *Config) {
		cfg.Flags = config.Flags{LogMode: config.LogModeChildren}
	})
	require.NoError(t, mgr.registry.Enable(constant.ManagerName))

	err := mgr.Execute(context.Background(), &scheduler.Entry{
		Name: constant.ManagerName,
		Kind: scheduler.Update,
	})

	var relaunchErr *scheduler.RelaunchError
	require.ErrorAs(t, err, &relaunchErr)
	assert.False(t, mgr.registry.Registered(constant.ManagerName))
}

func TestJobTimeoutBoundsJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr, m := newTestManagerCfg(t, ctrl, func(cfg *Config) {
		cfg.JobTimeout = time.Minute
	})

	m.runner.EXPECT().Stop(extName, true).Return(nil)
	m.pkg.EXPECT().Uninstall(gomock.Any(), extName).DoAndReturn(
		func(ctx context.Context, _ string) error {
			_, bounded := ctx.Deadline()
			assert.True(t, bounded)
			return nil
		})

	require.NoError(t, mgr.Execute(context.Background(), &scheduler.Entry{
		Name: extName,
		Kind: scheduler.Uninstall,
	}))
}

func TestRelaunchReleasesInstanceLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lockPath := filepath.Join(t.TempDir(), "instance.lock")
	mgr, _ := newTestManagerCfg(t, ctrl, func(cfg *Config) {
		cfg.LockPath = lockPath
	})

	contender := fslock.New(lockPath)
	require.Error(t, contender.TryLock())

	mgr.onRelaunch(relaunch.RestartOnly)

	assert.NoError(t, contender.TryLock())
	select {
	case req := <-mgr.relaunchCh:
		assert.Equal(t, relaunch.RestartOnly, req)
	default:
		t.Fatal("no relaunch request surfaced")
	}
}

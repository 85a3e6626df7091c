// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package manager is the supervisor core. It owns the catalog, the
// installed/update tracker, the action queue and the per-extension log
// registrations, and it drives every mutating operation through the
// scheduler's single worker.
package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/juju/fslock"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/backup"
	"github.com/fieldline/extman/catalog"
	"github.com/fieldline/extman/config"
	"github.com/fieldline/extman/constant"
	"github.com/fieldline/extman/fetch"
	"github.com/fieldline/extman/logging"
	"github.com/fieldline/extman/metrics"
	"github.com/fieldline/extman/process"
	"github.com/fieldline/extman/relaunch"
	"github.com/fieldline/extman/scheduler"
	"github.com/fieldline/extman/tracker"
	"github.com/fieldline/extman/types"
	"github.com/fieldline/extman/workflow"
)

var _ scheduler.Executor = &Manager{}

// restartOnly marks an Update entry for the manager's own name as a plain
// restart, so the relauncher skips the package update step.
type restartOnly struct{}

type Config struct {
	Fs afero.Fs
	// DataDir is the root of the manager's state: extensions live under
	// node_modules, log files under logs, update backups under backups.
	DataDir string
	// LockPath guards against a second manager instance on the same data
	// dir. Empty disables the lock.
	LockPath string

	MainManifest string
	FragmentsDir string

	Flags     config.Flags
	Package   backend.PackageBackend
	Container backend.ContainerBackend // nil when no container runtime was detected
	Fetch     fetch.Client
	Notifier  scheduler.Notifier

	// Runner overrides the default exec-based process runner; used by
	// tests.
	Runner process.Runner
	// Command is the argv extensions are started with when Runner is not
	// overridden.
	Command []string

	// AutoUpdateInterval is the period of the bulk update scan. Zero
	// disables the scan regardless of the auto_update flag.
	AutoUpdateInterval time.Duration
	// JobTimeout bounds each queued job's execution. Zero leaves jobs
	// unbounded.
	JobTimeout time.Duration
}

type Manager struct {
	fs         afero.Fs
	dataDir    string
	resumePath string
	flags      config.Flags
	pkg        backend.PackageBackend
	ctr        backend.ContainerBackend
	notifier   scheduler.Notifier
	interval   time.Duration
	jobTimeout time.Duration
	log        *logrus.Entry

	lock        *fslock.Lock
	builder     *catalog.Builder
	tracker     *tracker.Tracker
	registry    *logging.Registry
	archiver    *backup.Archiver
	postInstall *workflow.PostInstall
	workflows   workflow.Executor
	runner      process.Runner
	scheduler   *scheduler.Scheduler

	mu      sync.RWMutex
	catalog *catalog.Catalog

	relaunchCh chan relaunch.Request
}

func New(cfg Config) (*Manager, error) {
	if cfg.Package == nil {
		return nil, errors.New("a package backend is required")
	}

	m := &Manager{
		fs:         cfg.Fs,
		dataDir:    cfg.DataDir,
		resumePath: filepath.Join(cfg.DataDir, "resume.json"),
		flags:      cfg.Flags,
		pkg:        cfg.Package,
		ctr:        cfg.Container,
		notifier:   cfg.Notifier,
		interval:   cfg.AutoUpdateInterval,
		jobTimeout: cfg.JobTimeout,
		log:        logrus.WithField("component", "manager"),
		relaunchCh: make(chan relaunch.Request, 1),
	}

	if cfg.LockPath != "" {
		lock := fslock.New(cfg.LockPath)
		if err := lock.TryLock(); err != nil {
			return nil, fmt.Errorf("another instance holds %s: %w", cfg.LockPath, err)
		}
		m.lock = lock
	}

	registry, err := logging.NewRegistry(logging.RegistryConfig{
		Fs:        cfg.Fs,
		Dir:       filepath.Join(cfg.DataDir, "logs"),
		StatePath: filepath.Join(cfg.DataDir, "logging.json"),
	})
	if err != nil {
		return nil, err
	}
	m.registry = registry

	// The manager's own output is captured alongside its children unless
	// log_mode restricts capture to children only.
	if cfg.Flags.ManagerLoggingEnabled() {
		if err := registry.Enable(constant.ManagerName); err != nil {
			m.log.WithError(err).Warn("cannot capture manager output")
		} else {
			logrus.AddHook(&selfLogHook{registry: registry})
		}
	}

	m.archiver = backup.NewArchiver(backup.ArchiverConfig{
		Fs:         cfg.Fs,
		BackupsDir: filepath.Join(cfg.DataDir, "backups"),
	})

	builderCfg := catalog.BuilderConfig{
		Fs:                cfg.Fs,
		MainManifest:      cfg.MainManifest,
		FragmentsDir:      cfg.FragmentsDir,
		Flags:             cfg.Flags,
		ContainerDetected: cfg.Container != nil,
	}
	if cfg.Container != nil {
		builderCfg.Namer = cfg.Container
	}
	m.builder = catalog.NewBuilder(builderCfg)

	m.tracker = tracker.New(tracker.Config{
		Package:   cfg.Package,
		Container: cfg.Container,
	})

	m.postInstall = workflow.NewPostInstall(workflow.PostInstallConfig{
		Tracker: m.tracker,
		Package: cfg.Package,
		Fetch:   cfg.Fetch,
		Fs:      cfg.Fs,
	})
	m.workflows = workflow.NewExecutor()

	if cfg.Runner != nil {
		m.runner = cfg.Runner
	} else {
		m.runner = process.NewExecRunner(process.ExecRunnerConfig{
			Command: cfg.Command,
			Sink:    m.registry.Writer,
			OnExit:  m.onProcessExit,
		})
	}
	m.runner.PrepareExit(func() {
		_ = m.registry.Close()
	})

	m.scheduler = scheduler.New(scheduler.Config{
		Executor:   m,
		Notifier:   cfg.Notifier,
		OnComplete: m.onComplete,
		OnRelaunch: m.onRelaunch,
	})

	m.reloadCatalog()
	return m, nil
}

// Install queues an install for a catalog extension.
func (m *Manager) Install(ctx context.Context, name string) error {
	if !m.Catalog().Has(name) {
		return fmt.Errorf("%s is not in the catalog", name)
	}
	m.scheduler.Enqueue(ctx, name, scheduler.Job{Kind: scheduler.Install})
	return nil
}

// Update queues an update for an installed extension. Updating the manager
// itself diverts into the relaunch protocol when the job runs.
func (m *Manager) Update(ctx context.Context, name string) error {
	if _, ok := m.tracker.Installed(name); !ok {
		return fmt.Errorf("%s is not installed", name)
	}
	m.scheduler.Enqueue(ctx, name, scheduler.Job{Kind: scheduler.Update})
	return nil
}

// Uninstall queues an uninstall for an installed extension.
func (m *Manager) Uninstall(ctx context.Context, name string) error {
	if name == constant.ManagerName {
		return errors.New("the manager cannot uninstall itself")
	}
	if _, ok := m.tracker.Installed(name); !ok {
		return fmt.Errorf("%s is not installed", name)
	}
	m.scheduler.Enqueue(ctx, name, scheduler.Job{Kind: scheduler.Uninstall})
	return nil
}

// UpdateAll queues updates for every advertised extension: advertisement
// order first, then the updater, then the manager itself, so the
// self-update's relaunch cannot starve a batch-mate.
func (m *Manager) UpdateAll(ctx context.Context) {
	for _, name := range updateAllOrder(m.tracker.Advertised()) {
		m.scheduler.Enqueue(ctx, name, scheduler.Job{Kind: scheduler.Update})
	}
}

// Restart queues a relaunch of the manager without a package update.
func (m *Manager) Restart(ctx context.Context) {
	m.scheduler.Enqueue(ctx, constant.ManagerName, scheduler.Job{
		Kind:    scheduler.Update,
		Payload: restartOnly{},
	})
}

// SetLogging toggles output capture for a name. Attaching takes effect the
// next time the extension's process starts.
func (m *Manager) SetLogging(name string, enabled bool) error {
	if enabled {
		return m.registry.Enable(name)
	}
	return m.registry.Disable(name)
}

// Catalog returns the current merged catalog.
func (m *Manager) Catalog() *catalog.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog
}

// Tracker exposes the read side of installed/update state.
func (m *Manager) Tracker() *tracker.Tracker {
	return m.tracker
}

// ExtensionStatus is the rolled-up view of one extension.
type ExtensionStatus struct {
	Name      string
	Installed bool
	Version   string
	Update    string
	Process   process.Status
	Logging   bool
}

func (m *Manager) Status(name string) ExtensionStatus {
	status := ExtensionStatus{
		Name:    name,
		Process: m.runner.Status(name),
		Logging: m.registry.Registered(name),
	}
	status.Version, status.Installed = m.tracker.Installed(name)
	status.Update, _ = m.tracker.Update(name)
	return status
}

// Refresh re-queries installed state and advertised updates across both
// backends.
func (m *Manager) Refresh(ctx context.Context) error {
	if _, err := m.tracker.RefreshInstalled(ctx, ""); err != nil {
		return err
	}
	return m.tracker.RefreshUpdates(ctx, "")
}

// Wait blocks until the action queue drains.
func (m *Manager) Wait(ctx context.Context) error {
	return m.scheduler.Wait(ctx)
}

// Run resumes installed extensions and blocks until the context ends or a
// job diverts into the relaunch protocol. The returned request tells the
// entry point which reserved exit status to use.
func (m *Manager) Run(ctx context.Context) (relaunch.Request, error) {
	if err := m.resume(ctx); err != nil {
		return relaunch.None, err
	}

	var scan <-chan time.Time
	if m.flags.AutoUpdateEnabled() && m.interval > 0 {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		scan = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return relaunch.None, nil

		case req := <-m.relaunchCh:
			return req, nil

		case <-scan:
			if err := m.tracker.RefreshUpdates(ctx, ""); err != nil {
				m.log.WithError(err).Warn("update scan failed")
				continue
			}
			m.UpdateAll(ctx)
		}
	}
}

// resume restarts exactly the extensions that were running in the previous
// instance, with their last-known logging preference. Installed extensions
// the user had stopped stay stopped across a relaunch.
func (m *Manager) resume(ctx context.Context) error {
	if err := m.Refresh(ctx); err != nil {
		return err
	}

	installed := m.tracker.InstalledAll()
	for _, name := range m.loadRunning() {
		if name == constant.ManagerName || name == constant.RepositoryName {
			continue
		}
		if _, ok := installed[name]; !ok {
			continue
		}
		if err := m.runner.Start(ctx, name, m.workingDir(name), m.ioModeFor(name)); err != nil {
			m.log.WithError(err).WithField("extension", name).Warn("resume failed")
		}
	}
	return nil
}

// saveRunning persists the names whose processes are running right now.
func (m *Manager) saveRunning() error {
	running := []string{}
	for name := range m.tracker.InstalledAll() {
		if name == constant.ManagerName || name == constant.RepositoryName {
			continue
		}
		if m.runner.Status(name) == process.Running {
			running = append(running, name)
		}
	}
	sort.Strings(running)

	bytes, err := json.Marshal(running)
	if err != nil {
		return err
	}
	if err := m.fs.MkdirAll(m.dataDir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(m.fs, m.resumePath, bytes, 0o644)
}

func (m *Manager) loadRunning() []string {
	bytes, err := afero.ReadFile(m.fs, m.resumePath)
	if err != nil {
		return nil
	}

	var names []string
	if err := json.Unmarshal(bytes, &names); err != nil {
		m.log.WithError(err).Warn("resume list unreadable")
		return nil
	}
	return names
}

func (m *Manager) shutdown() {
	if err := m.saveRunning(); err != nil {
		m.log.WithError(err).Warn("persisting the running set failed")
	}
	if err := m.registry.Close(); err != nil {
		m.log.WithError(err).Warn("flushing log registrations failed")
	}
	if m.lock != nil {
		_ = m.lock.Unlock()
	}
}

// Execute runs one queued job. This is the scheduler's executor: exactly
// one invocation is in flight at any time.
func (m *Manager) Execute(ctx context.Context, entry *scheduler.Entry) error {
	if m.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.jobTimeout)
		defer cancel()
	}

	switch entry.Kind {
	case scheduler.Install:
		return m.install(ctx, entry.Name)
	case scheduler.Update:
		if entry.Name == constant.ManagerName {
			return m.divert(entry)
		}
		return m.update(ctx, entry.Name)
	case scheduler.Uninstall:
		return m.uninstall(ctx, entry.Name)
	default:
		return fmt.Errorf("unknown job kind %d", entry.Kind)
	}
}

// divert ends in-process scheduling for a self-update or restart. The
// backend is never asked to update the manager's own package; the external
// relauncher applies it after this process exits. The running set and the
// log registrations are persisted here so the relaunched instance resumes
// exactly them.
func (m *Manager) divert(entry *scheduler.Entry) error {
	req := relaunch.UpdateThenRestart
	if _, ok := entry.Payload.(restartOnly); ok {
		req = relaunch.RestartOnly
	}

	// The manager's own registration is adjusted first in case log_mode
	// changed under this restart.
	if m.flags.ManagerLoggingEnabled() {
		if err := m.registry.Enable(constant.ManagerName); err != nil {
			m.log.WithError(err).Warn("adjusting manager log registration failed")
		}
	} else if err := m.registry.Disable(constant.ManagerName); err != nil {
		m.log.WithError(err).Warn("adjusting manager log registration failed")
	}

	if err := m.saveRunning(); err != nil {
		m.log.WithError(err).Warn("persisting the running set failed")
	}
	if err := m.registry.Flush(); err != nil {
		m.log.WithError(err).Warn("flushing log registrations failed")
	}
	m.registry.Detach(constant.ManagerName)

	return &scheduler.RelaunchError{Request: req}
}

func (m *Manager) install(ctx context.Context, name string) error {
	ext, b, source, err := m.resolve(name)
	if err != nil {
		return err
	}

	return m.workflows.Execute(ctx, workflow.NewInstall(workflow.InstallConfig{
		Name:        name,
		Extension:   ext,
		Source:      source,
		Backend:     b,
		Runner:      m.runner,
		PostInstall: m.postInstall,
		WorkingDir:  m.workingDir(name),
		IOMode:      m.ioModeFor(name),
	}))
}

func (m *Manager) update(ctx context.Context, name string) error {
	ext, _, _, err := m.resolve(name)
	if err != nil {
		return err
	}

	return m.workflows.Execute(ctx, workflow.NewUpdate(workflow.UpdateConfig{
		Name:        name,
		Extension:   ext,
		Backend:     m.backendFor(name),
		Runner:      m.runner,
		Archiver:    m.archiver,
		PostInstall: m.postInstall,
		WorkingDir:  m.workingDir(name),
		IOMode:      m.ioModeFor(name),
	}))
}

func (m *Manager) uninstall(ctx context.Context, name string) error {
	return m.workflows.Execute(ctx, workflow.NewUninstall(workflow.UninstallConfig{
		Name:    name,
		Backend: m.backendFor(name),
		Runner:  m.runner,
		Forget: func(name string) error {
			m.tracker.Forget(name)
			return m.registry.Disable(name)
		},
	}))
}

// resolve maps a catalog name to its extension, backend and install
// source.
func (m *Manager) resolve(name string) (types.Extension, backend.Backend, string, error) {
	ext, _, ok := m.Catalog().Lookup(name)
	if !ok {
		return types.Extension{}, nil, "", fmt.Errorf("%s is not in the catalog", name)
	}

	switch ext.Kind() {
	case types.SourceRepository:
		return ext, m.pkg, ext.Repository.URL, nil
	case types.SourceImage:
		if m.ctr == nil {
			return types.Extension{}, nil, "", fmt.Errorf("%s requires the container backend", name)
		}
		return ext, m.ctr, ext.Image, nil
	default:
		return types.Extension{}, nil, "", fmt.Errorf("%s has no install source", name)
	}
}

func (m *Manager) backendFor(name string) backend.Backend {
	if m.ctr != nil && m.tracker.InstalledInContainer(name) {
		return m.ctr
	}
	return m.pkg
}

func (m *Manager) workingDir(name string) string {
	return filepath.Join(m.dataDir, "node_modules", name)
}

func (m *Manager) ioModeFor(name string) process.IOMode {
	if !m.flags.LoggingEnabled() || !m.registry.Registered(name) {
		return process.IODiscard
	}
	if err := m.registry.Resume(name); err != nil {
		m.log.WithError(err).WithField("extension", name).Warn("cannot reopen log")
		return process.IODiscard
	}
	return process.IOCapture
}

// onComplete runs between a finished entry and the next dispatch. Installed
// state is re-queried so the next job sees the result, and a finished
// repository-fragment job reloads the catalog.
func (m *Manager) onComplete(entry *scheduler.Entry, err error) {
	if entry.Kind != scheduler.Uninstall {
		if _, refreshErr := m.tracker.RefreshInstalled(context.Background(), entry.Name); refreshErr != nil {
			m.log.WithError(refreshErr).WithField("extension", entry.Name).Warn("post-job refresh failed")
		}
	}

	if err == nil && entry.Name == constant.RepositoryName && entry.Kind != scheduler.Uninstall {
		m.reloadCatalog()
	}
}

func (m *Manager) reloadCatalog() {
	c, err := m.builder.Load()
	if errors.Is(err, catalog.ErrRepositoryNotFound) {
		m.log.Warn("extension repository not found, catalog is empty")
	} else if err != nil {
		m.log.WithError(err).Warn("catalog load failed")
	}

	m.mu.Lock()
	m.catalog = c
	m.mu.Unlock()

	m.tracker.SetMembership(c)
}

// onRelaunch runs once when a job diverts. The same teardown as an
// ordinary stop applies, including releasing the instance lock: the
// relauncher may start the successor before this process is fully gone.
func (m *Manager) onRelaunch(req relaunch.Request) {
	m.shutdown()

	select {
	case m.relaunchCh <- req:
	default:
	}
}

// onProcessExit classifies child terminations. SIGTERM's conventional exit
// status is the expected shape of a stop; anything else that was not
// user-initiated is surfaced as an unexpected termination.
func (m *Manager) onProcessExit(name string, ev process.ExitEvent) {
	m.registry.Detach(name)

	if ev.UserInitiated || ev.Code == 0 || ev.Code == constant.ExpectedTerminationCode {
		return
	}

	metrics.UnexpectedExits.Inc()
	m.log.WithFields(logrus.Fields{
		"extension": name,
		"code":      ev.Code,
		"signal":    ev.Signal,
	}).Error("extension terminated unexpectedly")

	if m.notifier != nil {
		m.notifier.Notify(name, fmt.Errorf("%s terminated unexpectedly with status %d", name, ev.Code))
	}
}

func updateAllOrder(advertised []string) []string {
	ordered := make([]string, 0, len(advertised))
	var updater, manager bool
	for _, name := range advertised {
		switch name {
		case constant.UpdaterName:
			updater = true
		case constant.ManagerName:
			manager = true
		default:
			ordered = append(ordered, name)
		}
	}
	// The updater updates before the manager so a fresh updater applies
	// the manager's package after the relaunch exit.
	if updater {
		ordered = append(ordered, constant.UpdaterName)
	}
	if manager {
		ordered = append(ordered, constant.ManagerName)
	}
	return ordered
}

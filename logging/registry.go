// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging owns the per-extension log descriptors and the persisted
// list of names configured to capture output.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type RegistryConfig struct {
	Fs afero.Fs
	// Dir holds the per-extension log files.
	Dir string
	// StatePath is the JSON list of names with logging configured,
	// rewritten whole on every change and on shutdown.
	StatePath string
}

// Registry maps extension names to their log destinations. A name maps to
// an open descriptor, to "detached" (closed for now, remembered for
// resume), or is absent, meaning it never logs.
type Registry struct {
	fs        afero.Fs
	dir       string
	statePath string
	log       *logrus.Entry

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	file afero.File // nil while detached
}

func NewRegistry(config RegistryConfig) (*Registry, error) {
	r := &Registry{
		fs:        config.Fs,
		dir:       config.Dir,
		statePath: config.StatePath,
		log:       logrus.WithField("component", "logging"),
		entries:   make(map[string]*entry),
	}

	names, err := r.loadState()
	if err != nil {
		return nil, err
	}
	// Registered names start detached; Resume opens their descriptors
	// once their processes start.
	for _, name := range names {
		r.entries[name] = &entry{}
	}

	return r, nil
}

func (r *Registry) loadState() ([]string, error) {
	bytes, err := afero.ReadFile(r.fs, r.statePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(bytes, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Registered reports whether the name captures output at all.
func (r *Registry) Registered(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[name]
	return ok
}

// Writer returns the open destination for a name, or nil when the name is
// detached or never logs.
func (r *Registry) Writer(name string) io.Writer {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok || e.file == nil {
		return nil
	}
	return e.file
}

// Enable registers the name and opens its append-only descriptor.
func (r *Registry) Enable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		e = &entry{}
		r.entries[name] = e
	}
	if e.file != nil {
		return nil
	}

	if err := r.openLocked(name, e); err != nil {
		return err
	}
	return r.flushLocked()
}

// Disable closes and forgets the name entirely.
func (r *Registry) Disable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return nil
	}
	if e.file != nil {
		_ = e.file.Close()
	}
	delete(r.entries, name)
	return r.flushLocked()
}

// Detach closes the descriptor but keeps the registration, so the name
// resumes logging after its process restarts.
func (r *Registry) Detach(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok && e.file != nil {
		_ = e.file.Close()
		e.file = nil
	}
}

// Resume reopens a detached descriptor. Unknown names stay absent.
func (r *Registry) Resume(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok || e.file != nil {
		return nil
	}
	return r.openLocked(name, e)
}

func (r *Registry) openLocked(name string, e *entry) error {
	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}

	f, err := r.fs.OpenFile(filepath.Join(r.dir, name+".log"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	e.file = f
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flush rewrites the persisted name list.
func (r *Registry) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *Registry) flushLocked() error {
	bytes, err := json.Marshal(r.namesLocked())
	if err != nil {
		return err
	}

	if err := r.fs.MkdirAll(filepath.Dir(r.statePath), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(r.fs, r.statePath, bytes, 0o644)
}

// Close detaches every descriptor and flushes the list; called on process
// exit, including the self-update detach.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.file != nil {
			_ = e.file.Close()
			e.file = nil
		}
	}
	return r.flushLocked()
}

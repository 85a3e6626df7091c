// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package catalog merges the system, main and local manifest fragments into
// the filtered set of installable extensions.
package catalog

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/fieldline/extman/config"
	"github.com/fieldline/extman/constant"
	"github.com/fieldline/extman/types"
)

// ErrRepositoryNotFound reports an unreadable main manifest. The catalog is
// treated as empty and the load is retried on the next repository update.
var ErrRepositoryNotFound = errors.New("extension repository not found")

// Position locates an extension inside the catalog.
type Position struct {
	Category  int
	Extension int
}

// Catalog is the merged, filtered extension list plus a lazily built
// name → position index. A reload produces a fresh Catalog, which discards
// the index.
type Catalog struct {
	mu         sync.Mutex
	categories []types.Category
	names      map[Position]string
	index      map[string]Position
}

// Categories returns the display titles in catalog order.
func (c *Catalog) Categories() []string {
	titles := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		titles = append(titles, cat.DisplayName)
	}
	return titles
}

// Extensions returns the extensions of one category.
func (c *Catalog) Extensions(category int) []types.Extension {
	if category < 0 || category >= len(c.categories) {
		return nil
	}
	return c.categories[category].Extensions
}

// Lookup finds an extension by name. The index is computed by a full linear
// scan on the first miss and memoized for the catalog's lifetime.
func (c *Catalog) Lookup(name string) (types.Extension, Position, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		c.buildIndex()
	}

	pos, ok := c.index[name]
	if !ok {
		return types.Extension{}, Position{}, false
	}
	return c.categories[pos.Category].Extensions[pos.Extension], pos, true
}

// Has reports catalog membership.
func (c *Catalog) Has(name string) bool {
	_, _, ok := c.Lookup(name)
	return ok
}

// Names returns every indexed extension name, sorted.
func (c *Catalog) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		c.buildIndex()
	}

	names := make([]string, 0, len(c.index))
	for name := range c.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) buildIndex() {
	c.index = make(map[string]Position)
	for i, cat := range c.categories {
		for j := range cat.Extensions {
			pos := Position{Category: i, Extension: j}
			name := c.names[pos]
			if name == "" {
				continue
			}
			c.index[name] = pos
		}
	}
}

// Namer derives extension names for image references. The container backend
// provides it; a nil Namer excludes image entries from lookups.
type Namer interface {
	NameFromImage(ref string) (string, error)
}

type BuilderConfig struct {
	Fs           afero.Fs
	MainManifest string
	FragmentsDir string
	Flags        config.Flags
	// ContainerDetected reports whether a container runtime is present;
	// image entries are kept only when it is and the backend is enabled.
	ContainerDetected bool
	Namer             Namer
}

// Builder loads catalogs. It is reused across reloads.
type Builder struct {
	fs           afero.Fs
	mainManifest string
	fragmentsDir string
	flags        config.Flags
	container    bool
	namer        Namer
	log          *logrus.Entry
}

func NewBuilder(config BuilderConfig) *Builder {
	return &Builder{
		fs:           config.Fs,
		mainManifest: config.MainManifest,
		fragmentsDir: config.FragmentsDir,
		flags:        config.Flags,
		container:    config.ContainerDetected && config.Flags.ContainerEnabled(),
		namer:        config.Namer,
		log:          logrus.WithField("component", "catalog"),
	}
}

// Load builds a fresh catalog. An unreadable main manifest yields an empty
// catalog and ErrRepositoryNotFound; unreadable or unparseable fragments are
// skipped silently apart from a warning.
func (b *Builder) Load() (*Catalog, error) {
	merged := &merger{
		flags:     b.flags,
		container: b.container,
		namer:     b.namer,
	}

	merged.add(systemManifest())

	main, err := b.readManifest(b.mainManifest)
	if err != nil {
		b.log.WithError(err).Warn("main manifest unreadable")
		return merged.catalog(), ErrRepositoryNotFound
	}
	merged.add(main)

	for _, path := range b.fragmentPaths() {
		fragment, err := b.readManifest(path)
		if err != nil {
			b.log.WithError(err).WithField("fragment", path).Warn("skipping fragment")
			continue
		}
		merged.add(fragment)
	}

	return merged.catalog(), nil
}

func (b *Builder) readManifest(path string) (types.Manifest, error) {
	bytes, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return nil, err
	}

	var manifest types.Manifest
	if err := json.Unmarshal(bytes, &manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (b *Builder) fragmentPaths() []string {
	if b.fragmentsDir == "" {
		return nil
	}
	paths, err := afero.Glob(b.fs, filepath.Join(b.fragmentsDir, "*.json"))
	if err != nil {
		return nil
	}
	sort.Strings(paths)
	return paths
}

// systemManifest is the built-in category holding the manager, its updater
// and the repository-fragment package.
func systemManifest() types.Manifest {
	return types.Manifest{
		{
			DisplayName: constant.SystemCategory,
			Extensions: []types.Extension{
				{
					DisplayName: "Extension Manager",
					Repository:  &types.Repository{Type: "git", URL: constant.ManagerURL},
				},
				{
					DisplayName: "Extension Updater",
					Repository:  &types.Repository{Type: "git", URL: constant.UpdaterURL},
				},
				{
					DisplayName: "Extension Repository",
					Repository:  &types.Repository{Type: "git", URL: constant.RepositoryURL},
				},
			},
		},
	}
}

// merger applies the combine rules: categories merge by exact display name,
// extensions append in source order, disabled install-source kinds and
// duplicate names are dropped, and categories left empty disappear.
type merger struct {
	flags     config.Flags
	container bool
	namer     Namer

	categories []types.Category
	byTitle    map[string]int
	seen       map[string]Position
	names      map[Position]string
}

func (m *merger) add(manifest types.Manifest) {
	if m.byTitle == nil {
		m.byTitle = make(map[string]int)
		m.seen = make(map[string]Position)
		m.names = make(map[Position]string)
	}

	for _, category := range manifest {
		for _, ext := range category.Extensions {
			if !m.enabled(ext) {
				continue
			}

			name := m.nameOf(ext)
			if name != "" {
				if pos, dup := m.seen[name]; dup {
					// Names are unique within the catalog; the first
					// occurrence wins unless the container backend is
					// preferred and this is its entry.
					if ext.Kind() == types.SourceImage && m.flags.ContainerPreferred() {
						m.categories[pos.Category].Extensions[pos.Extension] = ext
					}
					continue
				}
			}

			i, ok := m.byTitle[category.DisplayName]
			if !ok {
				i = len(m.categories)
				m.byTitle[category.DisplayName] = i
				m.categories = append(m.categories, types.Category{DisplayName: category.DisplayName})
			}

			m.categories[i].Extensions = append(m.categories[i].Extensions, ext)
			if name != "" {
				pos := Position{Category: i, Extension: len(m.categories[i].Extensions) - 1}
				m.seen[name] = pos
				m.names[pos] = name
			}
		}
	}
}

func (m *merger) enabled(ext types.Extension) bool {
	switch ext.Kind() {
	case types.SourceRepository:
		return m.flags.PackageInstallsEnabled()
	case types.SourceImage:
		return m.container
	default:
		return false
	}
}

func (m *merger) nameOf(ext types.Extension) string {
	if ext.Kind() == types.SourceImage {
		if m.namer == nil {
			return ""
		}
		name, err := m.namer.NameFromImage(ext.Image)
		if err != nil {
			return ""
		}
		return name
	}
	return ext.Name()
}

func (m *merger) catalog() *Catalog {
	return &Catalog{
		categories: m.categories,
		names:      m.names,
	}
}

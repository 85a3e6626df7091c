// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/fieldline/extman/util"
)

// SourceKind says how an extension is installed.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	// SourceRepository installs through the package backend from a
	// source-control URL.
	SourceRepository
	// SourceImage installs through the container backend from an image
	// reference.
	SourceImage
)

// Repository is a source-control install source.
type Repository struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Extension describes one installable add-on. Exactly one of Repository and
// Image is set.
type Extension struct {
	Author      string      `json:"author,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	Description string      `json:"description,omitempty"`
	Packager    string      `json:"packager,omitempty"`
	Repository  *Repository `json:"repository,omitempty"`
	Image       string      `json:"image,omitempty"`
}

func (e Extension) Kind() SourceKind {
	switch {
	case e.Repository != nil && e.Repository.URL != "":
		return SourceRepository
	case e.Image != "":
		return SourceImage
	default:
		return SourceUnknown
	}
}

// Name derives the extension's identity from its install source. Image-based
// extensions are named by the container backend, so Name returns "" for them
// here; callers with a backend use that instead.
func (e Extension) Name() string {
	if e.Kind() != SourceRepository {
		return ""
	}
	return util.NameFromRepository(e.Repository.URL)
}

// Branch resolves the source branch used when fetching the extension's
// ignore-file.
func (e Extension) Branch() plumbing.ReferenceName {
	if e.Kind() != SourceRepository {
		return plumbing.NewBranchReferenceName("master")
	}
	return util.BranchFromRepository(e.Repository.URL)
}

// Category is one display group of a manifest.
type Category struct {
	DisplayName string      `json:"display_name"`
	Extensions  []Extension `json:"extensions"`
}

// Manifest is the on-disk catalog fragment format: an ordered array of
// categories.
type Manifest []Category

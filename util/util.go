// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package util

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/fieldline/extman/constant"
)

// NameFromRepository derives an extension name from a source-control URL of
// the form https://host/owner/slug.git[#branch]. It returns "" for anything
// it cannot parse; callers exclude such entries from lookups.
func NameFromRepository(repoURL string) string {
	raw, _ := splitBranch(repoURL)

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}

	slug := parts[len(parts)-1]
	slug = strings.TrimSuffix(slug, ".git")
	if slug == "" {
		return ""
	}

	return slug
}

// BranchFromRepository resolves the branch carried in a #branch URL suffix,
// defaulting to master.
func BranchFromRepository(repoURL string) plumbing.ReferenceName {
	_, branch := splitBranch(repoURL)
	if branch == "" {
		branch = constant.DefaultBranch
	}
	return plumbing.NewBranchReferenceName(branch)
}

// IgnoreFileURL builds the raw-file URL for an extension's ignore-file on
// its source host.
func IgnoreFileURL(repoURL string) (string, error) {
	raw, _ := splitBranch(repoURL)
	base := strings.TrimSuffix(raw, ".git")

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("cannot derive ignore-file location from %q", repoURL)
	}

	branch := BranchFromRepository(repoURL).Short()
	return fmt.Sprintf("%s/raw/%s/%s", base, branch, constant.IgnoreFile), nil
}

func splitBranch(repoURL string) (raw, branch string) {
	if i := strings.LastIndex(repoURL, "#"); i >= 0 {
		return repoURL[:i], repoURL[i+1:]
	}
	return repoURL, ""
}

// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameFromRepository(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain",
			url:  "https://github.com/Owner/some-ext.git",
			want: "some-ext",
		},
		{
			name: "branch suffix stripped",
			url:  "https://github.com/Owner/some-ext.git#dev",
			want: "some-ext",
		},
		{
			name: "no git suffix",
			url:  "https://gitlab.com/owner/tool",
			want: "tool",
		},
		{
			name: "missing owner segment",
			url:  "https://github.com/some-ext.git",
			want: "",
		},
		{
			name: "not a url",
			url:  "::/not-a-url",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, NameFromRepository(test.url))
		})
	}
}

func TestBranchFromRepository(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "explicit branch",
			url:  "https://github.com/Owner/some-ext.git#dev",
			want: "dev",
		},
		{
			name: "default branch",
			url:  "https://github.com/Owner/some-ext.git",
			want: "master",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, BranchFromRepository(test.url).Short())
		})
	}
}

func TestIgnoreFileURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "default branch",
			url:     "https://github.com/Owner/some-ext.git",
			want:    "https://github.com/Owner/some-ext/raw/master/.npmignore",
			wantErr: assert.NoError,
		},
		{
			name:    "explicit branch",
			url:     "https://github.com/Owner/some-ext.git#dev",
			want:    "https://github.com/Owner/some-ext/raw/dev/.npmignore",
			wantErr: assert.NoError,
		},
		{
			name:    "unparseable",
			url:     "::/not-a-url",
			want:    "",
			wantErr: assert.Error,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := IgnoreFileURL(test.url)
			test.wantErr(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

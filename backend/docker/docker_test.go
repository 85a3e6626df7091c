// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromImage(t *testing.T) {
	tests := []struct {
		ref     string
		name    string
		wantErr bool
	}{
		{
			ref:  "fieldline/some-ext:1.2.0",
			name: "some-ext",
		},
		{
			ref:  "registry.example.com/fieldline/some-ext:latest",
			name: "some-ext",
		},
		{
			ref:  "some-ext",
			name: "some-ext",
		},
		{
			ref:  "some-ext:2.0",
			name: "some-ext",
		},
		{
			ref:     "fieldline/:latest",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.ref, func(t *testing.T) {
			d := New()

			name, err := d.NameFromImage(test.ref)
			if test.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.name, name)
		})
	}
}

func TestNameFromImageRemembersRef(t *testing.T) {
	d := New()

	_, err := d.NameFromImage("fieldline/some-ext:1.2.0")
	require.NoError(t, err)

	ref, err := d.refFor("some-ext")
	require.NoError(t, err)
	assert.Equal(t, "fieldline/some-ext:1.2.0", ref)

	_, err = d.refFor("unknown-ext")
	assert.Error(t, err)
}

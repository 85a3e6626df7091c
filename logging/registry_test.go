// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func newRegistry(t *testing.T, fs afero.Fs) *Registry {
	t.Helper()
	r, err := NewRegistry(RegistryConfig{
		Fs:        fs,
		Dir:       "/data/logs",
		StatePath: "/data/logging.json",
	})
	assert.NoError(t, err)
	return r
}

func TestEnableDisablePersists(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newRegistry(t, fs)

	assert.NoError(t, r.Enable("alpha"))
	assert.NoError(t, r.Enable("bravo"))
	assert.NotNil(t, r.Writer("alpha"))

	state, err := afero.ReadFile(fs, "/data/logging.json")
	assert.NoError(t, err)
	assert.JSONEq(t, `["alpha","bravo"]`, string(state))

	assert.NoError(t, r.Disable("alpha"))
	assert.Nil(t, r.Writer("alpha"))

	state, err = afero.ReadFile(fs, "/data/logging.json")
	assert.NoError(t, err)
	assert.JSONEq(t, `["bravo"]`, string(state))
}

func TestRegistrationsSurviveRestart(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newRegistry(t, fs)
	assert.NoError(t, r.Enable("alpha"))
	assert.NoError(t, r.Close())

	// A relaunched instance sees the same registrations, detached until
	// their processes resume.
	r2 := newRegistry(t, fs)
	assert.True(t, r2.Registered("alpha"))
	assert.Nil(t, r2.Writer("alpha"))

	assert.NoError(t, r2.Resume("alpha"))
	assert.NotNil(t, r2.Writer("alpha"))
}

func TestDetachRemembersForResume(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := newRegistry(t, fs)
	assert.NoError(t, r.Enable("alpha"))

	r.Detach("alpha")
	assert.True(t, r.Registered("alpha"))
	assert.Nil(t, r.Writer("alpha"))

	assert.NoError(t, r.Resume("alpha"))
	assert.NotNil(t, r.Writer("alpha"))

	// Resume on a never-registered name stays absent.
	assert.NoError(t, r.Resume("ghost"))
	assert.False(t, r.Registered("ghost"))
}

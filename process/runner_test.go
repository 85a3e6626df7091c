// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package process

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopWaitsForExit(t *testing.T) {
	events := make(chan ExitEvent, 1)
	r := NewExecRunner(ExecRunnerConfig{
		Command: []string{"sleep", "60"},
		OnExit: func(name string, ev ExitEvent) {
			events <- ev
		},
	})

	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, r.Start(ctx, "some-ext", dir, IODiscard))
	require.Equal(t, Running, r.Status("some-ext"))

	require.NoError(t, r.Stop("some-ext", true))

	// Stop returned, so the exit event must already be delivered and the
	// name immediately reusable.
	assert.Equal(t, Stopped, r.Status("some-ext"))
	select {
	case ev := <-events:
		assert.True(t, ev.UserInitiated)
	default:
		t.Fatal("no exit event delivered before Stop returned")
	}

	require.NoError(t, r.Start(ctx, "some-ext", dir, IODiscard))
	require.NoError(t, r.Stop("some-ext", true))
}

func TestStopUnknownNameIsNoop(t *testing.T) {
	r := NewExecRunner(ExecRunnerConfig{})

	assert.NoError(t, r.Stop("never-started", false))
	assert.Equal(t, Stopped, r.Status("never-started"))
}

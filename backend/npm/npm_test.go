// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package npm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingPeers(t *testing.T) {
	tests := []struct {
		name     string
		problems []string
		want     []string
	}{
		{
			name: "only peer problems",
			problems: []string{
				"peer dep missing: left-pad@^1.0.0, required by some-ext@2.0.0",
				"peer dep missing: ws@^8.0.0, required by some-ext@2.0.0",
			},
			want: []string{"left-pad@^1.0.0", "ws@^8.0.0"},
		},
		{
			name: "mixed problems disqualify recovery",
			problems: []string{
				"peer dep missing: left-pad@^1.0.0, required by some-ext@2.0.0",
				"extraneous: lodash@4.17.21",
			},
			want: nil,
		},
		{
			name:     "no problems",
			problems: nil,
			want:     nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, missingPeers(test.problems))
		})
	}
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     bool
		errContains string
		check       func(t *testing.T, d *Defaults)
	}{
		{
			name: "all_fields",
			content: `
verbose: true
fast_mode: false
low_animation: true
exclude:
  - "**/*.tmp"
  - "node_modules/**"
`,
			check: func(t *testing.T, d *Defaults) {
				require.NotNil(t, d.Verbose, "verbose should be set")
				assert.True(t, *d.Verbose, "verbose should be true")
				require.NotNil(t, d.FastMode, "fast_mode should be set")
				assert.False(t, *d.FastMode, "fast_mode should be false")
				require.NotNil(t, d.LowAnimation, "low_animation should be set")
				assert.True(t, *d.LowAnimation, "low_animation should be true")
				assert.Len(t, d.Exclude, 2, "should have 2 exclude patterns")
			},
		},
		{
			name:    "empty_file",
			content: "",
			check: func(t *testing.T, d *Defaults) {
				assert.Nil(t, d.Verbose, "verbose should be unset")
				assert.Nil(t, d.FastMode, "fast_mode should be unset")
				assert.Empty(t, d.Exclude, "exclude should be empty")
			},
		},
		{
			name:        "unknown_field",
			content:     "turbo: true\n",
			wantErr:     true,
			errContains: "turbo",
		},
		{
			name:        "malformed_yaml",
			content:     "verbose: [unclosed\n",
			wantErr:     true,
			errContains: "parsing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".bak.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			d, err := LoadDefaults(path)
			if tt.wantErr {
				require.Error(t, err, "LoadDefaults should fail")
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error message should match")
				}
				return
			}
			require.NoError(t, err, "LoadDefaults should succeed")
			tt.check(t, d)
		})
	}
}

func TestLoadDefaults_MissingFile(t *testing.T) {
	d, err := LoadDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err, "missing defaults file is not an error")
	assert.Nil(t, d.Verbose, "defaults should be empty")
}

func TestDefaults_Apply(t *testing.T) {
	yes := true
	no := false

	tests := []struct {
		name     string
		defaults Defaults
		req      TransferRequest
		want     TransferRequest
	}{
		{
			name:     "empty_defaults_leave_request_alone",
			defaults: Defaults{},
			req:      TransferRequest{Verbose: true, FastMode: true},
			want:     TransferRequest{Verbose: true, FastMode: true},
		},
		{
			name: "set_defaults_override_zero_values",
			defaults: Defaults{
				Verbose:      &yes,
				LowAnimation: &yes,
				Exclude:      []string{"*.log"},
			},
			req: TransferRequest{},
			want: TransferRequest{
				Verbose:      true,
				LowAnimation: true,
				Excludes:     []string{"*.log"},
			},
		},
		{
			name:     "explicit_false_default_applies",
			defaults: Defaults{FastMode: &no},
			req:      TransferRequest{FastMode: true},
			want:     TransferRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.defaults.Apply(&tt.req)
			assert.Equal(t, tt.want, tt.req, "applied request should match")
		})
	}
}

func TestTransferRequest_Validate(t *testing.T) {
	req := TransferRequest{Source: "a", Destination: "b"}
	require.NoError(t, req.Validate(), "complete request should validate")

	req = TransferRequest{Destination: "b"}
	require.Error(t, req.Validate(), "missing source should fail")

	req = TransferRequest{Source: "a"}
	require.Error(t, req.Validate(), "missing destination should fail")
}

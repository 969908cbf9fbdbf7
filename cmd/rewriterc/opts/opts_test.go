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

package opts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/config"
)

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name     string
		opts     func(dir string) *RootOpts
		files    []string
		expected func(dir string) string
	}{
		{
			name:     "flag_wins",
			opts:     func(dir string) *RootOpts { return &RootOpts{ConfigFile: "a.yaml", Env: config.Env{Config: "b.yaml"}, Dir: dir} },
			files:    []string{".rewriterc"},
			expected: func(dir string) string { return "a.yaml" },
		},
		{
			name:     "env_before_discovery",
			opts:     func(dir string) *RootOpts { return &RootOpts{Env: config.Env{Config: "b.yaml"}, Dir: dir} },
			files:    []string{".rewriterc"},
			expected: func(dir string) string { return "b.yaml" },
		},
		{
			name:     "discovery_order",
			opts:     func(dir string) *RootOpts { return &RootOpts{Dir: dir} },
			files:    []string{".rewriterc.hcl", ".rewriterc.yaml"},
			expected: func(dir string) string { return filepath.Join(dir, ".rewriterc.yaml") },
		},
		{
			name:     "nothing_found",
			opts:     func(dir string) *RootOpts { return &RootOpts{Dir: dir} },
			expected: func(dir string) string { return "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte(""), 0o644))
			}
			assert.Equal(t, tt.expected(dir), tt.opts(dir).ConfigPath())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	dir := t.TempDir()

	o := &RootOpts{Dir: dir}
	cfg, err := o.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg, "no config is not an error")

	path := filepath.Join(dir, ".rewriterc")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - kind: exact\n    pattern: a\n"), 0o644))

	o = &RootOpts{Dir: dir}
	cfg, err = o.LoadConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Rules, 1)

	again, err := o.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Same(t, cfg, again, "config is loaded once")
}

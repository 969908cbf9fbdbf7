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

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// configCandidates are looked up in the working directory when no config
// file is named
var configCandidates = []string{
	".rewriterc",
	".rewriterc.yaml",
	".rewriterc.yml",
	".rewriterc.hcl",
	".rewriterc.json",
}

// 🎯 RootOpts holds the state shared by every command
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Env        config.Env
	Dir        string // directory searched for a default config file

	cfg    *config.Config
	loaded bool
}

// 🏭 New creates root options seeded from the environment
func New(env config.Env) *RootOpts {
	return &RootOpts{Env: env}
}

// 🔍 ConfigPath returns the config file to use: the flag, then
// REWRITERC_CONFIG, then the first default name present in Dir. It returns
// an empty string when there is none.
func (o *RootOpts) ConfigPath() string {
	if o.ConfigFile != "" {
		return o.ConfigFile
	}
	if o.Env.Config != "" {
		return o.Env.Config
	}

	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	for _, name := range configCandidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// 📚 LoadConfig loads the config once. A nil config with a nil error means
// no config file was named or found.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.loaded {
		return o.cfg, nil
	}

	path := o.ConfigPath()
	if path == "" {
		zerolog.Ctx(ctx).Debug().Msg("no config file found")
		o.loaded = true
		return nil, nil
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	o.cfg = cfg
	o.loaded = true
	return cfg, nil
}

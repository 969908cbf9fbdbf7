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
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

const (
	EnvConfig = "REWRITERC_CONFIG"
	EnvRoot   = "REWRITERC_ROOT"
	EnvExt    = "REWRITERC_EXT"
)

// Env holds the defaults the environment provides to the CLI. Flags win over
// these, and these win over values from the config file.
type Env struct {
	Config     string
	Root       string
	Extensions []string
}

// LoadDotEnv loads the given .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}

	if err := godotenv.Load(present...); err != nil {
		return errors.Errorf("loading env files: %w", err)
	}
	return nil
}

// FromEnv reads the REWRITERC_* variables. REWRITERC_EXT is a comma separated
// extension list.
func FromEnv() Env {
	env := Env{
		Config: strings.TrimSpace(os.Getenv(EnvConfig)),
		Root:   strings.TrimSpace(os.Getenv(EnvRoot)),
	}
	for _, ext := range strings.Split(os.Getenv(EnvExt), ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			env.Extensions = append(env.Extensions, ext)
		}
	}
	return env
}

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
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes a config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var parsers []Parser

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns the first registered parser that can handle the file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 RuleConfig is one rewrite rule as written in a config file
type RuleConfig struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Kind        string `json:"kind" yaml:"kind" validate:"required"`
	Pattern     string `json:"pattern" yaml:"pattern" validate:"required"`
	Replacement string `json:"replacement" yaml:"replacement"`
	// File and Glob match paths relative to the run root, not to the config
	// file. An absolute File matches by absolute path.
	File        string `json:"file,omitempty" yaml:"file,omitempty"`
	Glob        string `json:"glob,omitempty" yaml:"glob,omitempty"`
}

// 📚 Config is a complete rule set and the files it applies to
type Config struct {
	Root       string       `json:"root,omitempty" yaml:"root,omitempty"`
	Extensions []string     `json:"extensions,omitempty" yaml:"extensions,omitempty" validate:"dive,required"`
	Include    []string     `json:"include,omitempty" yaml:"include,omitempty" validate:"dive,required"`
	Exclude    []string     `json:"exclude,omitempty" yaml:"exclude,omitempty" validate:"dive,required"`
	Paths      []string     `json:"paths,omitempty" yaml:"paths,omitempty" validate:"dive,required"`
	Workers    int          `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0"`
	Async      bool         `json:"async,omitempty" yaml:"async,omitempty"`
	Rules      []RuleConfig `json:"rules" yaml:"rules" validate:"required,min=1,dive"`

	location string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report yaml field names so errors read like the file
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// 🎯 Load reads, parses and validates a config file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving config path: %w", err)
	}
	cfg.location = abs
	cfg.resolvePaths(filepath.Dir(abs))

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("rules", len(cfg.Rules)).Str("root", cfg.Root).Msg("configuration loaded")

	return cfg, nil
}

// 📍 Location returns the absolute path the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

func (cfg *Config) resolvePaths(dir string) {
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(dir, cfg.Root)
	}
	for i, p := range cfg.Paths {
		if !filepath.IsAbs(p) {
			cfg.Paths[i] = filepath.Join(dir, p)
		}
	}
}

// 🔍 Validate checks the structure of the config and compiles every rule
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.Errorf("%s", describe(verrs[0]))
		}
		return errors.Errorf("validating struct: %w", err)
	}

	if _, err := cfg.BuildRules(); err != nil {
		return err
	}

	return nil
}

func describe(fe validator.FieldError) string {
	// drop the leading struct name: Config.rules[0].pattern -> rules[0].pattern
	_, field, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		field = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must have at least " + fe.Param() + " entry"
	case "gte":
		return field + " must be at least " + fe.Param()
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}

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
	"fmt"

	"github.com/walteh/rewriterc/pkg/text"
	"github.com/walteh/rewriterc/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// BuildRules compiles the configured rules in declaration order. Unnamed rules
// are named rule[i] after their position. Any failure wraps
// text.ErrInvalidPattern.
func (cfg *Config) BuildRules() ([]*text.Rule, error) {
	rules := make([]*text.Rule, 0, len(cfg.Rules))
	for i, rc := range cfg.Rules {
		name := rc.Name
		if name == "" {
			name = fmt.Sprintf("rule[%d]", i)
		}

		kind, err := text.ParseKind(rc.Kind)
		if err != nil {
			return nil, errors.Errorf("%w: rule %q: %s", text.ErrInvalidPattern, name, err.Error())
		}

		rule, err := text.NewRule(kind, rc.Pattern, rc.Replacement,
			text.WithName(name),
			text.WithFile(rc.File),
			text.WithGlob(rc.Glob),
		)
		if err != nil {
			return nil, errors.Errorf("building rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	if err := text.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("%w: %s", text.ErrInvalidPattern, err.Error())
	}

	return rules, nil
}

// Filter returns the file selection for root based runs
func (cfg *Config) Filter() walk.Filter {
	return walk.Filter{
		Extensions: cfg.Extensions,
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
	}
}

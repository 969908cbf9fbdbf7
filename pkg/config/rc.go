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
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&RCParser{})
}

// 🔧 RCParser handles extensionless .rewriterc files, which may be YAML or HCL
type RCParser struct{}

func (p *RCParser) CanParse(filename string) bool {
	return filepath.Base(filename) == ".rewriterc"
}

func (p *RCParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
	if yamlErr == nil {
		return cfg, nil
	}

	cfg, err := (&HCLParser{}).Parse(ctx, data)
	if err == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("parsing .rewriterc as YAML (%s) or HCL: %w", yamlErr.Error(), err)
}

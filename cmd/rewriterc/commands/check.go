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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a rule file without touching any file",
		Long: `Check loads the config file, validates its structure and compiles every
rule. Nothing is read from or written to the file tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextLogger(cmd.Context(), "check")

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if cfg == nil {
				return errors.New("no config file: pass --config or set REWRITERC_CONFIG")
			}

			rules, err := cfg.BuildRules()
			if err != nil {
				return errors.Errorf("building rules: %w", err)
			}

			logger := log.FromContext(ctx).With(log.WithZerolog(*zerolog.Ctx(ctx)))
			logger.Header("checking " + cfg.Location())
			for _, rule := range rules {
				scope := "all files"
				switch s := rule.Scope(); {
				case s.File != "":
					scope = s.File
				case s.Glob != "":
					scope = s.Glob
				}
				logger.Infof("%s (%s) on %s", rule.Name(), rule.Kind(), scope)
			}
			logger.Successf("%d rules ok", len(rules))

			return nil
		},
	}

	return cmd
}

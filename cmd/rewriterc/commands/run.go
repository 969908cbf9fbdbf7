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
	"context"
	"iter"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"github.com/walteh/rewriterc/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

type runFlags struct {
	root    string
	ext     []string
	include []string
	exclude []string
	dryRun  bool
	diff    bool
	workers int
	verbose bool
	table   bool
	regex   string
	exact   string
	replace string
}

// NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	return newRunCmd(o, &runFlags{})
}

func newRunCmd(o *opts.RootOpts, f *runFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Rewrite files with the configured rules",
		Long: `Run applies every rule, in order, to each selected file and writes back
the files where at least one rule made a replacement.

Files are selected from, in order of preference:
1. the paths given as arguments
2. the paths listed in the config file
3. every file under --root matching --ext, --include and --exclude

A single rule can be given on the command line with --regex or --exact
plus --replace. It runs after the rules from the config file.`,
		Example: `  rewriterc run --config rules.yaml --root lib --ext .dart
  rewriterc run --regex '\.withOpacity\(([0-9.]+)\)' --replace '.withValues(alpha: \1)' --root lib --ext .dart
  rewriterc run --dry-run --diff lib/screens/home.dart`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, o, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.root, "root", "r", "", "directory to rewrite (default: config root or .)")
	flags.StringSliceVarP(&f.ext, "ext", "e", nil, "file extensions to include, e.g. .dart")
	flags.StringSliceVar(&f.include, "include", nil, "glob of relative paths to include")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "glob of relative paths to skip")
	flags.BoolVarP(&f.dryRun, "dry-run", "n", false, "report changes without writing files")
	flags.BoolVar(&f.diff, "diff", false, "print a diff of every modified file")
	flags.IntVarP(&f.workers, "workers", "w", 0, "files processed at once (default: config value or 1)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "also list unchanged files")
	flags.BoolVar(&f.table, "table", false, "print per rule totals")
	flags.StringVar(&f.regex, "regex", "", "ad hoc regular expression rule")
	flags.StringVar(&f.exact, "exact", "", "ad hoc exact block rule")
	flags.StringVar(&f.replace, "replace", "", "replacement for --regex or --exact")
	cmd.MarkFlagsMutuallyExclusive("regex", "exact")

	return cmd
}

func runRewrite(cmd *cobra.Command, o *opts.RootOpts, f *runFlags, args []string) error {
	ctx := contextLogger(cmd.Context(), "run")

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return err
	}

	rules, err := collectRules(cfg, f)
	if err != nil {
		return err
	}

	sel := resolveSelection(cmd, o, cfg, f, args)
	files, err := sel.files()
	if err != nil {
		return errors.Errorf("selecting files: %w", err)
	}

	logger := log.FromContext(ctx).With(
		log.WithVerbose(f.verbose),
		log.WithZerolog(*zerolog.Ctx(ctx)),
		log.WithFormatter(status.NewDefaultFormatter(f.dryRun)),
	)

	runner, err := operation.New(operation.Options{
		Rules:    rules,
		Root:     sel.root,
		DryRun:   f.dryRun,
		Diff:     f.diff,
		Workers:  sel.workers,
		Async:    sel.async,
		OnResult: func(r status.FileResult) { logger.LogFileResult(ctx, r) },
	})
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	logger.StartRun(ctx, log.RunInfo{
		RunID:  runner.RunID(),
		Root:   sel.root,
		Rules:  len(rules),
		DryRun: f.dryRun,
	})

	report, err := runner.Run(ctx, files)
	if report != nil {
		logger.EndRun(ctx, report)
		if f.table {
			logger.LogRuleTable(report)
		}
	}
	if err != nil {
		return errors.Errorf("running rules: %w", err)
	}

	if n := report.FilesFailed(); n > 0 {
		return errors.Errorf("%w: %d of %d", ErrFilesFailed, n, report.FilesTotal())
	}
	return nil
}

// collectRules returns the config rules followed by the ad hoc flag rule
func collectRules(cfg *config.Config, f *runFlags) ([]*text.Rule, error) {
	var rules []*text.Rule
	if cfg != nil {
		built, err := cfg.BuildRules()
		if err != nil {
			return nil, errors.Errorf("building rules: %w", err)
		}
		rules = built
	}

	var adhoc *text.Rule
	var err error
	switch {
	case f.regex != "":
		adhoc, err = text.Regex(f.regex, f.replace, text.WithName("--regex"))
	case f.exact != "":
		adhoc, err = text.Exact(f.exact, f.replace, text.WithName("--exact"))
	case f.replace != "":
		return nil, errors.New("--replace needs --regex or --exact")
	}
	if err != nil {
		return nil, errors.Errorf("building flag rule: %w", err)
	}
	if adhoc != nil {
		rules = append(rules, adhoc)
	}

	if len(rules) == 0 {
		return nil, errors.New("no rules: pass --config or --regex/--exact with --replace")
	}
	return rules, nil
}

type selection struct {
	root    string
	paths   []string
	filter  walk.Filter
	workers int
	async   bool
}

// resolveSelection merges flags, environment and config. Flags win, then the
// environment, then the config file.
func resolveSelection(cmd *cobra.Command, o *opts.RootOpts, cfg *config.Config, f *runFlags, args []string) selection {
	var sel selection
	if cfg != nil {
		sel.root = cfg.Root
		sel.paths = cfg.Paths
		sel.filter = cfg.Filter()
		sel.workers = cfg.Workers
		sel.async = cfg.Async
	}

	if o.Env.Root != "" {
		sel.root = o.Env.Root
	}
	if len(o.Env.Extensions) > 0 {
		sel.filter.Extensions = o.Env.Extensions
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		sel.root = f.root
	}
	if flags.Changed("ext") {
		sel.filter.Extensions = f.ext
	}
	if flags.Changed("include") {
		sel.filter.Include = f.include
	}
	if flags.Changed("exclude") {
		sel.filter.Exclude = f.exclude
	}
	if flags.Changed("workers") {
		sel.workers = f.workers
	}
	if len(args) > 0 {
		sel.paths = args
	}

	if sel.root == "" {
		sel.root = "."
	}
	if abs, err := filepath.Abs(sel.root); err == nil {
		sel.root = abs
	}

	return sel
}

func (s selection) files() (iter.Seq2[string, error], error) {
	if len(s.paths) > 0 {
		return walk.Paths(s.paths)
	}
	return walk.Enumerate(s.root, s.filter)
}

// contextLogger returns the command logger with the command name attached
func contextLogger(ctx context.Context, name string) context.Context {
	return zerolog.Ctx(ctx).With().Str("command", name).Logger().WithContext(ctx)
}

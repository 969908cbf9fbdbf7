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

package operation

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures a batch run.
type Options struct {
	// Rules is the ordered rule set, applied to every file in scope
	Rules []*text.Rule
	// Root is the directory file paths are reported and scoped relative to.
	// Defaults to the working directory.
	Root string
	// DryRun computes every result but writes nothing
	DryRun bool
	// Diff attaches a line diff to every modified result
	Diff bool
	// Workers bounds the number of files processed at once. Zero or one
	// processes files sequentially.
	Workers int
	// Async processes files with one worker per CPU when Workers is unset
	Async bool
	// Files reads and writes targets. Defaults to the local file system.
	Files status.FileManager
	// OnResult, when set, receives every file result in enumeration order
	OnResult func(status.FileResult)
	// RunID identifies the run in logs. Generated when empty.
	RunID string
}

// 🏭 New validates the options and returns a runner for one batch run.
func New(opts Options) (*Runner, error) {
	if len(opts.Rules) == 0 {
		return nil, errors.Errorf("at least one rule is required")
	}

	applicator, err := text.NewApplicator(opts.Rules...)
	if err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	if opts.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		opts.Root = wd
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}
	opts.Root = root

	if opts.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d", opts.Workers)
	}
	if opts.Workers == 0 {
		opts.Workers = 1
		if opts.Async {
			opts.Workers = runtime.NumCPU()
		}
	}

	if opts.Files == nil {
		opts.Files = status.NewOSFileManager()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	return &Runner{
		opts:       opts,
		applicator: applicator,
		locks:      newPathLocks(),
	}, nil
}

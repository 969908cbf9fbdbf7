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
	"context"
	"iter"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"github.com/walteh/rewriterc/pkg/walk"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner applies a fixed rule set to a sequence of files.
type Runner struct {
	opts       Options
	applicator *text.Applicator
	locks      *pathLocks
}

// RunID returns the identifier attached to this runner's logs and report.
func (r *Runner) RunID() string {
	return r.opts.RunID
}

// Run processes every file of the sequence: read, apply, and write back when
// at least one replacement was made. A file that cannot be read or written is
// recorded as failed and the run moves on. The only error returned is the
// context's, when it is cancelled between files; the partial report is
// returned with it.
func (r *Runner) Run(ctx context.Context, files iter.Seq2[string, error]) (*status.Report, error) {
	logger := zerolog.Ctx(ctx).With().Str("run_id", r.opts.RunID).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().
		Str("root", r.opts.Root).
		Int("rules", len(r.opts.Rules)).
		Int("workers", r.opts.Workers).
		Bool("dry_run", r.opts.DryRun).
		Msg("starting batch run")

	report := status.NewReport(r.opts.RunID, r.opts.DryRun, r.applicator.Rules())

	var err error
	if r.opts.Workers > 1 {
		err = r.runAsync(ctx, files, report)
	} else {
		err = r.runSync(ctx, files, report)
	}

	logger.Debug().
		Int("modified", report.FilesModified()).
		Int("unchanged", report.FilesUnchanged()).
		Int("failed", report.FilesFailed()).
		Int("replacements", report.TotalReplacements()).
		Msg("batch run complete")

	return report, err
}

func (r *Runner) runSync(ctx context.Context, files iter.Seq2[string, error], report *status.Report) error {
	for path, walkErr := range files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("run cancelled: %w", err)
		}
		r.record(ctx, report, r.processFile(ctx, path, walkErr))
	}
	return nil
}

// runAsync processes up to Workers files at once. Results are recorded in
// enumeration order once every file is done.
func (r *Runner) runAsync(ctx context.Context, files iter.Seq2[string, error], report *status.Report) error {
	var (
		mu      sync.Mutex
		results []status.FileResult
		g       errgroup.Group
		runErr  error
	)
	g.SetLimit(r.opts.Workers)

	i := 0
	for path, walkErr := range files {
		if err := ctx.Err(); err != nil {
			runErr = errors.Errorf("run cancelled: %w", err)
			break
		}

		idx := i
		i++

		mu.Lock()
		results = append(results, status.FileResult{})
		mu.Unlock()

		g.Go(func() error {
			res := r.processFile(ctx, path, walkErr)
			mu.Lock()
			results[idx] = res
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	for _, res := range results {
		r.record(ctx, report, res)
	}
	return runErr
}

func (r *Runner) record(ctx context.Context, report *status.Report, res status.FileResult) {
	status.LogFileResult(zerolog.Ctx(ctx), res)
	report.Add(res)
	if r.opts.OnResult != nil {
		r.opts.OnResult(res)
	}
}

// processFile runs the read, transform, write cycle for one file.
func (r *Runner) processFile(ctx context.Context, path string, walkErr error) status.FileResult {
	res := status.FileResult{
		Path: path,
		Rel:  walk.Rel(r.opts.Root, path),
	}

	if walkErr != nil {
		res.Status = status.StatusFailed
		res.Err = walkErr
		return res
	}

	// held for the whole read, transform, write cycle
	unlock := r.locks.lock(path)
	defer unlock()

	content, err := r.opts.Files.ReadFile(ctx, path)
	if err != nil {
		res.Status = status.StatusFailed
		res.Err = &walk.IOError{Op: "read", Path: res.Rel, Err: err}
		return res
	}

	result := r.applicator.Apply(text.FileTarget{
		Path:    path,
		Rel:     res.Rel,
		Content: string(content),
	})

	res.Matches = result.MatchCount
	res.Replacements = result.ReplacementCount
	res.Rules = result.Rules

	if !result.WasModified {
		res.Status = status.StatusUnchanged
		return res
	}

	res.Status = status.StatusModified
	if r.opts.Diff {
		res.Diff = status.Diff(result.OriginalContent, result.ModifiedContent)
	}
	if r.opts.DryRun {
		return res
	}

	if err := r.opts.Files.WriteFileAtomic(ctx, path, []byte(result.ModifiedContent)); err != nil {
		res.Status = status.StatusFailed
		res.Err = &walk.IOError{Op: "write", Path: res.Rel, Err: err}
		return res
	}
	res.Written = true

	return res
}

// pathLocks serialises writers of the same path.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*pathLock)}
}

func (p *pathLocks) lock(path string) func() {
	p.mu.Lock()
	l, ok := p.locks[path]
	if !ok {
		l = &pathLock{}
		p.locks[path] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, path)
		}
		p.mu.Unlock()
	}
}

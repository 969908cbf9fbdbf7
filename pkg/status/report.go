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

package status

import (
	"github.com/walteh/rewriterc/pkg/text"
)

// 📊 FileStatus is the outcome of one file in a batch run
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusModified             // at least one replacement was made
	StatusUnchanged            // no rule matched; the file was not touched
	StatusFailed               // the file could not be read or written
)

func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileResult is the ApplicationResult of one file.
type FileResult struct {
	Path         string           // absolute path
	Rel          string           // path relative to the run root, slash separated
	Status       FileStatus       // outcome
	Matches      int              // occurrences found over all rules
	Replacements int              // occurrences rewritten over all rules
	Rules        []text.RuleCount // per rule counts, in application order
	Written      bool             // content was persisted (false in dry-run)
	Diff         string           // optional preview of the change
	Err          error            // set when Status is StatusFailed
}

// Name is the path used for display.
func (r FileResult) Name() string {
	if r.Rel != "" {
		return r.Rel
	}
	return r.Path
}

// RuleTotal aggregates one rule over a whole run.
type RuleTotal struct {
	Rule         string
	Kind         text.Kind
	Matches      int
	Replacements int
	Files        int // files the rule rewrote
}

// 📚 Report aggregates the results of a batch run. It is built once per run
// and owned by the caller afterwards.
type Report struct {
	RunID  string
	DryRun bool

	rules []*text.Rule
	files []FileResult
}

// NewReport creates an empty report for a run over the given rule set.
func NewReport(runID string, dryRun bool, rules []*text.Rule) *Report {
	return &Report{
		RunID:  runID,
		DryRun: dryRun,
		rules:  rules,
	}
}

// Add records a file result. Results are kept in the order they are added.
func (r *Report) Add(res FileResult) {
	r.files = append(r.files, res)
}

// Files returns every recorded result.
func (r *Report) Files() []FileResult {
	out := make([]FileResult, len(r.files))
	copy(out, r.files)
	return out
}

// Filter returns the results with the given status.
func (r *Report) Filter(s FileStatus) []FileResult {
	var out []FileResult
	for _, f := range r.files {
		if f.Status == s {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) count(s FileStatus) int {
	n := 0
	for _, f := range r.files {
		if f.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) FilesModified() int  { return r.count(StatusModified) }
func (r *Report) FilesUnchanged() int { return r.count(StatusUnchanged) }
func (r *Report) FilesFailed() int    { return r.count(StatusFailed) }
func (r *Report) FilesTotal() int     { return len(r.files) }

// TotalReplacements is the replacement count summed over modified files.
// Replacements computed for a file that then failed to write are not counted.
func (r *Report) TotalReplacements() int {
	n := 0
	for _, f := range r.files {
		if f.Status != StatusModified {
			continue
		}
		n += f.Replacements
	}
	return n
}

// RuleTotals returns one entry per configured rule, in declaration order,
// including rules that never matched.
func (r *Report) RuleTotals() []RuleTotal {
	totals := make([]RuleTotal, len(r.rules))
	index := make(map[string]int, len(r.rules))
	for i, rule := range r.rules {
		totals[i] = RuleTotal{Rule: rule.Name(), Kind: rule.Kind()}
		index[rule.Name()] = i
	}

	for _, f := range r.files {
		if f.Status != StatusModified {
			continue
		}
		for _, rc := range f.Rules {
			i, ok := index[rc.Rule]
			if !ok {
				continue
			}
			totals[i].Matches += rc.Matches
			totals[i].Replacements += rc.Replacements
			if rc.Replacements > 0 {
				totals[i].Files++
			}
		}
	}

	return totals
}

// UnfiredRules lists the rules that made no replacement anywhere in the run.
// A rule that never fires is not an error, but usually means its pattern does
// not match the real file content.
func (r *Report) UnfiredRules() []string {
	var out []string
	for _, t := range r.RuleTotals() {
		if t.Replacements == 0 {
			out = append(out, t.Rule)
		}
	}
	return out
}

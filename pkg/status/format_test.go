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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFormatter(t *testing.T) {
	tests := []struct {
		name   string
		dryRun bool
		result FileResult
		want   string
	}{
		{
			name:   "modified_file",
			result: FileResult{Rel: "lib/a.dart", Status: StatusModified, Replacements: 3},
			want:   "📝 Modified lib/a.dart: 3 replacements",
		},
		{
			name:   "dry_run_modified_file",
			dryRun: true,
			result: FileResult{Rel: "lib/a.dart", Status: StatusModified, Replacements: 1},
			want:   "📝 Would modify lib/a.dart: 1 replacements",
		},
		{
			name:   "unchanged_file",
			result: FileResult{Rel: "lib/b.dart", Status: StatusUnchanged},
			want:   "👍 Unchanged lib/b.dart",
		},
		{
			name:   "failed_file",
			result: FileResult{Path: "/repo/c.dart", Status: StatusFailed, Err: errors.New("permission denied")},
			want:   "❌ Failed /repo/c.dart: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDefaultFormatter(tt.dryRun)
			assert.Equal(t, tt.want, f.FormatFileResult(tt.result))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	f := NewDefaultFormatter(false)
	assert.Equal(t, "Total: 3 replacements in 1 files\n1 modified, 1 unchanged, 1 failed", f.FormatSummary(testReport()))
}

func TestFormatError(t *testing.T) {
	f := NewDefaultFormatter(false)
	assert.Empty(t, f.FormatError(nil))
	assert.Equal(t, "❌ Error: boom", f.FormatError(errors.New("boom")))
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "identical",
			before: "a\nb\n",
			after:  "a\nb\n",
			want:   "",
		},
		{
			name:   "one_line_changed",
			before: "a\nfoo.withOpacity(0.5)\nc\n",
			after:  "a\nfoo.withValues(alpha: 0.5)\nc\n",
			want:   "-foo.withOpacity(0.5)\n+foo.withValues(alpha: 0.5)\n",
		},
		{
			name:   "line_inserted",
			before: "a\nc\n",
			after:  "a\nb\nc\n",
			want:   "+b\n",
		},
		{
			name:   "no_trailing_newline",
			before: "x",
			after:  "y",
			want:   "-x\n+y\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.before, tt.after))
		})
	}
}

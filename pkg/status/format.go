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
	"fmt"

	"github.com/rs/zerolog"
)

// 🎨 Formatter renders report entries as plain text lines.
type Formatter interface {
	// FormatFileResult formats the line for one file
	FormatFileResult(r FileResult) string

	// FormatSummary formats the final aggregate
	FormatSummary(r *Report) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter produces the lines printed by the CLI.
type DefaultFormatter struct {
	DryRun bool
}

func NewDefaultFormatter(dryRun bool) *DefaultFormatter {
	return &DefaultFormatter{DryRun: dryRun}
}

func (f *DefaultFormatter) FormatFileResult(r FileResult) string {
	switch r.Status {
	case StatusModified:
		verb := "Modified"
		if f.DryRun {
			verb = "Would modify"
		}
		return fmt.Sprintf("📝 %s %s: %d replacements", verb, r.Name(), r.Replacements)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s: %v", r.Name(), r.Err)
	default:
		return fmt.Sprintf("👍 Unchanged %s", r.Name())
	}
}

func (f *DefaultFormatter) FormatSummary(r *Report) string {
	return fmt.Sprintf("Total: %d replacements in %d files\n%d modified, %d unchanged, %d failed",
		r.TotalReplacements(), r.FilesModified(),
		r.FilesModified(), r.FilesUnchanged(), r.FilesFailed())
}

func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

// LogFileResult writes a structured record of one file result.
func LogFileResult(logger *zerolog.Logger, r FileResult) {
	var ev *zerolog.Event
	switch r.Status {
	case StatusFailed:
		ev = logger.Warn().Err(r.Err)
	case StatusModified:
		ev = logger.Info()
	default:
		ev = logger.Debug()
	}

	ev.Str("file", r.Name()).
		Str("status", r.Status.String()).
		Int("matches", r.Matches).
		Int("replacements", r.Replacements).
		Bool("written", r.Written).
		Msg("file processed")
}

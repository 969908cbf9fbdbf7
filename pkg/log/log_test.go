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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

func testRules() []*text.Rule {
	return []*text.Rule{
		text.MustRule(text.KindRegex, `\.withOpacity\(([0-9.]+)\)`, `.withValues(alpha: \1)`, text.WithName("opacity")),
		text.MustRule(text.KindExactBlock, "value:", "initialValue:", text.WithName("initial_value")),
	}
}

func modifiedResult() status.FileResult {
	return status.FileResult{
		Path:         "/repo/lib/theme.dart",
		Rel:          "lib/theme.dart",
		Status:       status.StatusModified,
		Matches:      3,
		Replacements: 3,
		Rules: []text.RuleCount{
			{Rule: "opacity", Kind: text.KindRegex, Matches: 3, Replacements: 3},
		},
		Written: true,
	}
}

func testReport() *status.Report {
	report := status.NewReport("run-1", false, testRules())
	report.Add(modifiedResult())
	report.Add(status.FileResult{Rel: "lib/plain.dart", Status: status.StatusUnchanged})
	return report
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		opts     []Option
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_modified_file",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileResult(context.Background(), modifiedResult())
			},
			wantLogs: []string{
				"📝 Modified lib/theme.dart: 3 replacements",
			},
		},
		{
			name: "unchanged_hidden",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileResult(context.Background(), status.FileResult{Rel: "lib/plain.dart", Status: status.StatusUnchanged})
				logger.Info("done")
			},
			wantLogs: []string{
				"ℹ️  done",
			},
		},
		{
			name: "unchanged_verbose",
			opts: []Option{WithVerbose(true)},
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileResult(context.Background(), status.FileResult{Rel: "lib/plain.dart", Status: status.StatusUnchanged})
			},
			wantLogs: []string{
				"👍 Unchanged lib/plain.dart",
			},
		},
		{
			name: "log_failed_file",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileResult(context.Background(), status.FileResult{
					Rel:    "lib/locked.dart",
					Status: status.StatusFailed,
					Err:    errors.New("permission denied"),
				})
			},
			wantLogs: []string{
				"❌ Failed lib/locked.dart: permission denied",
			},
		},
		{
			name: "log_diff",
			op: func(t *testing.T, logger *Logger) {
				res := modifiedResult()
				res.Diff = "-a.withOpacity(0.5)\n+a.withValues(alpha: 0.5)\n"
				logger.LogFileResult(context.Background(), res)
			},
			wantLogs: []string{
				"📝 Modified lib/theme.dart: 3 replacements",
				"-a.withOpacity(0.5)",
				"+a.withValues(alpha: 0.5)",
			},
		},
		{
			name: "log_run",
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.StartRun(ctx, RunInfo{RunID: "run-1", Root: "/repo/lib", Rules: 2})
				logger.LogFileResult(ctx, modifiedResult())
				logger.EndRun(ctx, testReport())
			},
			wantLogs: []string{
				"[rewriting /repo/lib]",
				"◆ 2 rules • run-1",
				"📝 Modified lib/theme.dart: 3 replacements",
				"",
				"Total: 3 replacements in 1 files",
				"1 modified, 1 unchanged, 0 failed",
				`⚠️  rule "initial_value" made no replacements`,
			},
		},
		{
			name: "log_dry_run",
			opts: []Option{WithFormatter(status.NewDefaultFormatter(true))},
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.StartRun(ctx, RunInfo{RunID: "run-2", Root: "/repo", Rules: 1, DryRun: true})
				logger.LogFileResult(ctx, modifiedResult())
			},
			wantLogs: []string{
				"[dry run /repo]",
				"◆ 1 rule • run-2",
				"📝 Would modify lib/theme.dart: 3 replacements",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error(errors.New("error message"))
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ Error: error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("checking rule set")
			},
			wantLogs: []string{
				"rewriterc • checking rule set",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := append([]Option{WithZerolog(zerolog.New(zerolog.NewTestWriter(t)))}, tt.opts...)
			logger := New(buf, zerolog.InfoLevel, opts...)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestLoggerWith(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	base := New(buf, zerolog.InfoLevel, WithZerolog(zerolog.Nop()))
	verbose := base.With(WithVerbose(true), WithFormatter(status.NewDefaultFormatter(true)))

	unchanged := status.FileResult{Rel: "lib/plain.dart", Status: status.StatusUnchanged}
	base.LogFileResult(context.Background(), unchanged)
	assert.Empty(t, buf.String(), "base logger stays quiet about unchanged files")

	verbose.LogFileResult(context.Background(), unchanged)
	verbose.LogFileResult(context.Background(), modifiedResult())
	assert.Contains(t, buf.String(), "👍 Unchanged lib/plain.dart")
	assert.Contains(t, buf.String(), "📝 Would modify lib/theme.dart: 3 replacements")
}

func TestRuleTable(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	table, err := RuleTable(testReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(table), "\n")
	assert.Contains(t, lines[0], "Rule")
	assert.Contains(t, lines[0], "Replacements")

	assert.Equal(t, []string{"opacity", "regex", "3", "3", "1"}, rowFields(lines, "opacity"))
	assert.Equal(t, []string{"initial_value", "exact", "0", "0", "0"}, rowFields(lines, "initial_value"))
}

func rowFields(lines []string, first string) []string {
	for _, line := range lines {
		fields := strings.Fields(strings.ReplaceAll(line, "|", " "))
		if len(fields) > 0 && fields[0] == first {
			return fields
		}
	}
	return nil
}

func TestLogRuleTable(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.InfoLevel, WithZerolog(zerolog.Nop()))
	logger.LogRuleTable(testReport())

	assert.Contains(t, buf.String(), "opacity")
	assert.Contains(t, buf.String(), "initial_value")
}

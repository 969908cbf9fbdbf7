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
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent = 4 // spaces to indent file entries
)

// 📦 RunInfo describes a batch run for the console header
type RunInfo struct {
	RunID  string // Run identifier
	Root   string // Directory the run is scoped to
	Rules  int    // Number of rules in the set
	DryRun bool   // Whether files are left untouched
}

// 🎯 Logger prints run progress to the console and mirrors it to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.Formatter
	verbose   bool
	mu        sync.Mutex
}

// Option configures a Logger
type Option func(*Logger)

// WithVerbose also prints files that were left unchanged
func WithVerbose(v bool) Option {
	return func(l *Logger) { l.verbose = v }
}

// WithZerolog replaces the structured logger
func WithZerolog(zl zerolog.Logger) Option {
	return func(l *Logger) { l.zlog = zl }
}

// WithFormatter replaces the line formatter
func WithFormatter(f status.Formatter) Option {
	return func(l *Logger) { l.formatter = f }
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level, opts ...Option) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)

	l := &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFormatter(false),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// With returns a copy of the logger with opts applied. Both loggers share the
// console.
func (l *Logger) With(opts ...Option) *Logger {
	c := &Logger{
		zlog:      l.zlog,
		console:   l.console,
		formatter: l.formatter,
		verbose:   l.verbose,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func statusColor(s status.FileStatus) color.Attribute {
	switch s {
	case status.StatusModified:
		return color.FgBlue
	case status.StatusFailed:
		return color.FgRed
	default:
		return color.Faint
	}
}

// 📝 formatFileResult formats a file result for display
func (l *Logger) formatFileResult(r status.FileResult) string {
	return fmt.Sprintf("%*s%s", fileIndent, "",
		color.New(statusColor(r.Status)).Sprint(l.formatter.FormatFileResult(r)))
}

// 📝 LogFileResult prints one file result. Unchanged files are only printed
// in verbose mode. The structured record is written by the runner.
func (l *Logger) LogFileResult(ctx context.Context, r status.FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Status == status.StatusUnchanged && !l.verbose {
		return
	}

	fmt.Fprintln(l.console, l.formatFileResult(r))
	if r.Diff != "" {
		fmt.Fprint(l.console, colorDiff(r.Diff))
	}
}

func colorDiff(diff string) string {
	var buf strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		attr := color.FgGreen
		if strings.HasPrefix(line, "-") {
			attr = color.FgRed
		}
		fmt.Fprintf(&buf, "%*s%s", fileIndent*2, "", color.New(attr).Sprint(line))
	}
	return buf.String()
}

// 📝 StartRun prints the run header
func (l *Logger) StartRun(ctx context.Context, info RunInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	mode := "rewriting"
	if info.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", mode, color.New(color.FgCyan).Sprint(info.Root))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(pluralize(info.Rules, "rule")),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(info.RunID))

	l.zlog.Info().
		Str("run_id", info.RunID).
		Str("root", info.Root).
		Int("rules", info.Rules).
		Bool("dry_run", info.DryRun).
		Msg("starting batch run")
}

// 📝 EndRun prints the summary of the current run
func (l *Logger) EndRun(ctx context.Context, report *status.Report) {
	l.LogNewline()

	l.mu.Lock()
	fmt.Fprintln(l.console, color.New(color.Bold).Sprint(l.formatter.FormatSummary(report)))
	l.mu.Unlock()

	for _, name := range report.UnfiredRules() {
		l.Warningf("rule %q made no replacements", name)
	}

	l.zlog.Info().
		Str("run_id", report.RunID).
		Int("modified", report.FilesModified()).
		Int("unchanged", report.FilesUnchanged()).
		Int("failed", report.FilesFailed()).
		Int("replacements", report.TotalReplacements()).
		Msg("batch run complete")
}

// 📊 RuleTable renders per rule totals as a table
func RuleTable(report *status.Report) (string, error) {
	data := pterm.TableData{{"Rule", "Kind", "Matches", "Replacements", "Files"}}
	for _, t := range report.RuleTotals() {
		data = append(data, []string{
			t.Rule,
			t.Kind.String(),
			strconv.Itoa(t.Matches),
			strconv.Itoa(t.Replacements),
			strconv.Itoa(t.Files),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// 📊 LogRuleTable prints the per rule table
func (l *Logger) LogRuleTable(report *status.Report) {
	table, err := RuleTable(report)
	if err != nil {
		l.zlog.Debug().Err(err).Msg("rendering rule table")
		return
	}

	l.LogNewline()

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, table)
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error through the formatter
func (l *Logger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(l.formatter.FormatError(err)))
	l.zlog.Error().Err(err).Msg("command failed")
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

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

// Package text holds rewrite rules and applies them to file content.
package text

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidPattern is returned when a rule cannot be constructed from its pattern.
var ErrInvalidPattern = errors.Base("invalid pattern")

// 🏷️ Kind selects how a rule locates its pattern
type Kind int

const (
	KindUnknown    Kind = iota
	KindExactBlock      // literal block, first occurrence only
	KindRegex           // regular expression, every occurrence
)

func (k Kind) String() string {
	switch k {
	case KindExactBlock:
		return "exact"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// 🔍 ParseKind parses the kind names accepted in rule files
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact", "exact_block", "block", "literal":
		return KindExactBlock, nil
	case "regex", "regexp", "re":
		return KindRegex, nil
	default:
		return KindUnknown, errors.Errorf("unknown rule kind %q", s)
	}
}

// 🎯 Scope restricts a rule to one file or to files matching a glob.
// The zero value matches every file.
type Scope struct {
	File string // exact path, relative to the run root or absolute
	Glob string // doublestar glob over the root-relative slash path
}

func (s Scope) IsZero() bool {
	return s.File == "" && s.Glob == ""
}

// Matches reports whether a file is in scope. rel is the slash separated path
// relative to the run root, abs the absolute path; either may be empty.
func (s Scope) Matches(rel, abs string) bool {
	if s.File != "" {
		want := filepath.ToSlash(filepath.Clean(s.File))
		if want != rel && want != filepath.ToSlash(abs) {
			return false
		}
	}
	if s.Glob != "" {
		ok, err := doublestar.Match(s.Glob, rel)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// 🔄 Rule is one immutable rewrite instruction.
type Rule struct {
	name        string
	kind        Kind
	pattern     string
	replacement string
	scope       Scope
	named       bool

	re       *regexp.Regexp
	template string
}

// Option configures a Rule during construction.
type Option func(*Rule)

func WithName(name string) Option {
	return func(r *Rule) {
		r.name = name
		r.named = name != ""
	}
}

func WithScope(s Scope) Option {
	return func(r *Rule) { r.scope = s }
}

func WithFile(path string) Option {
	return func(r *Rule) { r.scope.File = path }
}

func WithGlob(glob string) Option {
	return func(r *Rule) { r.scope.Glob = glob }
}

// 🏭 NewRule validates and builds a rule. A REGEX rule is compiled here, so a
// bad pattern fails before any file is read.
func NewRule(kind Kind, pattern, replacement string, opts ...Option) (*Rule, error) {
	r := &Rule{
		kind:        kind,
		pattern:     pattern,
		replacement: replacement,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name == "" {
		r.name = defaultName(kind, pattern)
	}

	if pattern == "" {
		return nil, errors.Errorf("%w: %s rule has an empty pattern", ErrInvalidPattern, kind)
	}

	if r.scope.Glob != "" && !doublestar.ValidatePattern(r.scope.Glob) {
		return nil, errors.Errorf("%w: rule %q has a malformed scope glob %q", ErrInvalidPattern, r.name, r.scope.Glob)
	}

	switch kind {
	case KindExactBlock:
	case KindRegex:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Errorf("%w: rule %q: %s", ErrInvalidPattern, r.name, err.Error())
		}
		tmpl, err := translateTemplate(replacement)
		if err != nil {
			return nil, errors.Errorf("%w: rule %q: %s", ErrInvalidPattern, r.name, err.Error())
		}
		if err := checkTemplate(re, tmpl); err != nil {
			return nil, errors.Errorf("%w: rule %q: %s", ErrInvalidPattern, r.name, err.Error())
		}
		r.re = re
		r.template = tmpl
	default:
		return nil, errors.Errorf("%w: rule %q has unknown kind %d", ErrInvalidPattern, r.name, int(kind))
	}

	return r, nil
}

// Exact builds an EXACT_BLOCK rule.
func Exact(pattern, replacement string, opts ...Option) (*Rule, error) {
	return NewRule(KindExactBlock, pattern, replacement, opts...)
}

// Regex builds a REGEX rule.
func Regex(pattern, replacement string, opts ...Option) (*Rule, error) {
	return NewRule(KindRegex, pattern, replacement, opts...)
}

// MustRule is like NewRule but panics on error. Intended for rules known at compile time.
func MustRule(kind Kind, pattern, replacement string, opts ...Option) *Rule {
	r, err := NewRule(kind, pattern, replacement, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rule) Name() string        { return r.name }
func (r *Rule) Kind() Kind          { return r.kind }
func (r *Rule) Pattern() string     { return r.pattern }
func (r *Rule) Replacement() string { return r.replacement }
func (r *Rule) Scope() Scope        { return r.scope }

func (r *Rule) String() string {
	return fmt.Sprintf("%s[%s] %q -> %q", r.name, r.kind, r.pattern, r.replacement)
}

// apply runs the rule once over content and returns the new content, the
// number of occurrences found, and the number replaced.
func (r *Rule) apply(content string) (string, int, int) {
	switch r.kind {
	case KindExactBlock:
		idx := strings.Index(content, r.pattern)
		if idx < 0 {
			return content, 0, 0
		}
		matches := strings.Count(content, r.pattern)
		return content[:idx] + r.replacement + content[idx+len(r.pattern):], matches, 1
	case KindRegex:
		locs := r.re.FindAllStringIndex(content, -1)
		if len(locs) == 0 {
			return content, 0, 0
		}
		return r.re.ReplaceAllString(content, r.template), len(locs), len(locs)
	default:
		return content, 0, 0
	}
}

const defaultNameRunes = 32

// defaultName abbreviates the pattern on a rune boundary. Unnamed rules that
// end up with the same abbreviation are told apart by NewApplicator.
func defaultName(kind Kind, pattern string) string {
	p := strings.ReplaceAll(pattern, "\n", `\n`)
	n := 0
	for i := range p {
		if n == defaultNameRunes {
			p = p[:i] + "..."
			break
		}
		n++
	}
	return kind.String() + ":" + p
}

var backslashRef = regexp.MustCompile(`\\([0-9]|g<)`)

// translateTemplate converts a Python style template (\1, \g<1>, \g<name>)
// into the ${1} form understood by regexp.Expand. Templates without a
// backslash group reference are taken as regexp.Expand templates unchanged.
//
// In a translated template "$" is literal, "\\" is a single backslash and the
// escapes \a \b \f \n \r \t \v are control characters. Any other escaped ASCII
// letter is an error; other escaped characters are kept with their backslash.
func translateTemplate(repl string) (string, error) {
	if !backslashRef.MatchString(repl) {
		return repl, nil
	}

	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c == '$' {
			b.WriteString("$$")
			continue
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(repl) {
			return "", errors.New("replacement ends with a lone backslash")
		}

		next := repl[i+1]
		switch {
		case isDigit(next):
			j := i + 1
			for j < len(repl) && isDigit(repl[j]) {
				j++
			}
			b.WriteString("${" + repl[i+1:j] + "}")
			i = j - 1
		case next == 'g':
			if i+2 >= len(repl) || repl[i+2] != '<' {
				return "", errors.Errorf("missing group name after \\g at offset %d", i)
			}
			end := strings.IndexByte(repl[i+3:], '>')
			if end < 0 {
				return "", errors.Errorf("unterminated group name at offset %d", i)
			}
			name := repl[i+3 : i+3+end]
			if name == "" || !isName(name) {
				return "", errors.Errorf("bad group name %q", name)
			}
			b.WriteString("${" + name + "}")
			i += 3 + end
		case controlEscapes[next] != 0:
			b.WriteByte(controlEscapes[next])
			i++
		case next == '\\':
			b.WriteByte('\\')
			i++
		case isLetter(next):
			return "", errors.Errorf("bad escape \\%c at offset %d", next, i)
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
			i++
		}
	}
	return b.String(), nil
}

var controlEscapes = map[byte]byte{
	'a': '\a',
	'b': '\b',
	'f': '\f',
	'n': '\n',
	'r': '\r',
	't': '\t',
	'v': '\v',
}

// checkTemplate rejects references to groups the expression does not define.
// regexp.Expand would silently substitute an empty string for them.
func checkTemplate(re *regexp.Regexp, tmpl string) error {
	for _, ref := range templateRefs(tmpl) {
		if isAllDigits(ref) {
			n, err := strconv.Atoi(ref)
			if err != nil || n > re.NumSubexp() {
				return errors.Errorf("replacement references group %s but pattern has %d", ref, re.NumSubexp())
			}
			continue
		}
		if re.SubexpIndex(ref) < 0 {
			return errors.Errorf("replacement references unknown group %q", ref)
		}
	}
	return nil
}

// templateRefs lists group names referenced by a regexp.Expand template,
// following the same scanning rules as Expand.
func templateRefs(tmpl string) []string {
	var refs []string
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '$' || i+1 >= len(tmpl) {
			continue
		}
		next := tmpl[i+1]
		switch {
		case next == '$':
			i++
		case next == '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end < 0 {
				continue
			}
			if name := tmpl[i+2 : i+2+end]; name != "" {
				refs = append(refs, name)
			}
			i += 2 + end
		default:
			j := i + 1
			for j < len(tmpl) && isNameByte(tmpl[j]) {
				j++
			}
			if j > i+1 {
				refs = append(refs, tmpl[i+1:j])
			}
			i = j - 1
		}
	}
	return refs
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isNameByte(c byte) bool { return c == '_' || isDigit(c) || isLetter(c) }

func isName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

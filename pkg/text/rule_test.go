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

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		pattern     string
		replacement string
		opts        []Option
		wantInvalid bool
		wantError   string
	}{
		{name: "exact_rule", kind: KindExactBlock, pattern: "foo", replacement: "bar"},
		{name: "regex_rule", kind: KindRegex, pattern: `(\d+)`, replacement: `<\1>`},
		{name: "named_group", kind: KindRegex, pattern: `(?P<num>\d+)`, replacement: `${num}`},
		{name: "empty_replacement", kind: KindExactBlock, pattern: "foo", replacement: ""},
		{
			name:        "empty_exact_pattern",
			kind:        KindExactBlock,
			wantInvalid: true,
			wantError:   "empty pattern",
		},
		{
			name:        "empty_regex_pattern",
			kind:        KindRegex,
			wantInvalid: true,
			wantError:   "empty pattern",
		},
		{
			name:        "malformed_regex",
			kind:        KindRegex,
			pattern:     `\.withOpacity(`,
			wantInvalid: true,
			wantError:   "missing closing )",
		},
		{
			name:        "group_out_of_range",
			kind:        KindRegex,
			pattern:     `(a)`,
			replacement: `\2`,
			wantInvalid: true,
			wantError:   "references group 2",
		},
		{
			name:        "ambiguous_go_reference",
			kind:        KindRegex,
			pattern:     `(a)`,
			replacement: `$1x`,
			wantInvalid: true,
			wantError:   `unknown group "1x"`,
		},
		{
			name:        "bad_scope_glob",
			kind:        KindExactBlock,
			pattern:     "foo",
			opts:        []Option{WithGlob("[")},
			wantInvalid: true,
			wantError:   "malformed scope glob",
		},
		{
			name:        "unknown_kind",
			kind:        KindUnknown,
			pattern:     "foo",
			wantInvalid: true,
			wantError:   "unknown kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewRule(tt.kind, tt.pattern, tt.replacement, tt.opts...)

			if tt.wantInvalid {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPattern)
				assert.Contains(t, err.Error(), tt.wantError)
				assert.Nil(t, rule)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.kind, rule.Kind())
			assert.Equal(t, tt.pattern, rule.Pattern())
			assert.Equal(t, tt.replacement, rule.Replacement())
			assert.NotEmpty(t, rule.Name(), "rule should get a default name")
		})
	}
}

func TestMustRulePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustRule(KindRegex, "(", "")
	})
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "exact", want: KindExactBlock},
		{in: "EXACT_BLOCK", want: KindExactBlock},
		{in: "regex", want: KindRegex},
		{in: " Regexp ", want: KindRegex},
		{in: "glob", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeMatches(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		rel   string
		abs   string
		want  bool
	}{
		{name: "zero_scope", scope: Scope{}, rel: "a/b.go", abs: "/r/a/b.go", want: true},
		{name: "file_relative", scope: Scope{File: "a/b.go"}, rel: "a/b.go", abs: "/r/a/b.go", want: true},
		{name: "file_relative_dot", scope: Scope{File: "./a/b.go"}, rel: "a/b.go", abs: "/r/a/b.go", want: true},
		{name: "file_absolute", scope: Scope{File: "/r/a/b.go"}, rel: "a/b.go", abs: "/r/a/b.go", want: true},
		{name: "file_other", scope: Scope{File: "a/c.go"}, rel: "a/b.go", abs: "/r/a/b.go", want: false},
		{name: "glob_match", scope: Scope{Glob: "**/*.go"}, rel: "a/b.go", want: true},
		{name: "glob_miss", scope: Scope{Glob: "**/*.dart"}, rel: "a/b.go", want: false},
		{name: "file_and_glob", scope: Scope{File: "a/b.go", Glob: "a/*"}, rel: "a/b.go", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Matches(tt.rel, tt.abs))
		})
	}
}

func TestTranslateTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `.withValues(alpha: \1)`, want: `.withValues(alpha: ${1})`},
		{in: `\1\2`, want: `${1}${2}`},
		{in: `\12`, want: `${12}`},
		{in: `$\1`, want: `$$${1}`},
		{in: `\\\1`, want: `\${1}`},
		{in: `$1 stays`, want: `$1 stays`},
		{in: `no refs`, want: `no refs`},
		{in: `\1(\n\1  x`, want: "${1}(\n${1}  x"},
		{in: `\g<1>\t\g<name>`, want: "${1}\t${name}"},
		{in: `\1\r\a\f\v\b`, want: "${1}\r\a\f\v\b"},
		{in: `\1\.\(`, want: `${1}\.\(`},
		{in: `tab\t only`, want: `tab\t only`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := translateTemplate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "unknown_letter_escape", in: `\1\q`, want: "bad escape"},
		{name: "trailing_backslash", in: `\1\`, want: "lone backslash"},
		{name: "g_without_bracket", in: `\1\g1`, want: "missing group name"},
		{name: "unterminated_group", in: `\g<1`, want: "unterminated"},
		{name: "bad_group_name", in: `\g<a-b>`, want: "bad group name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translateTemplate(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTemplateRefs(t *testing.T) {
	assert.Equal(t, []string{"1", "name", "2x"}, templateRefs(`$1 ${name} $$ $2x`))
	assert.Empty(t, templateRefs(`plain $$ text $`))
}

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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// FileTarget is a file path with the content snapshot read for this run.
type FileTarget struct {
	Path    string // absolute path
	Rel     string // slash separated path relative to the run root, used for scoping
	Content string
}

// RuleCount is the outcome of a single rule on a single input.
type RuleCount struct {
	Rule         string
	Kind         Kind
	Matches      int // occurrences present when the rule ran
	Replacements int // occurrences rewritten
}

// ReplacementResult is the outcome of applying a rule list to one input.
type ReplacementResult struct {
	// OriginalContent is the content before any rule ran
	OriginalContent string

	// ModifiedContent is the content after every rule ran. It is
	// OriginalContent itself when ReplacementCount is zero.
	ModifiedContent string

	// WasModified indicates if any replacements were made
	WasModified bool

	MatchCount       int
	ReplacementCount int

	// Rules holds one entry per applied rule, in application order
	Rules []RuleCount
}

// Count returns the counts recorded for the named rule.
func (r *ReplacementResult) Count(name string) (RuleCount, bool) {
	for _, rc := range r.Rules {
		if rc.Rule == name {
			return rc, true
		}
	}
	return RuleCount{}, false
}

// 🔄 Apply runs every rule once, in order, each over the output of the
// previous one. It has no failure mode: rules are validated when built.
// Nil entries are skipped and get no count.
func Apply(content string, rules []*Rule) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
		Rules:           make([]RuleCount, 0, len(rules)),
	}

	current := content
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		next, matches, replaced := rule.apply(current)

		result.Rules = append(result.Rules, RuleCount{
			Rule:         rule.name,
			Kind:         rule.kind,
			Matches:      matches,
			Replacements: replaced,
		})
		result.MatchCount += matches
		result.ReplacementCount += replaced

		current = next
	}

	if result.ReplacementCount > 0 {
		result.WasModified = true
		result.ModifiedContent = current
	}

	return result
}

// ForPath returns the rules whose scope admits the file, keeping their order.
func ForPath(rules []*Rule, rel, abs string) []*Rule {
	out := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		if r != nil && r.scope.Matches(rel, abs) {
			out = append(out, r)
		}
	}
	return out
}

// 🎯 Applicator holds the fixed, ordered rule set of one batch run.
type Applicator struct {
	rules []*Rule
}

// NewApplicator checks that the rule set is usable and takes a copy of it.
// An unnamed rule whose default name is already taken is renamed with its
// index, e.g. "exact:foo#3".
func NewApplicator(rules ...*Rule) (*Applicator, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if rule.named {
			taken[rule.name] = true
		}
	}

	cp := make([]*Rule, len(rules))
	for i, rule := range rules {
		if !rule.named {
			if taken[rule.name] {
				renamed := *rule
				renamed.name = fmt.Sprintf("%s#%d", rule.name, i)
				rule = &renamed
			}
			taken[rule.name] = true
		}
		cp[i] = rule
	}
	return &Applicator{rules: cp}, nil
}

// Rules returns the rule set in declaration order.
func (a *Applicator) Rules() []*Rule {
	cp := make([]*Rule, len(a.rules))
	copy(cp, a.rules)
	return cp
}

// Apply applies the rules in scope for the target to its content.
func (a *Applicator) Apply(target FileTarget) *ReplacementResult {
	return Apply(target.Content, ForPath(a.rules, target.Rel, target.Path))
}

// ValidateRules checks a rule list before a run: no nil entries and no two
// explicitly named rules sharing a name, since names identify rules in the
// report.
func ValidateRules(rules []*Rule) error {
	seen := make(map[string]int, len(rules))
	for i, rule := range rules {
		if rule == nil {
			return errors.Errorf("rule %d: is nil", i)
		}
		if !rule.named {
			continue
		}
		if prev, ok := seen[rule.name]; ok {
			return errors.Errorf("rule %d: name %q already used by rule %d", i, rule.name, prev)
		}
		seen[rule.name] = i
	}
	return nil
}

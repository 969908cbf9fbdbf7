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

package text_test

import (
	"fmt"

	"github.com/walteh/rewriterc/pkg/text"
)

func ExampleApply() {
	// Create the rules
	opacity := text.MustRule(text.KindRegex, `\.withOpacity\(([0-9.]+)\)`, `.withValues(alpha: \1)`, text.WithName("opacity"))
	mounted := text.MustRule(text.KindExactBlock, "await save();\n", "await save();\nif (!mounted) return;\n", text.WithName("mounted"))

	content := "await save();\nfoo.withOpacity(0.5);\nbar.withOpacity(1.0);\n"

	// Apply in declaration order
	result := text.Apply(content, []*text.Rule{mounted, opacity})

	fmt.Print(result.ModifiedContent)
	for _, rc := range result.Rules {
		fmt.Printf("%s: %d\n", rc.Rule, rc.Replacements)
	}
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// await save();
	// if (!mounted) return;
	// foo.withValues(alpha: 0.5);
	// bar.withValues(alpha: 1.0);
	// mounted: 1
	// opacity: 2
	// Was Modified: true
}

func ExampleNewRule() {
	// A malformed expression is rejected when the rule is built
	_, err := text.NewRule(text.KindRegex, `\.withOpacity(`, `.withValues(alpha: \1)`, text.WithName("opacity"))
	fmt.Println(err)

	// Output:
	// invalid pattern: rule "opacity": error parsing regexp: missing closing ): `\.withOpacity(`
}

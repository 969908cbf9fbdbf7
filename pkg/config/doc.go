// Package config loads rule-set files: the ordered rules of a batch rewrite plus
// the file selection they run against.
//
// 🎯 Purpose:
// - Decodes rule sets written in YAML, HCL or JSON
// - Validates structure with validator tags and compiles every rule up front
// - Supplies CLI defaults from REWRITERC_* environment variables
//
// 🔄 Flow:
// 1. GetParser picks a registered Parser by file name
// 2. The parser decodes into Config, rejecting unknown fields
// 3. Validate checks required fields, then builds every rule
// 4. Callers use BuildRules and Filter to drive a run
//
// 📝 YAML:
//
//	root: lib
//	extensions: [".dart"]
//	exclude: ["**/generated/**"]
//	rules:
//	  - name: opacity
//	    kind: regex
//	    pattern: '\.withOpacity\(([0-9.]+)\)'
//	    replacement: '.withValues(alpha: \1)'
//
// 📝 HCL:
//
//	root       = "lib"
//	extensions = [".dart"]
//
//	rule "opacity" {
//	  kind        = "regex"
//	  pattern     = "\\.withOpacity\\(([0-9.]+)\\)"
//	  replacement = ".withValues(alpha: \\1)"
//	}
//
// HCL evaluates ${...} inside strings, so Go style group references must be
// written $${1}. The sed style \\1 form needs no escaping. Environment variables
// are available as env.NAME.
//
// A config file named .rewriterc may hold either YAML or HCL.
//
// Relative root and paths entries resolve against the directory holding the
// config file. A rule's file and glob scopes do not: they match paths relative
// to the run root, so with root = "lib" the file lib/x.dart is scoped as x.dart.
package config

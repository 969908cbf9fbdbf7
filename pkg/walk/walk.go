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

// Package walk enumerates the files a batch rewrite runs over.
package walk

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when a root or an explicit target does not exist.
	ErrNotFound = errors.Base("not found")
	// ErrIO marks a read, write or traversal failure on a single path; see IOError.
	ErrIO = errors.Base("io error")
)

// 🧱 IOError describes a failed read, write or traversal of a single path.
// It matches ErrIO and unwraps to the underlying cause.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// version control metadata is never a rewrite target
var skipDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// 🔍 Filter selects candidate files. The zero value selects every regular file.
type Filter struct {
	Extensions []string // ".dart" or "dart"; matched as a case sensitive suffix of the name
	Include    []string // doublestar globs over the root-relative slash path; any must match
	Exclude    []string // doublestar globs; a match drops the file or prunes the directory
}

// Validate checks that every glob in the filter is well formed.
func (f Filter) Validate() error {
	for _, p := range f.Include {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("include pattern %q is malformed", p)
		}
	}
	for _, p := range f.Exclude {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("exclude pattern %q is malformed", p)
		}
	}
	return nil
}

// Matches reports whether a file at the root-relative slash path is selected.
func (f Filter) Matches(rel string) bool {
	if len(f.Extensions) > 0 && !hasExtension(rel, f.Extensions) {
		return false
	}
	if f.excluded(rel) {
		return false
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, p := range f.Include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (f Filter) excluded(rel string) bool {
	for _, p := range f.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func hasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// 📁 Enumerate lists the files under root selected by filter as absolute paths.
//
// The root is checked up front; a missing root fails with ErrNotFound before
// anything is yielded. The sequence itself is lazy and each range over it
// walks the tree again. Entries of every directory are visited in lexical
// order, so an unchanged tree always yields the same sequence. A directory
// that cannot be read is yielded as a (path, error) pair wrapping ErrIO and
// the walk continues with its siblings. Symbolic links are not followed and
// are never yielded.
func Enumerate(root string, filter Filter) (iter.Seq2[string, error], error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: root %s", ErrNotFound, root)
		}
		return nil, &IOError{Op: "stat", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%w: root %s is not a directory", ErrNotFound, root)
	}

	if err := filter.Validate(); err != nil {
		return nil, errors.Errorf("validating filter: %w", err)
	}

	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, &IOError{Op: "walk", Path: path, Err: err}) {
					return filepath.SkipAll
				}
				if path == abs {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel := Rel(abs, path)

			if d.IsDir() {
				if path != abs && (skipDirs[d.Name()] || filter.excluded(rel)) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || !filter.Matches(rel) {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// 📋 Paths turns an explicit file list into the same sequence shape as
// Enumerate. Every entry must be an existing regular file; otherwise the call
// fails with ErrNotFound and nothing is yielded. A symbolic link to a regular
// file is accepted and kept as given. Duplicates are dropped,
// keeping the first occurrence.
func Paths(paths []string) (iter.Seq2[string, error], error) {
	seen := make(map[string]bool, len(paths))
	resolved := make([]string, 0, len(paths))

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Errorf("resolving path %s: %w", p, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errors.Errorf("%w: file %s", ErrNotFound, p)
			}
			return nil, &IOError{Op: "stat", Path: p, Err: err}
		}
		if !info.Mode().IsRegular() {
			return nil, errors.Errorf("%w: %s is not a regular file", ErrNotFound, p)
		}

		if seen[abs] {
			continue
		}
		seen[abs] = true
		resolved = append(resolved, abs)
	}

	return func(yield func(string, error) bool) {
		for _, p := range resolved {
			if !yield(p, nil) {
				return
			}
		}
	}, nil
}

// Rel returns path relative to root in slash form. Paths outside root are
// returned absolute, in slash form.
func Rel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for p, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}

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
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 FileManager reads and persists rewrite targets.
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// WriteFileAtomic replaces the file content in one step, keeping its mode.
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

// OSFileManager implements FileManager on the local file system.
type OSFileManager struct{}

func NewOSFileManager() *OSFileManager {
	return &OSFileManager{}
}

func (m *OSFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFileAtomic writes to a temporary file next to the target and renames it
// over the target, so a failed write never leaves a truncated file behind.
// A symbolic link is resolved first; the file it points to is replaced and
// the link is kept.
func (m *OSFileManager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	path, err := filepath.EvalSymlinks(path)
	if err != nil {
		return errors.Errorf("resolving target: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stat target: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".rewriterc-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		if rerr := os.Remove(tmpPath); rerr != nil && !os.IsNotExist(rerr) {
			zerolog.Ctx(ctx).Debug().Err(rerr).Str("path", tmpPath).Msg("removing temp file")
		}
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		cleanup()
		return errors.Errorf("setting file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

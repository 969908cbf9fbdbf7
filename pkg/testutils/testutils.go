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

// Package testutils holds helpers shared by the package tests.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Context returns a context carrying a zerolog logger that writes to the test log
func Context(t testing.TB) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// OldModTime is the mtime WriteTree gives every file, so tests can tell
// whether a file was rewritten
var OldModTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// WriteTree creates the files under a fresh temp dir and returns the dir.
// Names are slash separated paths relative to the dir.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating dir for %s", name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing %s", name)
		require.NoError(t, os.Chtimes(path, OldModTime, OldModTime), "setting mtime of %s", name)
	}
	return root
}

// ReadFile returns the content of a file written by WriteTree
func ReadFile(t testing.TB, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err, "reading %s", name)
	return string(b)
}

// ModTime returns the mtime of a file written by WriteTree
func ModTime(t testing.TB, root, name string) time.Time {
	t.Helper()
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err, "stat %s", name)
	return info.ModTime()
}

// MockFileManager is a testify mock of status.FileManager
type MockFileManager struct {
	mock.Mock
}

func NewMockFileManager(t testing.TB) *MockFileManager {
	m := &MockFileManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	ret := m.Called(ctx, path)
	var b []byte
	if v := ret.Get(0); v != nil {
		b = v.([]byte)
	}
	return b, ret.Error(1)
}

func (m *MockFileManager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	return m.Called(ctx, path, content).Error(0)
}

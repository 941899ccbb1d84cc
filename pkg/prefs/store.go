package prefs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/semaphore"

	"github.com/entrhq/launchpad/pkg/types"
)

// DefaultPoolSize bounds how many preference file operations run at once.
const DefaultPoolSize = 4

// FileName is the preference file location relative to the user data dir.
var FileName = filepath.Join("Default", "Preferences")

// PathFor returns the preference file path inside a user data directory.
func PathFor(userDataDir string) string {
	return filepath.Join(userDataDir, FileName)
}

// Store reads and writes preference files on a bounded pool of goroutines.
//
// Each call blocks until its own operation has finished, so a write followed
// by a read from the same caller observes the write. Store does not
// serialise callers against each other: two read-modify-write sequences on
// the same file from different callers can lose an update.
type Store struct {
	sem *semaphore.Weighted
}

// NewStore creates a store that runs at most size operations concurrently.
func NewStore(size int) *Store {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Store{sem: semaphore.NewWeighted(int64(size))}
}

type result struct {
	data map[string]any
	err  error
}

// submit runs fn on the pool and waits for it. ctx bounds the wait for a
// slot and for the result; an operation that has started runs to completion.
func (s *Store) submit(ctx context.Context, fn func() (map[string]any, error)) (map[string]any, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	done := make(chan result, 1)
	go func() {
		defer s.sem.Release(1)
		data, err := fn()
		done <- result{data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Read parses the preference file at path.
// It fails with a NotFound error if the file is absent and a Parse error if
// the content is not a JSON object.
func (s *Store) Read(ctx context.Context, path string) (map[string]any, error) {
	return s.submit(ctx, func() (map[string]any, error) {
		return readFile(path)
	})
}

// Write replaces the preference file at path with tree, creating parent
// directories as needed.
func (s *Store) Write(ctx context.Context, tree map[string]any, path string) error {
	_, err := s.submit(ctx, func() (map[string]any, error) {
		return nil, writeFile(tree, path)
	})
	return err
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.WrapError(types.KindNotFound, "read preferences", path, err)
		}
		return nil, types.WrapError(types.KindIO, "read preferences", path, err)
	}

	// UseNumber keeps integers such as int64 timestamps exact on rewrite
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var prefs map[string]any
	if err := decoder.Decode(&prefs); err != nil {
		return nil, types.WrapError(types.KindParse, "read preferences", path, err)
	}
	if prefs == nil {
		return nil, types.NewError(types.KindParse, "read preferences", path, "document is not a JSON object")
	}
	return prefs, nil
}

// writeFile encodes tree into memory, writes it to a sibling temp file in
// one call and renames it over path.
func writeFile(tree map[string]any, path string) error {
	if tree == nil {
		tree = map[string]any{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tree); err != nil {
		return types.WrapError(types.KindIO, "encode preferences", path, err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.WrapError(types.KindIO, "create preferences directory", dir, err)
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return types.WrapError(types.KindIO, "create temp preferences file", tempPath, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return types.WrapError(types.KindIO, "write preferences", tempPath, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return types.WrapError(types.KindIO, "close temp preferences file", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return types.WrapError(types.KindIO, "replace preferences", path, fmt.Errorf("rename: %w", err))
	}
	return nil
}

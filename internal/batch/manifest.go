package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"envoi/internal/storage"
)

// ErrManifestBusy is returned when another process is writing the same manifest.
var ErrManifestBusy = errors.New("manifest is being written by another process")

// Entry is one manifest row.
type Entry struct {
	Bucket string
	Key    string
}

// EntriesFor maps listed objects to manifest rows, preserving order.
func EntriesFor(objects []storage.Object) []Entry {
	entries := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, Entry{Bucket: obj.Bucket, Key: obj.Key})
	}
	return entries
}

// ManifestFile is a local manifest guarded by an advisory lock, so two runs
// sharing a manifest directory cannot interleave writes.
type ManifestFile struct {
	path string
	lock *flock.Flock
}

// NewManifestFile returns a manifest at path. The lock lives beside it.
func NewManifestFile(path string) *ManifestFile {
	return &ManifestFile{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the manifest location.
func (m *ManifestFile) Path() string { return m.path }

// Write replaces the manifest with entries, one "bucket,key" row each.
func (m *ManifestFile) Write(entries []Entry) (err error) {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("ensure manifest directory: %w", err)
	}
	locked, err := m.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire manifest lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrManifestBusy, m.path)
	}
	defer func() { _ = m.lock.Unlock() }()

	file, err := os.Create(m.path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close manifest: %w", closeErr)
		}
	}()

	w := csv.NewWriter(file)
	for _, entry := range entries {
		if err := w.Write([]string{entry.Bucket, entry.Key}); err != nil {
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}
	return nil
}

// Package storage provides file-based persistence for ledger slots.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tradeledger/internal/common"
	"tradeledger/internal/interfaces"
	"tradeledger/internal/models"
)

// FileStore persists ledger slots as JSON files under a base
// directory, one file per slot. Writes go to a temp file in the same
// directory followed by a rename, so a concurrent reader never
// observes a half-written snapshot.
//
// The mutex serializes check-then-write sequences within this process
// only. Independent processes sharing a slot still race between the
// metadata check and the rename; the session layer's freshness check
// narrows that window but does not close it.
type FileStore struct {
	basePath string
	logger   *common.Logger
	mu       sync.Mutex
}

// NewFileStore creates a FileStore rooted at the given directory.
func NewFileStore(logger *common.Logger, path string) (*FileStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", path, err)
	}
	logger.Debug().Str("path", path).Msg("FileStore opened")
	return &FileStore{basePath: path, logger: logger}, nil
}

// sanitizeKey makes a key safe for use as a filename. Replaces /, \, :
// with _ and collapses ".." to "_" to prevent path traversal.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

// slotPath returns the file path backing a slot.
func (fs *FileStore) slotPath(slot string) string {
	return filepath.Join(fs.basePath, sanitizeKey(slot)+".json")
}

// Load reads and decodes the slot's current snapshot.
func (fs *FileStore) Load(ctx context.Context, slot string) (*models.Ledger, error) {
	path := fs.slotPath(slot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", interfaces.ErrSlotNotFound, slot)
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", slot, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", interfaces.ErrSlotCorrupt, slot)
	}

	var ledger models.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", interfaces.ErrSlotCorrupt, slot, err)
	}
	return &ledger, nil
}

// LoadMeta reads only the slot's conflict-detection metadata.
func (fs *FileStore) LoadMeta(ctx context.Context, slot string) (models.Meta, error) {
	path := fs.slotPath(slot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Meta{}, fmt.Errorf("%w: %q", interfaces.ErrSlotNotFound, slot)
		}
		return models.Meta{}, fmt.Errorf("failed to read slot %q: %w", slot, err)
	}

	var meta models.Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return models.Meta{}, fmt.Errorf("%w: %q: %v", interfaces.ErrSlotCorrupt, slot, err)
	}
	return meta, nil
}

// Save atomically replaces the slot's snapshot.
func (fs *FileStore) Save(ctx context.Context, slot string, ledger *models.Ledger) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.saveLocked(slot, ledger)
}

// CompareAndSwap writes the ledger only if the slot's on-disk metadata
// still equals expected.
func (fs *FileStore) CompareAndSwap(ctx context.Context, slot string, expected models.Meta, ledger *models.Ledger) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	current, err := fs.LoadMeta(ctx, slot)
	if err != nil {
		return err
	}
	if !current.LastEdit.Equal(expected.LastEdit) || current.Editor != expected.Editor {
		fs.logger.Debug().
			Str("slot", slot).
			Str("expected_editor", expected.Editor).
			Str("current_editor", current.Editor).
			Msg("Compare-and-swap rejected")
		return fmt.Errorf("%w: %q", interfaces.ErrConflict, slot)
	}
	return fs.saveLocked(slot, ledger)
}

// saveLocked marshals the ledger to indented JSON and writes it via
// temp file + rename. Callers hold fs.mu.
func (fs *FileStore) saveLocked(slot string, ledger *models.Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	data = append(data, '\n')

	if err := fs.writeAtomic(fs.basePath, fs.slotPath(slot), data); err != nil {
		return err
	}
	fs.logger.Debug().Str("slot", slot).Str("editor", ledger.Editor).Msg("Ledger saved")
	return nil
}

// WriteRaw writes arbitrary binary data atomically under a
// subdirectory of the store (e.g. chart output). The key is sanitized
// for safe filenames.
func (fs *FileStore) WriteRaw(subdir, key string, data []byte) error {
	dir := filepath.Join(fs.basePath, sanitizeKey(subdir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return fs.writeAtomic(dir, filepath.Join(dir, sanitizeKey(key)), data)
}

// writeAtomic writes data to target via a temp file in dir + rename.
func (fs *FileStore) writeAtomic(dir, target string, data []byte) error {
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

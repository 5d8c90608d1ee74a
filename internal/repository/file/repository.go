// Package file persists the stock map as a JSON snapshot on local disk.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Repository reads and writes the inventory snapshot file.
type Repository struct {
	path   string
	logger *zap.Logger
}

// NewRepository builds a snapshot repository for the given file path.
func NewRepository(path string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, logger: logger}
}

// Load reads the snapshot file. A missing file starts an empty inventory
// with a warning; a file that cannot be decoded also starts empty so a bad
// snapshot never blocks startup.
func (r *Repository) Load() (map[string]int, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("snapshot file not found, starting with empty inventory", zap.String("path", r.path))
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", r.path, err)
	}

	stock := map[string]int{}
	if err := json.Unmarshal(data, &stock); err != nil {
		r.logger.Error("could not decode snapshot, starting with empty inventory", zap.String("path", r.path), zap.Error(err))
		return map[string]int{}, nil
	}

	r.logger.Info("snapshot loaded", zap.String("path", r.path), zap.Int("items", len(stock)))
	return stock, nil
}

// Save writes the stock map as indented JSON. The write goes to a temp file
// in the same directory followed by a rename so a crash mid-write never
// leaves a truncated snapshot.
func (r *Repository) Save(stock map[string]int) error {
	data, err := json.MarshalIndent(stock, "", "    ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot in %s: %w", dir, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot %s: %w", r.path, err)
	}

	r.logger.Info("snapshot saved", zap.String("path", r.path), zap.Int("items", len(stock)))
	return nil
}

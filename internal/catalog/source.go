// Package catalog loads the per-level word lists the game draws from.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dazhangman/internal/models"
)

// ErrCatalogUnavailable means no word list exists for the requested level
var ErrCatalogUnavailable = errors.New("word list unavailable")

// supportedExtensions in lookup order
var supportedExtensions = []string{".txt", ".csv", ".xlsx"}

// Source provides word lists and a version stamp used for cache invalidation
type Source interface {
	Version(level models.Level) (time.Time, error)
	Read(level models.Level) ([]models.WordEntry, error)
}

// FileSource reads <dir>/<level>.txt, .csv or .xlsx
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir returns the directory the source reads from
func (s *FileSource) Dir() string {
	return s.dir
}

func (s *FileSource) path(level models.Level) (string, os.FileInfo, error) {
	for _, ext := range supportedExtensions {
		p := filepath.Join(s.dir, string(level)+ext)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, info, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
	}
	return "", nil, fmt.Errorf("%w: level %s in %s", ErrCatalogUnavailable, level, s.dir)
}

// Version returns the modification time of the level's file
func (s *FileSource) Version(level models.Level) (time.Time, error) {
	_, info, err := s.path(level)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Read parses and normalizes the level's file
func (s *FileSource) Read(level models.Level) ([]models.WordEntry, error) {
	p, _, err := s.path(level)
	if err != nil {
		return nil, err
	}
	rows, err := ReadRows(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return Normalize(rows, level), nil
}

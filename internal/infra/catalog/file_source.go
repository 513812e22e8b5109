package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/TestimonialCarousel/internal/domain"
)

// FileSource reads the catalog from a JSON or YAML file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Path() string {
	return s.path
}

// Load decodes the file. A missing file yields DefaultItems.
func (s *FileSource) Load(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Catalog file not found, using built-in testimonials", "path", s.path)
		return DefaultItems(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", s.path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close catalog file", "path", s.path, "error", err)
		}
	}()

	items, err := Decode(f, FormatFor(s.path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.path, err)
	}

	slog.Info("Catalog loaded", "source", s.Name(), "path", s.path, "items", len(items))
	return items, nil
}

// Package catalog loads the testimonial collection from files, HTTP
// endpoints or built-in defaults.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TestimonialCarousel/internal/domain"
)

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type document struct {
	Items []domain.Item `json:"items" yaml:"items"`
}

// Decode reads a catalog document. Both {"items": [...]} and a bare list are
// accepted. The result is normalized.
func Decode(r io.Reader, format Format) ([]domain.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	unmarshal := json.Unmarshal
	if format == FormatYAML {
		unmarshal = yaml.Unmarshal
	}

	var doc document
	if err := unmarshal(data, &doc); err == nil {
		return Normalize(doc.Items), nil
	}

	var items []domain.Item
	if err := unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s catalog: %w", format, err)
	}
	return Normalize(items), nil
}

// Normalize fills in missing ids, drops entries with neither a name nor a
// quote, drops duplicate ids (first wins) and renumbers Order by position
// after a stable sort on the declared order.
func Normalize(items []domain.Item) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, it := range items {
		if it.Name == "" && it.Quote == "" {
			slog.Warn("Skipping empty testimonial", "id", it.ID)
			continue
		}
		if it.ID == "" {
			it.ID = it.ComputeID()
		}
		if seen[it.ID] {
			slog.Warn("Skipping duplicate testimonial", "id", it.ID)
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}

package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// MaxRating is the number of stars a testimonial can show.
const MaxRating = 5

// Item represents a single testimonial shown by the carousel.
type Item struct {
	ID       string   `json:"id" yaml:"id" bson:"_id"`
	Name     string   `json:"name" yaml:"name" bson:"name"`
	Position string   `json:"position,omitempty" yaml:"position,omitempty" bson:"position"`
	Company  string   `json:"company,omitempty" yaml:"company,omitempty" bson:"company"`
	Avatar   string   `json:"avatar,omitempty" yaml:"avatar,omitempty" bson:"avatar"`
	Quote    string   `json:"quote" yaml:"quote" bson:"quote"`
	Rating   int      `json:"rating" yaml:"rating" bson:"rating"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty" bson:"category"` // e.g., "Tech Industry"
	Metrics  []Metric `json:"metrics,omitempty" yaml:"metrics,omitempty" bson:"metrics"`
	Order    int      `json:"order" yaml:"order" bson:"order"` // Position in the catalog
}

// Metric is a headline number attached to a testimonial.
type Metric struct {
	Value string `json:"value" yaml:"value" bson:"value"` // e.g., "250%"
	Label string `json:"label" yaml:"label" bson:"label"`
}

// ComputeID derives a stable identifier from the testimonial's content.
// Catalog files may omit ids, and reloading the same file must produce the same ids.
func (i *Item) ComputeID() string {
	hasher := sha256.New()
	hasher.Write([]byte(i.Name))
	hasher.Write([]byte(i.Company))
	hasher.Write([]byte(i.Quote))
	return hex.EncodeToString(hasher.Sum(nil))[:12]
}

// Stars returns the rating clamped to [0, MaxRating].
func (i Item) Stars() int {
	switch {
	case i.Rating < 0:
		return 0
	case i.Rating > MaxRating:
		return MaxRating
	default:
		return i.Rating
	}
}

// SameContent reports whether two items would render identically.
func (i Item) SameContent(other Item) bool {
	if i.ID != other.ID || i.Name != other.Name || i.Position != other.Position ||
		i.Company != other.Company || i.Avatar != other.Avatar || i.Quote != other.Quote ||
		i.Rating != other.Rating || i.Category != other.Category || len(i.Metrics) != len(other.Metrics) {
		return false
	}
	for idx := range i.Metrics {
		if i.Metrics[idx] != other.Metrics[idx] {
			return false
		}
	}
	return true
}

// ItemReader handles catalog retrieval.
type ItemReader interface {
	List(ctx context.Context) ([]Item, error)
}

// ItemWriter handles catalog persistence.
type ItemWriter interface {
	Upsert(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}

// ItemRepository is the composite store used when the catalog lives in a database.
type ItemRepository interface {
	ItemReader
	ItemWriter
}

package domain

import "context"

// CatalogSource supplies the static item list the carousel is built from.
type CatalogSource interface {
	Load(ctx context.Context) ([]Item, error)
	Name() string
}

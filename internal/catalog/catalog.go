// Package catalog seeds the product table from gzipped JSON-lines files,
// read from S3 or the local file system.
package catalog

import (
	"context"

	"prolens/internal/model"
)

// Loader reads a gzipped JSON-lines catalog file. Each non-blank line is one product.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.ProductRequest, error)
}

// Store receives imported products. Existing (brand, name) pairs are left untouched.
type Store interface {
	InsertIfAbsent(ctx context.Context, p *model.Product) (bool, error)
}

// Summary reports what an import did.
type Summary struct {
	Files    int
	Read     int
	Inserted int
	Existing int
	Invalid  int
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the equipment category of a rental product.
type Category string

const (
	CategoryMirrorless  Category = "Mirrorless"
	CategoryDSLR        Category = "DSLR"
	CategoryLenses      Category = "Lenses"
	CategoryLighting    Category = "Lighting"
	CategoryStabilizers Category = "Stabilizers"
	CategoryAudio       Category = "Audio"
	CategoryAccessories Category = "Accessories"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMirrorless,
	CategoryDSLR,
	CategoryLenses,
	CategoryLighting,
	CategoryStabilizers,
	CategoryAudio,
	CategoryAccessories,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a piece of rentable photography equipment.
type Product struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Brand          string          `json:"brand" db:"brand"`
	Category       Category        `json:"category" db:"category"`
	RentalPrice    decimal.Decimal `json:"rentalPrice" db:"rental_price"`
	Stock          int             `json:"stock" db:"stock"`
	Description    string          `json:"description" db:"description"`
	Specifications string          `json:"specifications" db:"specifications"`
	IncludedItems  string          `json:"includedItems" db:"included_items"`
	Thumbnail      string          `json:"thumbnail" db:"thumbnail"`
	Images         []string        `json:"images" db:"images"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductSummary is the subset of product data embedded in cart lines.
type ProductSummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	RentalPrice decimal.Decimal `json:"rentalPrice"`
	Thumbnail   string          `json:"thumbnail"`
	Stock       int             `json:"stock"`
}

// ProductRequest represents the admin payload for creating or replacing a product.
type ProductRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Brand          string          `json:"brand" validate:"omitempty,max=100"`
	Category       Category        `json:"category" validate:"required,category"`
	RentalPrice    decimal.Decimal `json:"rentalPrice" validate:"gt=0"`
	Stock          *int            `json:"stock" validate:"required,min=0"`
	Description    string          `json:"description" validate:"required"`
	Specifications string          `json:"specifications"`
	IncludedItems  string          `json:"includedItems"`
	Thumbnail      string          `json:"thumbnail" validate:"required,max=500"`
	Images         []string        `json:"images" validate:"omitempty,max=20,dive,max=500"`
}

// ToProduct converts the request into a product value. Brand defaults to "Generic".
func (r *ProductRequest) ToProduct() Product {
	brand := r.Brand
	if brand == "" {
		brand = "Generic"
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	stock := 0
	if r.Stock != nil {
		stock = *r.Stock
	}
	return Product{
		Name:           r.Name,
		Brand:          brand,
		Category:       r.Category,
		RentalPrice:    r.RentalPrice,
		Stock:          stock,
		Description:    r.Description,
		Specifications: r.Specifications,
		IncludedItems:  r.IncludedItems,
		Thumbnail:      r.Thumbnail,
		Images:         images,
	}
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category Category
	Limit    int
	Offset   int
}

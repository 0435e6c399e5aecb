//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"prolens/internal/model"

	"github.com/shopspring/decimal"
)

// generateSampleCatalog writes two gzipped JSON-lines seed files.
// The A7 IV appears in both files, so a second import reports it as existing.
// The last entry of lighting.jsonl.gz has an unknown category and is skipped on import.
//
//	go run scripts/generate_sample_catalog.go
//	CATALOG_SEED_FILES=data/catalog/cameras.jsonl.gz,data/catalog/lighting.jsonl.gz
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := map[string][]model.ProductRequest{
		"cameras.jsonl.gz": {
			product("A7 IV", "Sony", model.CategoryMirrorless, "45.00", 4, "33MP full-frame hybrid body"),
			product("EOS R6 Mark II", "Canon", model.CategoryMirrorless, "52.50", 3, "24MP full-frame, 40fps burst"),
			product("D850", "Nikon", model.CategoryDSLR, "38.00", 2, "45.7MP full-frame DSLR"),
			product("RF 24-70mm f/2.8L", "Canon", model.CategoryLenses, "27.00", 5, "Standard zoom, IS"),
			product("FE 85mm f/1.4 GM", "Sony", model.CategoryLenses, "22.00", 3, "Portrait prime"),
		},
		"lighting.jsonl.gz": {
			product("A7 IV", "Sony", model.CategoryMirrorless, "45.00", 4, "33MP full-frame hybrid body"),
			product("LS 300d II", "Aputure", model.CategoryLighting, "25.00", 6, "300W daylight COB"),
			product("RS 3 Pro", "DJI", model.CategoryStabilizers, "30.00", 2, "3-axis gimbal, 4.5kg payload"),
			product("NTG5", "Rode", model.CategoryAudio, "12.00", 8, "Broadcast shotgun microphone"),
			product("V-Mount 150Wh", "", model.CategoryAccessories, "6.50", 12, "Battery with D-Tap"),
			product("Mavic 3", "DJI", "Drones", "60.00", 1, "Not rentable from this shop"),
		},
	}

	for filename, products := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createCatalogFile(filePath, products); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d products\n", filePath, len(products))
	}

	fmt.Println("\nSample catalog files created successfully!")
}

func product(name, brand string, category model.Category, price string, stock int, description string) model.ProductRequest {
	return model.ProductRequest{
		Name:        name,
		Brand:       brand,
		Category:    category,
		RentalPrice: decimal.RequireFromString(price),
		Stock:       &stock,
		Description: description,
		Thumbnail:   "https://cdn.prolens.example/thumbs/placeholder.jpg",
	}
}

func createCatalogFile(filePath string, products []model.ProductRequest) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to write product %s: %w", p.Name, err)
		}
	}

	return nil
}

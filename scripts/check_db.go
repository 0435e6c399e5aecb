//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"prolens/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// checkDB connects with the API's database settings and prints row counts per table.
//
//	go run scripts/check_db.go
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	fmt.Println("\nTables:")
	for _, table := range []string{"users", "products", "cart_items", "shipping", "orders", "reviews"} {
		var count int64
		err := conn.QueryRow(ctx, "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&count)
		if err != nil {
			fmt.Printf("  - %-18s missing (%v)\n", table, err)
			continue
		}
		fmt.Printf("  - %-18s %d rows\n", table, count)
	}
}

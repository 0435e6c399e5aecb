// Command issue-token signs a bearer token for local testing against the API.
//
//	JWT_SECRET=dev go run ./cmd/issue-token -user 7 -email ana@example.com -role admin
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"prolens/internal/auth"
	"prolens/internal/model"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	userID := fs.Int64("user", 0, "user id carried in the token")
	email := fs.String("email", "", "email carried in the token")
	role := fs.String("role", string(model.RoleUser), "user or admin")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *userID < 1 {
		return fmt.Errorf("-user must be a positive id")
	}
	r := model.Role(*role)
	if r != model.RoleUser && r != model.RoleAdmin {
		return fmt.Errorf("invalid role %q (must be user or admin)", *role)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	token, err := auth.NewTokens(secret, *ttl).Issue(model.Identity{
		UserID: *userID,
		Email:  *email,
		Role:   r,
	})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

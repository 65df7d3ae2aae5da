// CLI tool to create a user with a bcrypt-hashed password and default
// nutrition settings in the configured store.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lg/life-dashboard-go-api/internal/app"
	"lg/life-dashboard-go-api/internal/config"
	"lg/life-dashboard-go-api/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open %s store: %v\n", cfg.StoreDriver, err)
		os.Exit(1)
	}
	defer st.Close()

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label + ": ")
		v, _ := reader.ReadString('\n')
		return strings.TrimSpace(v)
	}

	username := prompt("Username")
	email := prompt("Email")
	password := prompt("Password")
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username and password are required")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	// CreateUser also seeds the default nutrition settings row.
	u, err := st.CreateUser(ctx, models.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		AuthToken: uuid.New().String(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", u.ID)
	fmt.Printf("  Username:   %s\n", u.Username)
	fmt.Printf("  Auth Token: %s\n", u.AuthToken)
}

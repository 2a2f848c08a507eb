// Command createuser registers a user with a role from the terminal,
// the way operators seed the first admin account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/pkg/validate"
	ur "github.com/Leopold1975/travel_catalog/internal/travels/repository/userrepo/postgres"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/authservice"
)

func main() {
	var (
		configPath string
		name       string
		email      string
		password   string
		role       string
	)

	flag.StringVar(&configPath, "config", "", "path to configuration file")
	flag.StringVar(&name, "name", "", "user name")
	flag.StringVar(&email, "email", "", "user email")
	flag.StringVar(&password, "password", "", "user password")
	flag.StringVar(&role, "role", "editor", "user role (admin or editor)")
	flag.Parse()

	cfg, err := config.New(configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	userRepo, err := ur.New(ctx, cfg.PostgresDB)
	if err != nil {
		log.Fatalf("postgres user repo initializing error: %v", err)
	}

	defer userRepo.Shutdown(ctx) //nolint:errcheck

	authService := authservice.New(userRepo, cfg.Auth)

	u, err := authService.CreateUser(ctx, authservice.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		if fieldErrs, ok := validate.AsErrors(err); ok {
			for field, msgs := range fieldErrs {
				for _, msg := range msgs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
				}
			}

			os.Exit(1)
		}

		log.Fatalf("create user error: %v", err)
	}

	fmt.Printf("User %d (%s) created successfully\n", u.ID, u.Email)
}

// Command seedadmin creates the first back-office operator.
// Usage: JURIDICO_SEED_PASSWORD=... go run ./cmd/seedadmin -email admin@escritorio.com.br -name "Admin"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"juridico/internal/config"
	"juridico/internal/domain"
	"juridico/internal/logging"
	"juridico/internal/port"
	"juridico/internal/repository/firestore"
	"juridico/internal/repository/postgres"
	"juridico/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	email := flag.String("email", "", "operator email")
	name := flag.String("name", "Administrador", "operator full name")
	flag.Parse()

	password := os.Getenv("JURIDICO_SEED_PASSWORD")
	if *email == "" || password == "" {
		return fmt.Errorf("-email and JURIDICO_SEED_PASSWORD are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Must(cfg.Log)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	users, closeFn, err := openUsers(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	user, err := service.NewUserService(users).Create(ctx, service.CreateUserInput{
		Email:    *email,
		Password: password,
		FullName: *name,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		logger.Info("operator already exists", zap.String("email", *email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating operator: %w", err)
	}

	logger.Info("operator created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	return nil
}

func openUsers(ctx context.Context, cfg *config.Config) (port.UserRepository, func() error, error) {
	if cfg.Store.Driver == "firestore" {
		client, err := firestore.NewClient(ctx, cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		return firestore.NewUserRepo(client), client.Close, nil
	}
	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return postgres.NewUserRepo(db), db.Close, nil
}

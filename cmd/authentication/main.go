// The authentication tool provisions API users: it creates the account with
// the given email, or resets the name and password of an existing one.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gartstein/workforce/internal/workforce/auth"
	"github.com/gartstein/workforce/internal/workforce/config"
	"github.com/gartstein/workforce/internal/workforce/db"
	e "github.com/gartstein/workforce/internal/workforce/errors"
	"github.com/gartstein/workforce/internal/workforce/models"
	"go.uber.org/zap"
)

func main() {
	name := flag.String("name", "Admin", "display name of the user")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", os.Getenv("WORKFORCE_PASSWORD"), "login password, defaults to $WORKFORCE_PASSWORD")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(&db.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() { _ = repo.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := provisionUser(ctx, repo, *name, *email, *password)
	if err != nil {
		logger.Fatal("failed to provision user", zap.String("email", *email), zap.Error(err))
	}
	if created {
		logger.Info("User created", zap.String("email", *email))
	} else {
		logger.Info("User credentials updated", zap.String("email", *email))
	}
}

// provisionUser upserts the user inside one transaction and reports whether
// a new account was created.
func provisionUser(ctx context.Context, repo *db.Repository, name, email, password string) (bool, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	created := false
	err = repo.WithTransaction(ctx, func(tx *db.Repository) error {
		existing, err := tx.GetUserByEmail(ctx, email)
		switch {
		case errors.Is(err, e.ErrNotFound):
			now := time.Now()
			created = true
			return tx.CreateUser(ctx, &models.User{
				Name:            name,
				Email:           email,
				PasswordHash:    hash,
				EmailVerifiedAt: &now,
			})
		case err != nil:
			return fmt.Errorf("failed to look up user: %w", err)
		default:
			return tx.UpdateUserCredentials(ctx, existing.ID, name, hash)
		}
	})
	return created, err
}

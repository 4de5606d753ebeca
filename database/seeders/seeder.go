// Package seeders fills a fresh database with an admin account and a small
// sample catalogue for local development.
package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/repositories"
	"github.com/storefront/backend/config"
	"github.com/storefront/backend/pkg/auth"
	"github.com/storefront/backend/pkg/authz"
	"github.com/storefront/backend/pkg/logger"
)

// Run seeds the admin user and sample products. Idempotent: an existing
// admin account means the database is already seeded.
func Run(ctx context.Context) error {
	users := repositories.NewUserRepository()
	products := repositories.NewProductRepository()

	email := config.Get("ADMIN_EMAIL", "admin@storefront.local")
	if _, err := users.FindByEmail(ctx, email); err == nil {
		logger.L.Info("database already seeded", "admin", email)
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:     "Store Admin",
		Email:    email,
		Password: hash,
		Role:     authz.RoleAdmin,
		Avatar:   models.DefaultAvatar,
		IsActive: true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	for _, p := range sampleProducts(admin.ID) {
		p := p
		if err := products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	logger.L.Info("database seeded", "admin", email, "products", len(sampleProducts(admin.ID)))
	return nil
}

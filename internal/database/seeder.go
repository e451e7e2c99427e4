package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"asset-tracking-api-server/internal/auth"
	"asset-tracking-api-server/internal/models"
	"asset-tracking-api-server/internal/storage"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123"
)

// SeedAdmin creates the bootstrap admin account if no user exists with the
// configured email. Email and password come from ADMIN_EMAIL / ADMIN_PASSWORD
// when set.
func SeedAdmin(db *mongo.Database) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := &storage.UserRepository{DB: db}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		log.Println("Admin account already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin account not found. Seeding...")
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "System Admin",
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := users.Insert(ctx, admin); err != nil {
		return err
	}

	log.Println("Admin account seeded successfully.")
	return nil
}

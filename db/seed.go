package db

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/homecare/homecare-app/models"
)

// Seed provisions the closed role set and the admin account. Idempotent:
// existing rows are left alone, so it is safe to run on every migration.
func Seed() error {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator with moderation access"},
		{Name: models.RoleProvider, Description: "Service provider who manages bookings"},
		{Name: models.RoleClient, Description: "Client who books services"},
	}

	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			if err := DB.Create(&role).Error; err != nil {
				return fmt.Errorf("create role %s: %w", role.Name, err)
			}
		}
	}

	return seedAdmin()
}

func seedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	var existing models.User
	if DB.Where("email = ?", email).First(&existing).RowsAffected > 0 {
		return nil
	}

	var adminRole models.Role
	if err := DB.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return fmt.Errorf("admin role missing: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:       "Administrator",
		Email:      email,
		Password:   string(hashed),
		IsVerified: true,
		Approved:   true,
		RoleID:     adminRole.ID,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("Provisioned admin account %s", email)
	return nil
}

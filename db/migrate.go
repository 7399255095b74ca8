package db

import (
	"fmt"
	"log"

	"github.com/homecare/homecare-app/models"
)

func Migrate() {
	if DB == nil {
		Init()
	}

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.ProviderProfile{},
		&models.Service{},
		&models.Booking{},
		&models.Chat{},
		&models.Message{},
		&models.Review{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Seeding is part of the migration step so role and admin
	// provisioning happens exactly once, not on every app start.
	if err := Seed(); err != nil {
		log.Fatal("Failed to seed defaults: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}

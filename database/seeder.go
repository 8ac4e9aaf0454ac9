package database

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/utils"
)

// AutoMigrate creates or updates every table of the application schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.ServiceOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.StatusHistory{},
		&models.OrderCounter{},
		&models.Notification{},
		&models.Conversation{},
		&models.Message{},
	)
}

// Seed inserts the default administrator and a starter catalog. Safe to run on
// every boot: existing rows are left alone.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCatalog(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrateur",
		Email:    "admin@imprimerie.local",
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded default admin account: %s", admin.Email)
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	services := []models.Service{
		{
			Name:        "Flyers A5",
			Description: "Impression de flyers A5 couleur, papier couché 135g",
			Category:    models.CategoryFlyers,
			BasePrice:   0.10,
			Unit:        "unité",
			MinQuantity: 100,
			MaxQuantity: 10000,
			IsActive:    true,
			SortOrder:   1,
			Options: []models.ServiceOption{
				{
					OptionID:      uuid.NewString(),
					Name:          "Papier",
					Kind:          models.OptionKindSelect,
					Choices:       []string{"135g couché", "170g couché", "250g couché"},
					PriceModifier: 0.02,
					Required:      true,
					SortOrder:     1,
				},
				{
					OptionID:      uuid.NewString(),
					Name:          "Recto-verso",
					Kind:          models.OptionKindCheckbox,
					PriceModifier: 0.03,
					SortOrder:     2,
				},
			},
		},
		{
			Name:        "Cartes de visite",
			Description: "Cartes 85x55mm, pelliculage mat ou brillant",
			Category:    models.CategoryCartes,
			BasePrice:   0.08,
			Unit:        "unité",
			MinQuantity: 100,
			MaxQuantity: 5000,
			IsActive:    true,
			SortOrder:   2,
			Options: []models.ServiceOption{
				{
					OptionID:      uuid.NewString(),
					Name:          "Pelliculage",
					Kind:          models.OptionKindSelect,
					Choices:       []string{"mat", "brillant", "soft touch"},
					PriceModifier: 0.01,
					SortOrder:     1,
				},
			},
		},
		{
			Name:        "Affiches A2",
			Description: "Affiches grand format, papier 170g",
			Category:    models.CategoryAffiches,
			BasePrice:   2.50,
			Unit:        "unité",
			MinQuantity: 1,
			MaxQuantity: 500,
			IsActive:    true,
			SortOrder:   3,
		},
		{
			Name:        "Brochures agrafées",
			Description: "Brochures A4 agrafées, 8 à 48 pages",
			Category:    models.CategoryBrochures,
			BasePrice:   1.20,
			Unit:        "unité",
			MinQuantity: 25,
			MaxQuantity: 2000,
			IsActive:    true,
			SortOrder:   4,
			Options: []models.ServiceOption{
				{
					OptionID:      uuid.NewString(),
					Name:          "Nombre de pages",
					Kind:          models.OptionKindNumber,
					PriceModifier: 0.05,
					Required:      true,
					SortOrder:     1,
				},
			},
		},
	}

	if err := db.Create(&services).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d catalog services", len(services))
	return nil
}

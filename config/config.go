package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	Port          string
	DBDriver      string // mysql | sqlite
	DSN           string
	UploadDir     string
	PublicBaseURL string
	CORSOrigin    string
	// AllowStatusOverride lets admins set order statuses outside the
	// transition table.
	AllowStatusOverride bool
	SeedData            bool
}

// Load reads the configuration from the environment. godotenv has already run
// by the time this is called.
func Load() Config {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		DBDriver:            getEnv("DB_DRIVER", "mysql"),
		UploadDir:           getEnv("UPLOAD_DIR", "public/uploads"),
		PublicBaseURL:       getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		CORSOrigin:          getEnv("CORS_ORIGIN", "http://localhost:5173"),
		AllowStatusOverride: os.Getenv("STATUS_OVERRIDE") == "true",
		SeedData:            os.Getenv("SEED_DATA") == "true",
	}

	switch cfg.DBDriver {
	case "sqlite":
		cfg.DSN = getEnv("DB_DSN", "printshop.db")
	default:
		cfg.DSN = getEnv("DB_DSN", fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getEnv("DB_USER", "root"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "127.0.0.1"),
			getEnv("DB_PORT", "3306"),
			getEnv("DB_NAME", "printshop"),
		))
	}
	return cfg
}

// InitDB opens the configured database.
func InitDB(cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

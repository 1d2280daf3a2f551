package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Init loads the .env file and fails fast on the settings the service
// cannot run without. Optional settings (search, AI) are read at wiring
// time and default to disabled adapters.
func Init() {
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	if os.Getenv("DB_DSN") == "" {
		Logger.Fatal("DB_DSN is not set")
	}

	if os.Getenv("REDIS_ADDR") == "" {
		Logger.Fatal("REDIS_ADDR is not set")
	}
}

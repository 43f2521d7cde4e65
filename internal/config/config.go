package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBUrl          string
	IdentitySecret string
	PaymentFormula string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	identitySecret, exists := os.LookupEnv("IDENTITY_SECRET")
	if !exists || identitySecret == "" {
		return nil, fmt.Errorf("IDENTITY_SECRET is required")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBUrl:          getEnv("DB_URL", ""),
		IdentitySecret: identitySecret,
		PaymentFormula: getEnv("PAYMENT_FORMULA", "overflow"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

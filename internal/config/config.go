package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// defaultShipping is the flat delivery rate charged regardless of
// weight or destination.
const defaultShipping = "30"

type Config struct {
	ListenAddr   string
	BackendURL   string
	DatabaseURL  string
	SQLitePath   string
	ESURL        string
	ESUser       string
	ESPassword   string
	KafkaAddress string
	LogLevel     string
	ShippingRate decimal.Decimal
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		return nil, fmt.Errorf("missing required env BACKEND_URL")
	}

	rate, err := decimal.NewFromString(getenv("SHIPPING_RATE", defaultShipping))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_RATE: %w", err)
	}

	cfg := &Config{
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		BackendURL:   backendURL,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   getenv("SQLITE_PATH", "storefront.db"),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		ShippingRate: rate,
	}

	return cfg, nil
}

package cmd

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DeliveryWindow is the promised time between order placement and delivery.
	DeliveryWindow time.Duration
	// PendingOrderTTL is how long an order may stay pending before the
	// background sweep cancels it.
	PendingOrderTTL time.Duration
	// WSSendBuffer is the per-session outbound frame buffer; a session that
	// falls this far behind starts losing frames.
	WSSendBuffer int
}

// LoadConfig reads configuration from the environment, seeded from a .env
// file in the working directory when one is present.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "orderflow")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DELIVERY_WINDOW", "45m")
	v.SetDefault("PENDING_ORDER_TTL", "15m")
	v.SetDefault("WS_SEND_BUFFER", 64)

	return Config{
		HTTPPort:        v.GetString("HTTP_PORT"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBSslMode:       v.GetString("DB_SSLMODE"),
		DeliveryWindow:  v.GetDuration("DELIVERY_WINDOW"),
		PendingOrderTTL: v.GetDuration("PENDING_ORDER_TTL"),
		WSSendBuffer:    v.GetInt("WS_SEND_BUFFER"),
	}
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

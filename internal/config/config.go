// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Admin    AdminConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the storage connection settings.
// URL is either a sqlite file path or a postgres connection string.
type DatabaseConfig struct {
	URL   string
	Debug bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev              bool
	SessionSecret    string // empty means the development secret
	SessionSecure    bool   // mark session cookies Secure (HTTPS deployments only)
	DefaultUnitPrice decimal.Decimal
	CurrencySymbol   string
	Timezone         string
}

// AdminConfig describes the bootstrap administrator created on startup.
// Nothing is created unless both Email and Password are set.
type AdminConfig struct {
	Email    string
	Name     string
	Password string
}

// Enabled reports whether a bootstrap admin was configured.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// LoggerConfig holds zap settings.
type LoggerConfig struct {
	Mode string // "development" or "production"
	File string // optional rotated log file
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			URL:   getEnv("DATABASE_URL", "church_orders.db"),
			Debug: getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:              getEnvBool("DEV", false),
			SessionSecret:    getEnv("SESSION_SECRET", ""),
			SessionSecure:    getEnvBool("SESSION_SECURE", false),
			DefaultUnitPrice: getEnvDecimal("DEFAULT_UNIT_PRICE", decimal.NewFromInt(25)),
			CurrencySymbol:   getEnv("CURRENCY_SYMBOL", "R$"),
			Timezone:         getEnv("TIMEZONE", "America/Sao_Paulo"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Logger: LoggerConfig{
			Mode: getEnv("LOG_MODE", "development"),
			File: getEnv("LOG_FILE", ""),
		},
	}
}

// getEnv returns the trimmed value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := getEnv(key, ""); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(getEnv(key, ""))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDecimal returns a positive decimal from the environment or a default.
func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := getEnv(key, ""); value != "" {
		if d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ".")); err == nil && d.IsPositive() {
			return d
		}
	}
	return defaultValue
}

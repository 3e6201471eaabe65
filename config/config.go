package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port                  string
	GinMode               string
	DBDriver              string // "mysql" or "sqlite"
	DBDSN                 string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	SessionTTL            time.Duration
	ConflictWindowMinutes int
	CancelCutoffHours     int
}

// Load reads the environment into a Config. godotenv is loaded by main
// before this runs.
func Load() *Config {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		GinMode:               getEnv("GIN_MODE", "debug"),
		DBDriver:              getEnv("DB_DRIVER", "mysql"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		SessionTTL:            time.Duration(getEnvInt("SESSION_TTL_MIN", 120)) * time.Minute,
		ConflictWindowMinutes: getEnvInt("RESERVATION_CONFLICT_WINDOW_MIN", 120),
		CancelCutoffHours:     getEnvInt("RESERVATION_CANCEL_CUTOFF_HOURS", 2),
	}

	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" && cfg.DBDriver == "mysql" {
		user := getEnv("DB_USER", "root")
		pass := os.Getenv("DB_PASSWORD")
		host := getEnv("DB_HOST", "127.0.0.1")
		port := getEnv("DB_PORT", "3306")
		name := getEnv("DB_NAME", "restaurant_manager")
		cfg.DBDSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, pass, host, port, name)
	}

	return cfg
}

// InitDB opens the gorm handle for the configured driver. sqlite is meant
// for local runs without a MySQL server.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		path := getEnv("DB_PATH", "restaurant.db")
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

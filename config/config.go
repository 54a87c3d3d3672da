package config

import (
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"p9e.in/elinspect/store"
)

// Config is loaded from the environment (with .env support). The storage
// backend is selected here; everything downstream only sees store.Store.
type Config struct {
	Port    string
	Env     string
	Backend string // postgres | sqlite | redis | memory

	DatabaseDSN string // postgres
	SQLitePath  string // sqlite
	RedisAddr   string // redis
	RedisDB     int
}

// Load reads the environment. A missing .env file is fine; system
// environment variables win either way.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        getenv("PORT", "8080"),
		Env:         getenv("APP_ENV", "development"),
		Backend:     getenv("STORE_BACKEND", "sqlite"),
		DatabaseDSN: os.Getenv("DB_DSN"),
		SQLitePath:  getenv("SQLITE_PATH", "elinspect.db"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Open constructs the selected store backend and runs migrations where
// the backend has a schema. The returned store owns the connection; the
// caller closes it on shutdown.
func Open(cfg Config) (store.Store, error) {
	switch cfg.Backend {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := Migrations(db); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return store.NewGormStore(db), nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite leaves foreign keys off unless asked.
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
		if err := Migrations(db); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return store.NewGormStore(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		return store.NewKVStore(store.NewRedisKV(client)), nil
	case "memory":
		return store.NewKVStore(store.NewMemoryKV()), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

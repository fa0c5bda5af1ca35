package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/instamart/backend/internal/models"
)

type Config struct {
	HTTP_ADDR     string
	DATABASE_URL  string
	SQLITE_PATH   string
	JWT_SECRET    string
	KAFKA_ADDRESS string
	LOG_LEVEL     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:     envDefault("HTTP_ADDR", ":8080"),
		DATABASE_URL:  os.Getenv("DATABASE_URL"),
		SQLITE_PATH:   envDefault("SQLITE_PATH", "instamart.db"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		LOG_LEVEL:     envDefault("LOG_LEVEL", "info"),
	}

	if config.JWT_SECRET == "" {
		return nil, fmt.Errorf("missing required env JWT_SECRET")
	}

	return config, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) KafkaBrokers() []string {
	if c.KAFKA_ADDRESS == "" {
		return nil
	}
	parts := strings.Split(c.KAFKA_ADDRESS, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// InitDB opens postgres when DATABASE_URL is set, otherwise a local sqlite
// file, and migrates the schema.
func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DATABASE_URL != "" {
		dialector = postgres.Open(cfg.DATABASE_URL)
	} else {
		dialector = sqlite.Open(cfg.SQLITE_PATH)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.CartLine{},
		&models.Session{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

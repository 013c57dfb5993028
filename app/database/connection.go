package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"AguaPos/app/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildPostgresDSN builds a DSN from the postgres section; an explicit DSN wins
func buildPostgresDSN(cfg config.PostgresConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	zap.S().Infof("Built database connection from config.json: host=%s port=%d dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)
}

// openDialector picks the gorm dialector for the configured driver
func openDialector(cfg config.StorageConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite storage path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// CGO-free driver
		return sqlite.Open(cfg.Path), nil
	case "postgres":
		return postgres.Open(buildPostgresDSN(cfg.Postgres)), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// Open connects to the configured storage and runs migrations
func Open(cfg config.StorageConfig) (*LocalDB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	local := &LocalDB{
		db:     db,
		driver: cfg.Driver,
		dbPath: cfg.Path,
	}

	if err := local.runMigrations(); err != nil {
		local.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return local, nil
}

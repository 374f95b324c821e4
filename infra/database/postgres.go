package database

import (
	"fmt"

	"ai-coder/config"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// Open connects to the database selected by cfg.Database.Driver.
func Open(cfg *config.AppConfig) (*DB, error) {
	switch cfg.Database.Driver {
	case "", "postgres":
		return NewPostgresDB(cfg.Postgres)
	case "sqlite":
		return NewSQLiteDB(cfg.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func NewPostgresDB(cfg config.PostgresConfig) (*DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	db, err := gorm.Open(postgres.Open(GetURL(&cfg)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying database connection: %w", err)
	}

	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.MaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxLife)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connection established", "driver", "postgres", "host", cfg.Address)
	return &DB{db}, nil
}

// NewSQLiteDB opens a SQLite database at path. ":memory:" style DSNs are accepted,
// which is what the test suites use.
func NewSQLiteDB(path string) (*DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying database connection: %w", err)
	}
	// a single writer keeps sqlite from returning SQLITE_BUSY inside transactions
	sqlDB.SetMaxOpenConns(1)

	log.Info("database connection established", "driver", "sqlite", "path", path)
	return &DB{db}, nil
}

func (db *DB) CreateTables(models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database tables migrated", "tables", len(models))
	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database connection: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	log.Info("database connection closed")
	return nil
}

func GetURL(cfg *config.PostgresConfig) string {
	tz := cfg.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		cfg.Address, cfg.User, cfg.Password, cfg.DBName, cfg.Port, tz,
	)
}

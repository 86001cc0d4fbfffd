// Package db implements the relational store of the workforce service on top
// of GORM. The schema is owned by the embedded goose migrations.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Supported values of Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations
var embedMigrations embed.FS

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the sqlite database file, ":memory:" for a private in-memory store.
	Path string
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case "", DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// NewRepository connects to the configured database and applies pending
// migrations.
func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// every new connection to ":memory:" would see an empty database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(sqlDB, cfg.Driver); err != nil {
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Migrate runs the embedded goose migrations for the given driver.
func Migrate(sqlDB *sql.DB, driver string) error {
	dialect, dir := "postgres", "migrations/postgres"
	if driver == DriverSQLite {
		dialect, dir = "sqlite3", "migrations/sqlite3"
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Exists reports whether table has at least one row whose column equals
// value. It backs the Unique and Exists validation rules.
func (r *Repository) Exists(ctx context.Context, table, column string, value any) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Table(table).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

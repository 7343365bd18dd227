package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type Config struct {
	Host     string `yaml:"host" envconfig:"PG_HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"PG_PORT" default:"5432"`
	User     string `yaml:"user" envconfig:"PG_USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"PG_PASSWORD" default:"postgres"`
	DBName   string `yaml:"dbName" envconfig:"PG_DATABASE" default:"knowledgehub"`
	SSLMode  string `yaml:"sslMode" envconfig:"PG_SSLMODE" default:"disable"`
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewPostgresDB opens a pool via the pgx stdlib driver and applies goose
// migrations from the embedded FS.
func NewPostgresDB(ctx context.Context, cfg *Config, migrations embed.FS) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "sqlx.Open")
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, errors.Wrap(err, "db ping")
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, errors.Wrap(err, "goose dialect")
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return nil, errors.Wrap(err, "goose up")
	}

	return db, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/edutec/alunos-api/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the sqlx database connection
type DB struct {
	*sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.DatabaseConfig) (*DB, error) {
	connStr := cfg.ConnectionString()

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// schema is applied at startup; every statement is idempotent so restarting
// the process against an existing database is safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS alunos (
		id         SERIAL PRIMARY KEY,
		nome       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		telefone   TEXT,
		curso      TEXT,
		matricula  TEXT UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id         SERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		username   TEXT UNIQUE,
		senha_hash TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'student',
		aluno_id   INTEGER REFERENCES alunos(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS senha_reset_tokens (
		id         SERIAL PRIMARY KEY,
		email      TEXT NOT NULL,
		token      TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS atividade_logs (
		id         SERIAL PRIMARY KEY,
		usuario_id INTEGER,
		acao       TEXT NOT NULL,
		ip         TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_atividade_logs_created_at ON atividade_logs (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_senha_reset_tokens_expires_at ON senha_reset_tokens (expires_at)`,
}

// Migrate creates the tables the service needs if they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health checks the database health
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

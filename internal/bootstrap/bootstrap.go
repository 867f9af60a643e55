// Package bootstrap prepares the PostgreSQL schema at process start.
//
// Every step is idempotent: it inspects the catalog and only creates what is
// missing, so running it against an initialized database changes nothing.
// Steps that touch more than one object run inside a transaction and roll
// back as a whole on failure.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// adminDatabase is the maintenance database every PostgreSQL server has.
const adminDatabase = "postgres"

// schemaLockID serializes concurrent bootstraps of the same database.
const schemaLockID int64 = 7_345_001

// AdminConfig holds the credentials used only to create the target database.
type AdminConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	RequireTLS bool
}

// DSN returns the connection string for the administrative database.
func (c AdminConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + adminDatabase,
	}
	q := url.Values{}
	if c.RequireTLS {
		q.Set("sslmode", "require")
	} else {
		q.Set("sslmode", "prefer")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DatabaseName extracts the database name from a connection string.
func DatabaseName(databaseURL string) (string, error) {
	cfg, err := pgconn.ParseConfig(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("database URL has no database name")
	}
	return cfg.Database, nil
}

// EnsureDatabase creates the named database if the server does not have it.
// The lookup is an exact match because the name is created quoted.
func EnsureDatabase(ctx context.Context, admin AdminConfig, name string, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, admin.DSN())
	if err != nil {
		return fmt.Errorf("connect to admin database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1)`,
		name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database %q: %w", name, err)
	}

	if exists {
		logger.Info("database already exists", slog.String("database", name))
		return nil
	}

	logger.Info("creating database", slog.String("database", name))
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("create database %q: %w", name, err)
	}
	logger.Info("database created", slog.String("database", name))

	return nil
}

// Beginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Schema runs EnsureTables then EnsureColumns.
func Schema(ctx context.Context, db Beginner, logger *slog.Logger) error {
	if err := EnsureTables(ctx, db, logger); err != nil {
		return err
	}
	return EnsureColumns(ctx, db, logger)
}

// EnsureTables creates missing tables in a single transaction.
func EnsureTables(ctx context.Context, db Beginner, logger *slog.Logger) error {
	return inTx(ctx, db, func(tx pgx.Tx) error {
		for _, t := range tables {
			exists, err := tableExists(ctx, tx, t.name)
			if err != nil {
				return fmt.Errorf("check table %s: %w", t.name, err)
			}
			if exists {
				logger.Info("table already exists", slog.String("table", t.name))
				continue
			}

			logger.Info("creating table", slog.String("table", t.name))
			if _, err := tx.Exec(ctx, t.ddl); err != nil {
				return fmt.Errorf("create table %s: %w", t.name, err)
			}
		}
		return nil
	})
}

// EnsureColumns adds columns introduced after the initial tables,
// in a transaction of its own.
func EnsureColumns(ctx context.Context, db Beginner, logger *slog.Logger) error {
	return inTx(ctx, db, func(tx pgx.Tx) error {
		for _, c := range columns {
			exists, err := columnExists(ctx, tx, c.table, c.name)
			if err != nil {
				return fmt.Errorf("check column %s.%s: %w", c.table, c.name, err)
			}
			if exists {
				continue
			}

			logger.Info("adding column",
				slog.String("table", c.table),
				slog.String("column", c.name),
			)
			if _, err := tx.Exec(ctx, c.ddl); err != nil {
				return fmt.Errorf("add column %s.%s: %w", c.table, c.name, err)
			}
		}
		return nil
	})
}

func inTx(ctx context.Context, db Beginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func tableExists(ctx context.Context, tx pgx.Tx, table string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, table).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, tx pgx.Tx, table, column string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, table, column).Scan(&exists)
	return exists, err
}

// Package migrate applies the goose migrations in migrations/ to ClickHouse.
package migrate

import (
	"database/sql"
	"fmt"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pressly/goose/v3"
)

// Dir is the migrations directory relative to the repository root
const Dir = "./migrations"

// DSN builds a clickhouse:// connection string
func DSN(host, port, database, user, password string, useTLS bool) string {
	dsn := fmt.Sprintf("clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&max_execution_time=60",
		user, password, host, port, database)
	if useTLS {
		dsn += "&secure=true"
	}
	return dsn
}

// Open connects to ClickHouse and checks the connection
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Up applies every pending migration
func Up(db *sql.DB, dir string) error {
	if err := goose.SetDialect("clickhouse"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Run executes a goose command: up, down, status, version or create <name>
func Run(db *sql.DB, dir, command string, args ...string) error {
	if err := goose.SetDialect("clickhouse"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		return Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "version":
		_, err := goose.GetDBVersion(db)
		return err
	case "create":
		if len(args) < 1 {
			return fmt.Errorf("usage: migrate create <migration_name>")
		}
		return goose.Create(db, dir, args[0], "sql")
	default:
		return fmt.Errorf("unknown command: %s. Available commands: up, down, status, version, create", command)
	}
}

// Package migrations embeds the goose SQL migrations so the binary can bootstrap its schema.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed goose_sql/*.sql
var fs embed.FS

const dir = "goose_sql"

// Up applies every pending migration.
func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Reset rolls every migration back; used by integration tests.
func Reset(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Reset(db, dir); err != nil {
		return fmt.Errorf("goose reset: %w", err)
	}
	return nil
}

func setup() error {
	goose.SetBaseFS(fs)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}

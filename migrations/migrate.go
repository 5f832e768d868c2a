package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate aplica as migrações embutidas na ordem numérica.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migração: dialeto: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migração: %w", err)
	}

	return nil
}

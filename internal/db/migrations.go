package db

import (
	"database/sql"
	"fmt"
	"io"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_permissoes_table",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_permissao_id_to_users",
		Up:      migrationV2,
	},
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB, out io.Writer) error {
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Fprintf(out, "Running migration %d: %s\n", migration.Version, migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Fprintf(out, "✓ Migration %d completed\n", migration.Version)
	}

	return nil
}

// markMigrated records every migration as applied on a fresh schema.
func markMigrated(db *sql.DB) error {
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// migrationV1 creates the permission levels table.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS permissoes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL,
			nivel INTEGER NOT NULL,
			descricao TEXT NOT NULL DEFAULT '',
			ativo INTEGER NOT NULL DEFAULT 1,
			deleted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_permissoes_nivel ON permissoes(nivel);
	`)
	return err
}

// migrationV2 links users to a permission level. Users created before the
// column existed have no permission and are denied everywhere.
func migrationV2(tx *sql.Tx) error {
	var exists int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info('users') WHERE name = 'permissao_id'").Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		if _, err := tx.Exec("ALTER TABLE users ADD COLUMN permissao_id INTEGER REFERENCES permissoes(id)"); err != nil {
			return err
		}
	}
	_, err = tx.Exec("CREATE INDEX IF NOT EXISTS idx_users_permissao ON users(permissao_id)")
	return err
}

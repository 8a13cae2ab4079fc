package db

import (
	"database/sql"
	"io"
)

// SchemaSQL is the complete schema for a fresh permission store.
//
// This is the single source of truth for tests: repository tests load it via
// GetSchemaSQL() instead of declaring their own tables, so a column the code
// uses but the schema lacks fails immediately with "no such column".
//
// When adding columns, add a migration in migrations.go and update SchemaSQL
// here.
const SchemaSQL = `
-- Permission levels (lower nivel = more privilege)
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

-- Application users
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	permissao_id INTEGER REFERENCES permissoes(id),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_permissao ON users(permissao_id);
CREATE INDEX IF NOT EXISTS idx_permissoes_nivel ON permissoes(nivel);
`

// InitSchema brings a database up to date. A database without the users
// table gets the full schema and is marked as fully migrated; a database
// that already has users (for example one Laravel created) only runs the
// pending migrations.
func InitSchema(db *sql.DB, out io.Writer) error {
	var usersTable int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='users'").Scan(&usersTable)
	if err != nil {
		return err
	}

	if usersTable == 0 {
		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		return markMigrated(db)
	}

	return RunMigrations(db, out)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}

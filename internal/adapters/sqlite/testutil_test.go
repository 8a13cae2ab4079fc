// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not declare tables in test files.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/crudgen/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema
// and the seeded permission levels.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each connection to :memory: is its own database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := db.SeedPermissions(testDB); err != nil {
		t.Fatalf("failed to seed permissions: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// permissionIDByLevel returns the ID of the seeded permission at level.
func permissionIDByLevel(t *testing.T, database *sql.DB, level int) int64 {
	t.Helper()
	var id int64
	if err := database.QueryRow("SELECT id FROM permissoes WHERE nivel = ?", level).Scan(&id); err != nil {
		t.Fatalf("failed to find permission at level %d: %v", level, err)
	}
	return id
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, database *sql.DB, name, email string, permissionID int64) int64 {
	t.Helper()
	var perm any
	if permissionID != 0 {
		perm = permissionID
	}
	result, err := database.Exec("INSERT INTO users (name, email, permissao_id) VALUES (?, ?, ?)", name, email, perm)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

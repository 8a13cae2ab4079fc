package db

import (
	"database/sql"
	"fmt"
)

// DefaultPermission is one of the permission levels every store starts with.
type DefaultPermission struct {
	Name        string
	Level       int
	Description string
}

// DefaultPermissions returns the seeded levels, most privileged first.
func DefaultPermissions() []DefaultPermission {
	return []DefaultPermission{
		{"System", 0, "Acesso total ao sistema e sem restrições"},
		{"Administrador", 1, "Acesso total aos módulos do sistema"},
		{"Colaborador", 2, "Acesso aos módulos específicos para colaboradores"},
		{"Externo", 3, "Acesso apenas à visualização de dados"},
		{"Visitante", 99, "Acesso apenas à visualização de dados"},
	}
}

// SeedPermissions inserts the default levels into an empty permissoes table.
// A table that already holds rows is left alone.
func SeedPermissions(database *sql.DB) error {
	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM permissoes").Scan(&count); err != nil {
		return fmt.Errorf("seed permissoes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range DefaultPermissions() {
		if _, err := database.Exec(
			"INSERT INTO permissoes (nome, nivel, descricao, ativo) VALUES (?, ?, ?, 1)",
			p.Name, p.Level, p.Description,
		); err != nil {
			return fmt.Errorf("seed permissoes: %w", err)
		}
	}
	return nil
}

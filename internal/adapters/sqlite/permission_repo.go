// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/crudgen/internal/ports/secondary"
)

// PermissionRepository implements secondary.PermissionRepository with SQLite.
type PermissionRepository struct {
	db *sql.DB
}

// NewPermissionRepository creates a new SQLite permission repository.
func NewPermissionRepository(db *sql.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

const permissionColumns = "id, nome, nivel, descricao, ativo, deleted, created_at, updated_at"

// Create persists a new permission.
func (r *PermissionRepository) Create(ctx context.Context, p *secondary.PermissionRecord) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO permissoes (nome, nivel, descricao, ativo) VALUES (?, ?, ?, ?)",
		p.Name, p.Level, p.Description, p.Active,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create permission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read permission id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a live permission by its ID.
func (r *PermissionRepository) GetByID(ctx context.Context, id int64) (*secondary.PermissionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+permissionColumns+" FROM permissoes WHERE id = ? AND deleted = 0",
		id,
	)
	record, err := scanPermission(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("permission %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return record, nil
}

// GetByName retrieves a live permission by name (nil if none).
func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*secondary.PermissionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+permissionColumns+" FROM permissoes WHERE nome = ? AND deleted = 0",
		name,
	)
	record, err := scanPermission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return record, nil
}

// List retrieves live permissions, newest first.
func (r *PermissionRepository) List(ctx context.Context) ([]*secondary.PermissionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+permissionColumns+" FROM permissoes WHERE deleted = 0 ORDER BY id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var permissions []*secondary.PermissionRecord
	for rows.Next() {
		record, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, record)
	}

	return permissions, rows.Err()
}

// Update updates an existing permission.
func (r *PermissionRepository) Update(ctx context.Context, p *secondary.PermissionRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE permissoes SET nome = ?, nivel = ?, descricao = ?, ativo = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0",
		p.Name, p.Level, p.Description, p.Active, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("permission %d not found", p.ID)
	}

	return nil
}

// SoftDelete flags a permission as deleted.
func (r *PermissionRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE permissoes SET deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("permission %d not found", id)
	}

	return nil
}

// CountUsers returns how many users hold a permission.
func (r *PermissionRepository) CountUsers(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE permissao_id = ?",
		id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPermission(row rowScanner) (*secondary.PermissionRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.PermissionRecord{}
	err := row.Scan(&record.ID, &record.Name, &record.Level, &record.Description,
		&record.Active, &record.Deleted, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Ensure PermissionRepository implements the interface.
var _ secondary.PermissionRepository = (*PermissionRepository)(nil)

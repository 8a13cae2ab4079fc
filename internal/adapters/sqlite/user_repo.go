package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/crudgen/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelect = `
	SELECT u.id, u.name, u.email, u.permissao_id, p.nome, p.nivel
	FROM users u
	LEFT JOIN permissoes p ON p.id = u.permissao_id`

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) (int64, error) {
	var permissionID sql.NullInt64
	if user.PermissionID != 0 {
		permissionID = sql.NullInt64{Int64: user.PermissionID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, permissao_id) VALUES (?, ?, ?)",
		user.Name, user.Email, permissionID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a user with their permission joined in.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*secondary.UserRecord, error) {
	record, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE u.id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", secondary.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return record, nil
}

// List retrieves every user ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+" ORDER BY u.name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		record, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, record)
	}

	return users, rows.Err()
}

// AssignPermission points a user at a permission.
func (r *UserRepository) AssignPermission(ctx context.Context, userID, permissionID int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET permissao_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		permissionID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to assign permission: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", secondary.ErrUserNotFound, userID)
	}

	return nil
}

func scanUser(row rowScanner) (*secondary.UserRecord, error) {
	var (
		permissionID   sql.NullInt64
		permissionName sql.NullString
		level          sql.NullInt64
	)

	record := &secondary.UserRecord{}
	if err := row.Scan(&record.ID, &record.Name, &record.Email, &permissionID, &permissionName, &level); err != nil {
		return nil, err
	}

	// A dangling permissao_id counts as no permission.
	if permissionID.Valid && permissionName.Valid {
		record.PermissionID = permissionID.Int64
		record.PermissionName = permissionName.String
		record.PermissionLevel = int(level.Int64)
	}
	return record, nil
}

// Ensure UserRepository implements the interface.
var _ secondary.UserRepository = (*UserRepository)(nil)

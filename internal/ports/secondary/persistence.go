// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when no user exists under the requested id.
var ErrUserNotFound = errors.New("user not found")

// PermissionRepository defines the secondary port for permission level persistence.
type PermissionRepository interface {
	// Create persists a new permission and returns its ID.
	Create(ctx context.Context, permission *PermissionRecord) (int64, error)

	// GetByID retrieves a live permission by its ID.
	GetByID(ctx context.Context, id int64) (*PermissionRecord, error)

	// GetByName retrieves a live permission by its name (nil if none).
	GetByName(ctx context.Context, name string) (*PermissionRecord, error)

	// List retrieves live permissions, newest first.
	List(ctx context.Context) ([]*PermissionRecord, error)

	// Update updates name, level, description and active flag.
	Update(ctx context.Context, permission *PermissionRecord) error

	// SoftDelete flags a permission as deleted.
	SoftDelete(ctx context.Context, id int64) error

	// CountUsers returns how many users hold a permission.
	CountUsers(ctx context.Context, id int64) (int, error)
}

// PermissionRecord represents a permission as stored in persistence.
type PermissionRecord struct {
	ID          int64
	Name        string
	Level       int
	Description string
	Active      bool
	Deleted     bool
	CreatedAt   string
	UpdatedAt   string
}

// UserRepository defines the secondary port for user persistence.
type UserRepository interface {
	// Create persists a new user and returns its ID.
	Create(ctx context.Context, user *UserRecord) (int64, error)

	// GetByID retrieves a user with their permission joined in.
	GetByID(ctx context.Context, id int64) (*UserRecord, error)

	// List retrieves every user with their permission, ordered by name.
	List(ctx context.Context) ([]*UserRecord, error)

	// AssignPermission points a user at a permission.
	AssignPermission(ctx context.Context, userID, permissionID int64) error
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID              int64
	Name            string
	Email           string
	PermissionID    int64 // 0 when unassigned
	PermissionName  string
	PermissionLevel int
}

// HasPermission reports whether the user has a permission assigned.
func (u *UserRecord) HasPermission() bool {
	return u.PermissionID != 0
}

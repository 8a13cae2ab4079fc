package primary

import "context"

// PermissionService defines the primary port for permission level operations.
type PermissionService interface {
	// ListPermissions retrieves live permissions, newest first.
	ListPermissions(ctx context.Context) ([]*Permission, error)

	// CreatePermission creates a new permission level.
	CreatePermission(ctx context.Context, req CreatePermissionRequest) (*Permission, error)

	// UpdatePermission updates an existing permission level.
	UpdatePermission(ctx context.Context, req UpdatePermissionRequest) error

	// DeletePermission soft deletes a permission level.
	DeletePermission(ctx context.Context, id int64) error

	// CreateUser registers a user, optionally with a permission.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// ListUsers retrieves users with their permission.
	ListUsers(ctx context.Context) ([]*User, error)

	// AssignPermission gives a user a permission level.
	AssignPermission(ctx context.Context, userID, permissionID int64) error

	// CheckAccess evaluates a user against a required level.
	CheckAccess(ctx context.Context, userID int64, requiredLevel int) (*AccessDecision, error)

	// GetUserLevel returns the user's level, or 0 when they have none.
	GetUserLevel(ctx context.Context, userID int64) (int, error)
}

// CreatePermissionRequest contains parameters for creating a permission.
type CreatePermissionRequest struct {
	Name        string
	Level       int
	Description string
}

// UpdatePermissionRequest contains parameters for updating a permission.
type UpdatePermissionRequest struct {
	ID          int64
	Name        string
	Level       int
	Description string
	Active      bool
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Name         string
	Email        string
	PermissionID int64 // 0 for none
}

// Permission represents a permission level at the port boundary.
type Permission struct {
	ID          int64
	Name        string
	Level       int
	Description string
	Active      bool
	CreatedAt   string
	UpdatedAt   string
}

// User represents a user at the port boundary.
type User struct {
	ID              int64
	Name            string
	Email           string
	PermissionID    int64
	PermissionName  string
	PermissionLevel int
}

// AccessDecision is the outcome of an access check.
type AccessDecision struct {
	Allowed   bool
	Reason    string
	UserLevel int
}

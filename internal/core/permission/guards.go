// Package permission contains the pure access rules for permission levels.
// Lower levels carry more privilege.
package permission

import "fmt"

// Seeded levels.
const (
	LevelSystem        = 0
	LevelAdministrator = 1
	LevelCollaborator  = 2
	LevelExternal      = 3
	LevelVisitor       = 99
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// AccessContext provides context for access checks.
type AccessContext struct {
	Authenticated bool
	HasPermission bool
	UserLevel     int
	RequiredLevel int
}

// CanAccess evaluates whether a user may reach a resource.
// Rules:
// - User must be authenticated
// - User must hold a permission
// - User level must be at most the required level
func CanAccess(ctx AccessContext) GuardResult {
	if !ctx.Authenticated {
		return GuardResult{Allowed: false, Reason: "authentication required"}
	}

	if !ctx.HasPermission {
		return GuardResult{Allowed: false, Reason: "user has no permission assigned"}
	}

	if ctx.UserLevel > ctx.RequiredLevel {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("level %d required (user has %d)", ctx.RequiredLevel, ctx.UserLevel),
		}
	}

	return GuardResult{Allowed: true}
}

// CreatePermissionContext provides context for permission creation guards.
type CreatePermissionContext struct {
	Name       string
	Level      int
	NameExists bool
}

// CanCreatePermission evaluates whether a permission can be created.
// Rules:
// - Name must not be empty
// - Level must not be negative
// - Name must be unique among live permissions
func CanCreatePermission(ctx CreatePermissionContext) GuardResult {
	if ctx.Name == "" {
		return GuardResult{Allowed: false, Reason: "permission name is required"}
	}
	if ctx.Level < 0 {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("invalid level %d: must be zero or greater", ctx.Level)}
	}
	if ctx.NameExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("permission %q already exists", ctx.Name)}
	}
	return GuardResult{Allowed: true}
}

// DeletePermissionContext provides context for permission deletion guards.
type DeletePermissionContext struct {
	PermissionID int64
	Level        int
	AssignedUser int
}

// CanDeletePermission evaluates whether a permission can be soft deleted.
// Rules:
// - The System level cannot be deleted
// - Permissions still assigned to users cannot be deleted
func CanDeletePermission(ctx DeletePermissionContext) GuardResult {
	if ctx.Level == LevelSystem {
		return GuardResult{Allowed: false, Reason: "the System permission cannot be deleted"}
	}
	if ctx.AssignedUser > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("permission %d is assigned to %d user(s)", ctx.PermissionID, ctx.AssignedUser),
		}
	}
	return GuardResult{Allowed: true}
}

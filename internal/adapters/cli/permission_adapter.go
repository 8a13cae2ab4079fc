package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/crudgen/internal/ports/primary"
)

// PermissionAdapter is a thin adapter that translates CLI operations to PermissionService calls.
type PermissionAdapter struct {
	service primary.PermissionService
	out     io.Writer
}

// NewPermissionAdapter creates a new PermissionAdapter with the given service.
func NewPermissionAdapter(service primary.PermissionService, out io.Writer) *PermissionAdapter {
	return &PermissionAdapter{
		service: service,
		out:     out,
	}
}

// List lists permission levels.
func (a *PermissionAdapter) List(ctx context.Context) error {
	permissions, err := a.service.ListPermissions(ctx)
	if err != nil {
		return err
	}

	if len(permissions) == 0 {
		fmt.Fprintln(a.out, "No permissions found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-5s %-6s %-8s %-16s %s\n", "ID", "LEVEL", "ACTIVE", "NAME", "DESCRIPTION")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, p := range permissions {
		active := "yes"
		if !p.Active {
			active = "no"
		}
		fmt.Fprintf(a.out, "%-5d %-6d %-8s %-16s %s\n", p.ID, p.Level, active, p.Name, p.Description)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Create creates a permission level.
func (a *PermissionAdapter) Create(ctx context.Context, name string, level int, description string) error {
	p, err := a.service.CreatePermission(ctx, primary.CreatePermissionRequest{
		Name:        name,
		Level:       level,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Created permission %d: %s (level %d)\n", p.ID, p.Name, p.Level)
	return nil
}

// Update updates a permission level.
func (a *PermissionAdapter) Update(ctx context.Context, req primary.UpdatePermissionRequest) error {
	if err := a.service.UpdatePermission(ctx, req); err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Permission %d updated\n", req.ID)
	return nil
}

// Delete soft deletes a permission level.
func (a *PermissionAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.service.DeletePermission(ctx, id); err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Permission %d deleted\n", id)
	return nil
}

// Assign gives a user a permission level.
func (a *PermissionAdapter) Assign(ctx context.Context, userID, permissionID int64) error {
	if err := a.service.AssignPermission(ctx, userID, permissionID); err != nil {
		return fmt.Errorf("failed to assign permission: %w", err)
	}

	fmt.Fprintf(a.out, "✓ User %d now has permission %d\n", userID, permissionID)
	return nil
}

// CreateUser registers a user.
func (a *PermissionAdapter) CreateUser(ctx context.Context, name, email string, permissionID int64) error {
	u, err := a.service.CreateUser(ctx, primary.CreateUserRequest{
		Name:         name,
		Email:        email,
		PermissionID: permissionID,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created user %d: %s <%s>\n", u.ID, u.Name, u.Email)
	return nil
}

// Users lists users with their permission.
func (a *PermissionAdapter) Users(ctx context.Context) error {
	users, err := a.service.ListUsers(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-5s %-20s %-28s %s\n", "ID", "NAME", "EMAIL", "PERMISSION")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, u := range users {
		permission := "-"
		if u.PermissionID != 0 {
			permission = fmt.Sprintf("%s (level %d)", u.PermissionName, u.PermissionLevel)
		}
		fmt.Fprintf(a.out, "%-5d %-20s %-28s %s\n", u.ID, u.Name, u.Email, permission)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Check evaluates a user against a required level. A denied user is not an
// error; the decision is printed.
func (a *PermissionAdapter) Check(ctx context.Context, userID int64, requiredLevel int) (*primary.AccessDecision, error) {
	decision, err := a.service.CheckAccess(ctx, userID, requiredLevel)
	if err != nil {
		return nil, err
	}

	if decision.Allowed {
		fmt.Fprintf(a.out, "%s User %d (level %d) may access level %d\n", okColor.Sprint("✓"), userID, decision.UserLevel, requiredLevel)
	} else {
		fmt.Fprintf(a.out, "%s User %d denied: %s\n", warnColor.Sprint("✗"), userID, decision.Reason)
	}
	return decision, nil
}

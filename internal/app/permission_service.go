package app

import (
	"context"
	"fmt"

	corepermission "github.com/example/crudgen/internal/core/permission"
	"github.com/example/crudgen/internal/ports/primary"
	"github.com/example/crudgen/internal/ports/secondary"
)

// PermissionServiceImpl implements the PermissionService interface.
type PermissionServiceImpl struct {
	permissionRepo secondary.PermissionRepository
	userRepo       secondary.UserRepository
}

// NewPermissionService creates a new PermissionService with injected dependencies.
func NewPermissionService(permissionRepo secondary.PermissionRepository, userRepo secondary.UserRepository) *PermissionServiceImpl {
	return &PermissionServiceImpl{
		permissionRepo: permissionRepo,
		userRepo:       userRepo,
	}
}

// ListPermissions retrieves live permissions, newest first.
func (s *PermissionServiceImpl) ListPermissions(ctx context.Context) ([]*primary.Permission, error) {
	records, err := s.permissionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissions := make([]*primary.Permission, len(records))
	for i, r := range records {
		permissions[i] = s.recordToPermission(r)
	}
	return permissions, nil
}

// CreatePermission creates a new permission level.
func (s *PermissionServiceImpl) CreatePermission(ctx context.Context, req primary.CreatePermissionRequest) (*primary.Permission, error) {
	existing, err := s.permissionRepo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	guard := corepermission.CanCreatePermission(corepermission.CreatePermissionContext{
		Name:       req.Name,
		Level:      req.Level,
		NameExists: existing != nil,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record := &secondary.PermissionRecord{
		Name:        req.Name,
		Level:       req.Level,
		Description: req.Description,
		Active:      true,
	}
	id, err := s.permissionRepo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}

	created, err := s.permissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created permission: %w", err)
	}
	return s.recordToPermission(created), nil
}

// UpdatePermission updates an existing permission level.
func (s *PermissionServiceImpl) UpdatePermission(ctx context.Context, req primary.UpdatePermissionRequest) error {
	current, err := s.permissionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if req.Name != current.Name {
		existing, err := s.permissionRepo.GetByName(ctx, req.Name)
		if err != nil {
			return err
		}
		guard := corepermission.CanCreatePermission(corepermission.CreatePermissionContext{
			Name:       req.Name,
			Level:      req.Level,
			NameExists: existing != nil,
		})
		if err := guard.Error(); err != nil {
			return err
		}
	} else if req.Level < 0 {
		return fmt.Errorf("invalid level %d: must be zero or greater", req.Level)
	}

	return s.permissionRepo.Update(ctx, &secondary.PermissionRecord{
		ID:          req.ID,
		Name:        req.Name,
		Level:       req.Level,
		Description: req.Description,
		Active:      req.Active,
	})
}

// DeletePermission soft deletes a permission level.
func (s *PermissionServiceImpl) DeletePermission(ctx context.Context, id int64) error {
	record, err := s.permissionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	assigned, err := s.permissionRepo.CountUsers(ctx, id)
	if err != nil {
		return err
	}

	guard := corepermission.CanDeletePermission(corepermission.DeletePermissionContext{
		PermissionID: id,
		Level:        record.Level,
		AssignedUser: assigned,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	return s.permissionRepo.SoftDelete(ctx, id)
}

// CreateUser registers a user, optionally with a permission.
func (s *PermissionServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("user name and email are required")
	}
	if req.PermissionID != 0 {
		if _, err := s.permissionRepo.GetByID(ctx, req.PermissionID); err != nil {
			return nil, err
		}
	}

	id, err := s.userRepo.Create(ctx, &secondary.UserRecord{
		Name:         req.Name,
		Email:        req.Email,
		PermissionID: req.PermissionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created user: %w", err)
	}
	return s.recordToUser(created), nil
}

// ListUsers retrieves users with their permission.
func (s *PermissionServiceImpl) ListUsers(ctx context.Context) ([]*primary.User, error) {
	records, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = s.recordToUser(r)
	}
	return users, nil
}

// AssignPermission gives a user a permission level.
func (s *PermissionServiceImpl) AssignPermission(ctx context.Context, userID, permissionID int64) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.permissionRepo.GetByID(ctx, permissionID); err != nil {
		return err
	}
	return s.userRepo.AssignPermission(ctx, userID, permissionID)
}

// CheckAccess evaluates a user against a required level.
func (s *PermissionServiceImpl) CheckAccess(ctx context.Context, userID int64, requiredLevel int) (*primary.AccessDecision, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := corepermission.CanAccess(corepermission.AccessContext{
		Authenticated: true,
		HasPermission: user.HasPermission(),
		UserLevel:     user.PermissionLevel,
		RequiredLevel: requiredLevel,
	})
	return &primary.AccessDecision{
		Allowed:   result.Allowed,
		Reason:    result.Reason,
		UserLevel: user.PermissionLevel,
	}, nil
}

// GetUserLevel returns the user's level, or 0 when they have none.
func (s *PermissionServiceImpl) GetUserLevel(ctx context.Context, userID int64) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !user.HasPermission() {
		return 0, nil
	}
	return user.PermissionLevel, nil
}

// Helper methods

func (s *PermissionServiceImpl) recordToPermission(r *secondary.PermissionRecord) *primary.Permission {
	return &primary.Permission{
		ID:          r.ID,
		Name:        r.Name,
		Level:       r.Level,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (s *PermissionServiceImpl) recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		PermissionID:    r.PermissionID,
		PermissionName:  r.PermissionName,
		PermissionLevel: r.PermissionLevel,
	}
}

// Ensure PermissionServiceImpl implements the interface
var _ primary.PermissionService = (*PermissionServiceImpl)(nil)

package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/example/crudgen/internal/ports/primary"
	"github.com/example/crudgen/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockPermissionRepository implements secondary.PermissionRepository for testing.
type mockPermissionRepository struct {
	permissions map[int64]*secondary.PermissionRecord
	users       *mockUserRepository
	nextID      int64
	createErr   error
	listErr     error
}

func newMockPermissionRepository(users *mockUserRepository) *mockPermissionRepository {
	m := &mockPermissionRepository{
		permissions: make(map[int64]*secondary.PermissionRecord),
		users:       users,
	}
	for _, p := range []struct {
		name  string
		level int
	}{{"System", 0}, {"Administrador", 1}, {"Colaborador", 2}, {"Externo", 3}, {"Visitante", 99}} {
		m.nextID++
		m.permissions[m.nextID] = &secondary.PermissionRecord{ID: m.nextID, Name: p.name, Level: p.level, Active: true}
	}
	return m
}

func (m *mockPermissionRepository) Create(ctx context.Context, p *secondary.PermissionRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	copied := *p
	copied.ID = m.nextID
	m.permissions[copied.ID] = &copied
	return copied.ID, nil
}

func (m *mockPermissionRepository) GetByID(ctx context.Context, id int64) (*secondary.PermissionRecord, error) {
	if p, ok := m.permissions[id]; ok && !p.Deleted {
		return p, nil
	}
	return nil, fmt.Errorf("permission %d not found", id)
}

func (m *mockPermissionRepository) GetByName(ctx context.Context, name string) (*secondary.PermissionRecord, error) {
	for _, p := range m.permissions {
		if p.Name == name && !p.Deleted {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPermissionRepository) List(ctx context.Context) ([]*secondary.PermissionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.PermissionRecord
	for _, p := range m.permissions {
		if !p.Deleted {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockPermissionRepository) Update(ctx context.Context, p *secondary.PermissionRecord) error {
	if _, ok := m.permissions[p.ID]; !ok {
		return fmt.Errorf("permission %d not found", p.ID)
	}
	copied := *p
	m.permissions[p.ID] = &copied
	return nil
}

func (m *mockPermissionRepository) SoftDelete(ctx context.Context, id int64) error {
	p, ok := m.permissions[id]
	if !ok {
		return fmt.Errorf("permission %d not found", id)
	}
	p.Deleted = true
	return nil
}

func (m *mockPermissionRepository) CountUsers(ctx context.Context, id int64) (int, error) {
	count := 0
	for _, u := range m.users.users {
		if u.PermissionID == id {
			count++
		}
	}
	return count, nil
}

// mockUserRepository implements secondary.UserRepository for testing.
type mockUserRepository struct {
	users       map[int64]*secondary.UserRecord
	permissions *mockPermissionRepository
	nextID      int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*secondary.UserRecord)}
}

func (m *mockUserRepository) Create(ctx context.Context, u *secondary.UserRecord) (int64, error) {
	m.nextID++
	copied := *u
	copied.ID = m.nextID
	m.users[copied.ID] = &copied
	return copied.ID, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*secondary.UserRecord, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", secondary.ErrUserNotFound, id)
	}
	joined := *u
	if p, ok := m.permissions.permissions[u.PermissionID]; ok {
		joined.PermissionName = p.Name
		joined.PermissionLevel = p.Level
	}
	return &joined, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	var result []*secondary.UserRecord
	for id := range m.users {
		u, _ := m.GetByID(ctx, id)
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUserRepository) AssignPermission(ctx context.Context, userID, permissionID int64) error {
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("%w: id %d", secondary.ErrUserNotFound, userID)
	}
	u.PermissionID = permissionID
	return nil
}

var _ secondary.PermissionRepository = (*mockPermissionRepository)(nil)
var _ secondary.UserRepository = (*mockUserRepository)(nil)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestPermissionService() (*PermissionServiceImpl, *mockPermissionRepository, *mockUserRepository) {
	users := newMockUserRepository()
	permissions := newMockPermissionRepository(users)
	users.permissions = permissions
	return NewPermissionService(permissions, users), permissions, users
}

// Seeded IDs follow the level order.
const (
	systemID        int64 = 1
	administratorID int64 = 2
	collaboratorID  int64 = 3
	externalID      int64 = 4
	visitorID       int64 = 5
)

// ============================================================================
// Tests
// ============================================================================

func TestListPermissions(t *testing.T) {
	service, _, _ := newTestPermissionService()

	permissions, err := service.ListPermissions(context.Background())
	if err != nil {
		t.Fatalf("ListPermissions() error = %v", err)
	}
	if len(permissions) != 5 {
		t.Fatalf("expected 5 permissions, got %d", len(permissions))
	}
	if permissions[0].Name != "Visitante" {
		t.Errorf("expected newest first, got %s", permissions[0].Name)
	}
}

func TestListPermissions_Error(t *testing.T) {
	service, repo, _ := newTestPermissionService()
	repo.listErr = errors.New("boom")

	if _, err := service.ListPermissions(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestCreatePermission(t *testing.T) {
	tests := []struct {
		name    string
		req     primary.CreatePermissionRequest
		wantErr string
	}{
		{"valid", primary.CreatePermissionRequest{Name: "Gerente", Level: 5, Description: "Filial"}, ""},
		{"duplicate name", primary.CreatePermissionRequest{Name: "Externo", Level: 4}, `permission "Externo" already exists`},
		{"negative level", primary.CreatePermissionRequest{Name: "X", Level: -2}, "invalid level -2: must be zero or greater"},
		{"empty name", primary.CreatePermissionRequest{Level: 4}, "permission name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestPermissionService()

			p, err := service.CreatePermission(context.Background(), tt.req)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreatePermission() error = %v", err)
			}
			if p.Name != tt.req.Name || p.Level != tt.req.Level || !p.Active {
				t.Errorf("unexpected permission %+v", p)
			}
		})
	}
}

func TestUpdatePermission(t *testing.T) {
	service, repo, _ := newTestPermissionService()
	ctx := context.Background()

	err := service.UpdatePermission(ctx, primary.UpdatePermissionRequest{ID: externalID, Name: "Parceiro", Level: 4, Active: true})
	if err != nil {
		t.Fatalf("UpdatePermission() error = %v", err)
	}
	if repo.permissions[externalID].Name != "Parceiro" || repo.permissions[externalID].Level != 4 {
		t.Errorf("permission not updated: %+v", repo.permissions[externalID])
	}

	err = service.UpdatePermission(ctx, primary.UpdatePermissionRequest{ID: externalID, Name: "System", Level: 4})
	if err == nil {
		t.Error("expected duplicate name error")
	}

	err = service.UpdatePermission(ctx, primary.UpdatePermissionRequest{ID: externalID, Name: "Parceiro", Level: -1})
	if err == nil {
		t.Error("expected negative level error")
	}
}

func TestDeletePermission(t *testing.T) {
	service, repo, users := newTestPermissionService()
	ctx := context.Background()
	users.users[1] = &secondary.UserRecord{ID: 1, Name: "Ana", PermissionID: collaboratorID}

	if err := service.DeletePermission(ctx, visitorID); err != nil {
		t.Fatalf("DeletePermission() error = %v", err)
	}
	if !repo.permissions[visitorID].Deleted {
		t.Error("permission should be soft deleted")
	}

	if err := service.DeletePermission(ctx, systemID); err == nil {
		t.Error("System permission must not be deletable")
	}
	if err := service.DeletePermission(ctx, collaboratorID); err == nil {
		t.Error("assigned permission must not be deletable")
	}
	if err := service.DeletePermission(ctx, visitorID); err == nil {
		t.Error("deleting twice should fail")
	}
}

func TestCreateUserAndAssign(t *testing.T) {
	service, _, _ := newTestPermissionService()
	ctx := context.Background()

	user, err := service.CreateUser(ctx, primary.CreateUserRequest{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.PermissionID != 0 {
		t.Errorf("expected no permission, got %d", user.PermissionID)
	}

	if err := service.AssignPermission(ctx, user.ID, administratorID); err != nil {
		t.Fatalf("AssignPermission() error = %v", err)
	}

	users, err := service.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].PermissionName != "Administrador" {
		t.Errorf("unexpected users %+v", users)
	}

	if err := service.AssignPermission(ctx, user.ID, 999); err == nil {
		t.Error("expected unknown permission error")
	}
	if err := service.AssignPermission(ctx, 999, administratorID); err == nil {
		t.Error("expected unknown user error")
	}
	if _, err := service.CreateUser(ctx, primary.CreateUserRequest{Name: "Bia"}); err == nil {
		t.Error("expected missing email error")
	}
	if _, err := service.CreateUser(ctx, primary.CreateUserRequest{Name: "Bia", Email: "b@example.com", PermissionID: 999}); err == nil {
		t.Error("expected unknown permission error")
	}
}

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name         string
		permissionID int64
		required     int
		wantAllowed  bool
		wantLevel    int
	}{
		{"admin on collaborator route", administratorID, 2, true, 1},
		{"collaborator on collaborator route", collaboratorID, 2, true, 2},
		{"visitor on collaborator route", visitorID, 2, false, 99},
		{"no permission", 0, 99, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, users := newTestPermissionService()
			users.users[1] = &secondary.UserRecord{ID: 1, Name: "Ana", PermissionID: tt.permissionID}

			decision, err := service.CheckAccess(context.Background(), 1, tt.required)
			if err != nil {
				t.Fatalf("CheckAccess() error = %v", err)
			}
			if decision.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (%s)", decision.Allowed, tt.wantAllowed, decision.Reason)
			}
			if decision.UserLevel != tt.wantLevel {
				t.Errorf("UserLevel = %d, want %d", decision.UserLevel, tt.wantLevel)
			}

			level, err := service.GetUserLevel(context.Background(), 1)
			if err != nil {
				t.Fatalf("GetUserLevel() error = %v", err)
			}
			if level != tt.wantLevel {
				t.Errorf("GetUserLevel() = %d, want %d", level, tt.wantLevel)
			}
		})
	}
}

func TestCheckAccess_UnknownUser(t *testing.T) {
	service, _, _ := newTestPermissionService()
	_, err := service.CheckAccess(context.Background(), 42, 2)
	if !errors.Is(err, secondary.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/crudgen/internal/adapters/sqlite"
	"github.com/example/crudgen/internal/app"
	"github.com/example/crudgen/internal/db"
	"github.com/example/crudgen/internal/ports/primary"
	"github.com/example/crudgen/internal/ports/secondary"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================================================
// Mock Implementations
// ============================================================================

// mockPermissionService answers CheckAccess from a level table.
type mockPermissionService struct {
	levels   map[int64]int // user id -> level; missing means no permission
	checkErr error
	checked  []int64
}

func (m *mockPermissionService) CheckAccess(ctx context.Context, userID int64, requiredLevel int) (*primary.AccessDecision, error) {
	m.checked = append(m.checked, userID)
	if m.checkErr != nil {
		return nil, m.checkErr
	}
	level, ok := m.levels[userID]
	if !ok {
		return &primary.AccessDecision{Allowed: false, Reason: "user has no permission assigned"}, nil
	}
	if level > requiredLevel {
		return &primary.AccessDecision{Allowed: false, Reason: "level too low", UserLevel: level}, nil
	}
	return &primary.AccessDecision{Allowed: true, UserLevel: level}, nil
}

func (m *mockPermissionService) ListPermissions(ctx context.Context) ([]*primary.Permission, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPermissionService) CreatePermission(ctx context.Context, req primary.CreatePermissionRequest) (*primary.Permission, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPermissionService) UpdatePermission(ctx context.Context, req primary.UpdatePermissionRequest) error {
	return errors.New("not implemented")
}

func (m *mockPermissionService) DeletePermission(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (m *mockPermissionService) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPermissionService) ListUsers(ctx context.Context) ([]*primary.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPermissionService) AssignPermission(ctx context.Context, userID, permissionID int64) error {
	return errors.New("not implemented")
}

func (m *mockPermissionService) GetUserLevel(ctx context.Context, userID int64) (int, error) {
	return 0, errors.New("not implemented")
}

// ============================================================================
// Helpers
// ============================================================================

func newRouter(t *testing.T, svc primary.PermissionService, logger *zap.Logger, level int) *gin.Engine {
	t.Helper()
	m := NewPermissionMiddleware(svc, nil, logger)
	r := gin.New()
	m.Register(r)
	r.GET("/produto", m.RequirePermission(level), func(c *gin.Context) {
		lvl, _ := c.Get(LevelKey)
		c.JSON(http.StatusOK, gin.H{"level": lvl})
	})
	return r
}

func get(r http.Handler, path string, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req.Header.Set(UserHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ============================================================================
// RequirePermission Tests
// ============================================================================

func TestRequirePermission(t *testing.T) {
	svc := &mockPermissionService{levels: map[int64]int{1: 0, 2: 1, 3: 2, 4: 3}}

	tests := []struct {
		name       string
		userID     string
		wantStatus int
	}{
		{"system user passes", "1", http.StatusOK},
		{"administrator passes", "2", http.StatusOK},
		{"collaborator passes at own level", "3", http.StatusOK},
		{"external is redirected", "4", http.StatusFound},
		{"user without permission is redirected", "9", http.StatusFound},
		{"anonymous is redirected", "", http.StatusFound},
		{"malformed id is anonymous", "abc", http.StatusFound},
	}

	r := newRouter(t, svc, zaptest.NewLogger(t), 2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/produto", tt.userID)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusFound {
				assert.Equal(t, DeniedPath, w.Header().Get("Location"))
			}
		})
	}
}

func TestRequirePermission_AnonymousSkipsLookup(t *testing.T) {
	svc := &mockPermissionService{}
	r := newRouter(t, svc, zaptest.NewLogger(t), 2)

	get(r, "/produto", "")

	assert.Empty(t, svc.checked)
}

func TestRequirePermission_SetsFlashCookie(t *testing.T) {
	svc := &mockPermissionService{levels: map[int64]int{4: 3}}
	r := newRouter(t, svc, zaptest.NewLogger(t), 1)

	w := get(r, "/produto", "4")

	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, FlashCookie, cookies[0].Name)
	msg, err := url.QueryUnescape(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, DeniedMessage, msg)
}

func TestRequirePermission_ServiceError(t *testing.T) {
	svc := &mockPermissionService{checkErr: errors.New("database is locked")}
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRouter(t, svc, zap.New(core), 2)

	w := get(r, "/produto", "1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.FilterMessage("permission check failed").Len())
}

func TestRequirePermission_UnknownUserIsRedirected(t *testing.T) {
	svc := &mockPermissionService{checkErr: fmt.Errorf("%w: id 999", secondary.ErrUserNotFound)}
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRouter(t, svc, zap.New(core), 2)

	w := get(r, "/produto", "999")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, DeniedPath, w.Header().Get("Location"))
	assert.Zero(t, logs.FilterMessage("permission check failed").Len())
	denied := logs.FilterMessage("permission denied").All()
	require.Len(t, denied, 1)
	assert.Equal(t, "unknown user", denied[0].ContextMap()["reason"])
}

func TestRequirePermission_SQLiteStore(t *testing.T) {
	database, err := db.Open(db.MemoryPath, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	users := sqlite.NewUserRepository(database)
	svc := app.NewPermissionService(sqlite.NewPermissionRepository(database), users)
	permissions, err := svc.ListPermissions(context.Background())
	require.NoError(t, err)
	var collaboratorID int64
	for _, p := range permissions {
		if p.Level == 2 {
			collaboratorID = p.ID
		}
	}
	require.NotZero(t, collaboratorID)
	user, err := svc.CreateUser(context.Background(), primary.CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", PermissionID: collaboratorID,
	})
	require.NoError(t, err)

	r := newRouter(t, svc, zaptest.NewLogger(t), 2)

	w := get(r, "/produto", fmt.Sprint(user.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/produto", "999")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, DeniedPath, w.Header().Get("Location"))
}

func TestRequirePermission_LogsDecisions(t *testing.T) {
	svc := &mockPermissionService{levels: map[int64]int{2: 1, 4: 3}}
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRouter(t, svc, zap.New(core), 2)

	get(r, "/produto", "2")
	get(r, "/produto", "4")

	assert.Equal(t, 1, logs.FilterMessage("permission granted").Len())
	denied := logs.FilterMessage("permission denied").All()
	require.Len(t, denied, 1)
	assert.Equal(t, int64(4), denied[0].ContextMap()["user_id"])
	assert.Equal(t, int64(2), denied[0].ContextMap()["required_level"])
}

func TestRequirePermission_PassesLevelToHandler(t *testing.T) {
	svc := &mockPermissionService{levels: map[int64]int{2: 1}}
	r := newRouter(t, svc, zaptest.NewLogger(t), 2)

	w := get(r, "/produto", "2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"level":1}`, w.Body.String())
}

// ============================================================================
// Denied page / resolver Tests
// ============================================================================

func TestDenied_ConsumesFlash(t *testing.T) {
	m := NewPermissionMiddleware(&mockPermissionService{}, nil, nil)
	r := gin.New()
	m.Register(r)

	req := httptest.NewRequest(http.MethodGet, DeniedPath, nil)
	req.AddCookie(&http.Cookie{Name: FlashCookie, Value: url.QueryEscape("acesso negado")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"acesso negado"}`, w.Body.String())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestDenied_DefaultMessage(t *testing.T) {
	m := NewPermissionMiddleware(&mockPermissionService{}, nil, nil)
	r := gin.New()
	m.Register(r)

	w := get(r, DeniedPath, "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permissão")
}

func TestContextUserResolver(t *testing.T) {
	resolve := ContextUserResolver("user_id")

	tests := []struct {
		name   string
		value  any
		set    bool
		wantID int64
		wantOK bool
	}{
		{name: "missing", set: false},
		{name: "int64", value: int64(7), set: true, wantID: 7, wantOK: true},
		{name: "int", value: 8, set: true, wantID: 8, wantOK: true},
		{name: "string", value: "9", set: true, wantID: 9, wantOK: true},
		{name: "zero", value: int64(0), set: true},
		{name: "wrong type", value: 1.5, set: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			if tt.set {
				c.Set("user_id", tt.value)
			}
			id, ok := resolve(c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

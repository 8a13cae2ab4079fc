// Package wire provides dependency injection for crudgen.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/crudgen/internal/adapters/cli"
	"github.com/example/crudgen/internal/adapters/filesystem"
	"github.com/example/crudgen/internal/adapters/sqlite"
	"github.com/example/crudgen/internal/app"
	"github.com/example/crudgen/internal/config"
	"github.com/example/crudgen/internal/db"
	"github.com/example/crudgen/internal/middleware"
	"github.com/example/crudgen/internal/ports/primary"
)

var (
	projectRoot = "."

	cfg     *config.Config
	cfgErr  error
	cfgOnce sync.Once

	crudService primary.CrudService
	crudErr     error
	crudOnce    sync.Once

	database          *sql.DB
	permissionService primary.PermissionService
	permissionErr     error
	permissionOnce    sync.Once
)

// SetProjectRoot sets the Laravel project every service operates on.
// It must be called before the first service is requested.
func SetProjectRoot(dir string) {
	if dir != "" {
		projectRoot = dir
	}
}

// Config returns the configuration for the current project.
func Config() (*config.Config, error) {
	cfgOnce.Do(func() {
		cfg, cfgErr = config.Load(projectRoot)
	})
	return cfg, cfgErr
}

// CrudService returns the singleton CrudService instance.
func CrudService() (primary.CrudService, error) {
	crudOnce.Do(initCrudService)
	return crudService, crudErr
}

func initCrudService() {
	c, err := Config()
	if err != nil {
		crudErr = err
		return
	}

	files, err := filesystem.NewProjectFiles(projectRoot)
	if err != nil {
		crudErr = err
		return
	}
	stubs := filesystem.NewStubStore(files, c.Paths.Stubs)

	crudService = app.NewCrudService(files, stubs, c.ScaffoldOptions())
}

// PermissionService returns the singleton PermissionService instance.
// The permission database is only opened when a permission command runs.
func PermissionService() (primary.PermissionService, error) {
	permissionOnce.Do(initPermissionService)
	return permissionService, permissionErr
}

func initPermissionService() {
	c, err := Config()
	if err != nil {
		permissionErr = err
		return
	}

	database, err = db.Open(c.DBPath(projectRoot), os.Stderr)
	if err != nil {
		permissionErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	permissionRepo := sqlite.NewPermissionRepository(database)
	userRepo := sqlite.NewUserRepository(database)

	permissionService = app.NewPermissionService(permissionRepo, userRepo)
}

// Logger builds the zap logger configured for the project.
func Logger() (*zap.Logger, error) {
	c, err := Config()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if err := zc.Level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return zc.Build()
}

// PermissionMiddleware returns the gin middleware backed by PermissionService.
func PermissionMiddleware(logger *zap.Logger) (*middleware.PermissionMiddleware, error) {
	svc, err := PermissionService()
	if err != nil {
		return nil, err
	}
	return middleware.NewPermissionMiddleware(svc, nil, logger), nil
}

// CrudAdapter returns a new CrudAdapter writing to the given output.
// Each call creates a new adapter (adapters are stateless translators).
func CrudAdapter(out io.Writer) (*cliadapter.CrudAdapter, error) {
	svc, err := CrudService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewCrudAdapter(svc, out), nil
}

// PermissionAdapter returns a new PermissionAdapter writing to the given output.
func PermissionAdapter(out io.Writer) (*cliadapter.PermissionAdapter, error) {
	svc, err := PermissionService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewPermissionAdapter(svc, out), nil
}

// Close releases the permission database if it was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

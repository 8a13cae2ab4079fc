// Package config loads crudgen settings from crudgen.yaml, CRUDGEN_* env
// vars and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/example/crudgen/internal/scaffold"
)

// FileName is the config file looked up in the project root and $HOME/.crudgen.
const FileName = "crudgen"

// EnvPrefix prefixes every environment override, e.g. CRUDGEN_PATHS_ROUTES.
const EnvPrefix = "CRUDGEN"

// Menu positions accepted by splice.menu_position.
const (
	MenuAfter  = "after"
	MenuBefore = "before"
)

// Config represents the complete crudgen configuration.
type Config struct {
	Paths      PathsConfig      `mapstructure:"paths"`
	Anchors    AnchorsConfig    `mapstructure:"anchors"`
	Splice     SpliceConfig     `mapstructure:"splice"`
	Migration  MigrationConfig  `mapstructure:"migration"`
	Controller ControllerConfig `mapstructure:"controller"`
	Permission PermissionConfig `mapstructure:"permission"`
	Log        LogConfig        `mapstructure:"log"`
}

// PathsConfig holds project-relative locations.
type PathsConfig struct {
	Models      string `mapstructure:"models"`
	Controllers string `mapstructure:"controllers"`
	Views       string `mapstructure:"views"`
	Migrations  string `mapstructure:"migrations"`
	Routes      string `mapstructure:"routes"`
	Sidebar     string `mapstructure:"sidebar"`
	Stubs       string `mapstructure:"stubs"`
}

// AnchorsConfig holds the marker comments generated code is spliced at.
type AnchorsConfig struct {
	Controllers string `mapstructure:"controllers"`
	Routes      string `mapstructure:"routes"`
	Menu        string `mapstructure:"menu"`
}

// SpliceConfig controls how snippets are inserted.
type SpliceConfig struct {
	MenuPosition string `mapstructure:"menu_position"` // after, before
}

// MigrationConfig controls migration file naming.
type MigrationConfig struct {
	StampLayout string `mapstructure:"stamp_layout"` // Go time layout
}

// ControllerConfig controls generated controllers.
type ControllerConfig struct {
	DropdownLabelColumn string `mapstructure:"dropdown_label_column"`
}

// PermissionConfig controls the ACL.
type PermissionConfig struct {
	DefaultLevel int    `mapstructure:"default_level"`
	DBPath       string `mapstructure:"db_path"`
}

// LogConfig controls the middleware logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration for the project rooted at projectRoot. A missing
// config file is not an error.
func Load(projectRoot string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")

	if projectRoot != "" {
		v.AddConfigPath(projectRoot)
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".crudgen"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	layout := scaffold.DefaultLayout()
	v.SetDefault("paths.models", layout.ModelsDir)
	v.SetDefault("paths.controllers", layout.ControllersDir)
	v.SetDefault("paths.views", layout.ViewsDir)
	v.SetDefault("paths.migrations", layout.MigrationsDir)
	v.SetDefault("paths.routes", layout.RoutesFile)
	v.SetDefault("paths.sidebar", layout.SidebarFile)
	v.SetDefault("paths.stubs", "stubs")

	anchors := scaffold.DefaultAnchors()
	v.SetDefault("anchors.controllers", anchors.Controllers)
	v.SetDefault("anchors.routes", anchors.Routes)
	v.SetDefault("anchors.menu", anchors.Menu)

	v.SetDefault("splice.menu_position", MenuAfter)
	v.SetDefault("migration.stamp_layout", scaffold.DefaultStampLayout)
	v.SetDefault("controller.dropdown_label_column", scaffold.DefaultLabelColumn)

	v.SetDefault("permission.default_level", scaffold.DefaultPermissionLevel)
	v.SetDefault("permission.db_path", "database/database.sqlite")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Splice.MenuPosition {
	case MenuAfter, MenuBefore:
	default:
		return fmt.Errorf("invalid splice.menu_position %q: expected %q or %q", c.Splice.MenuPosition, MenuAfter, MenuBefore)
	}

	// A blank anchor matches the first line break of the target file.
	for _, a := range []struct{ key, value string }{
		{"anchors.controllers", c.Anchors.Controllers},
		{"anchors.routes", c.Anchors.Routes},
		{"anchors.menu", c.Anchors.Menu},
	} {
		if strings.TrimSpace(a.value) == "" {
			return fmt.Errorf("%s must not be empty", a.key)
		}
	}

	if c.Migration.StampLayout == "" {
		return errors.New("migration.stamp_layout must not be empty")
	}
	// A layout without any time element yields the same name every run.
	ref := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if ref.Format(c.Migration.StampLayout) == c.Migration.StampLayout {
		return fmt.Errorf("invalid migration.stamp_layout %q: no time elements", c.Migration.StampLayout)
	}

	if c.Permission.DefaultLevel < 0 {
		return fmt.Errorf("invalid permission.default_level %d", c.Permission.DefaultLevel)
	}
	return nil
}

// ScaffoldOptions converts the config into generator options.
func (c *Config) ScaffoldOptions() scaffold.Options {
	opts := scaffold.DefaultOptions()
	opts.Layout = scaffold.Layout{
		ModelsDir:      c.Paths.Models,
		ControllersDir: c.Paths.Controllers,
		ViewsDir:       c.Paths.Views,
		MigrationsDir:  c.Paths.Migrations,
		RoutesFile:     c.Paths.Routes,
		SidebarFile:    c.Paths.Sidebar,
	}
	opts.Anchors = scaffold.Anchors{
		Controllers: c.Anchors.Controllers,
		Routes:      c.Anchors.Routes,
		Menu:        c.Anchors.Menu,
	}
	if c.Splice.MenuPosition == MenuBefore {
		opts.MenuOperation = scaffold.OpInsertBefore
	}
	opts.LabelColumn = c.Controller.DropdownLabelColumn
	opts.PermissionLevel = c.Permission.DefaultLevel
	opts.StampLayout = c.Migration.StampLayout
	return opts
}

// DBPath resolves the permission database against the project root.
func (c *Config) DBPath(projectRoot string) string {
	if filepath.IsAbs(c.Permission.DBPath) || c.Permission.DBPath == ":memory:" {
		return c.Permission.DBPath
	}
	return filepath.Join(projectRoot, c.Permission.DBPath)
}

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/example/crudgen/internal/adapters/web"
	"github.com/example/crudgen/internal/ports/primary"
	"github.com/example/crudgen/internal/wire"
)

// errAccessDenied makes `permission check` exit non-zero for denied users.
var errAccessDenied = errors.New("access denied")

// PermissionCmd returns the permission command
func PermissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permission",
		Short: "Manage permission levels and user access",
		Long: `Manage the permission levels used by the permissao route middleware.

Lower levels carry more privilege: a user may reach a route when their
level is at most the level the route requires.`,
	}

	cmd.AddCommand(permissionListCmd())
	cmd.AddCommand(permissionCreateCmd())
	cmd.AddCommand(permissionUpdateCmd())
	cmd.AddCommand(permissionDeleteCmd())
	cmd.AddCommand(permissionAssignCmd())
	cmd.AddCommand(permissionUsersCmd())
	cmd.AddCommand(permissionUserCreateCmd())
	cmd.AddCommand(permissionCheckCmd())
	cmd.AddCommand(permissionServeCmd())

	return cmd
}

func permissionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List permission levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.List(cmd.Context())
		},
	}
}

func permissionCreateCmd() *cobra.Command {
	var level int
	var description string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a permission level",
		Long: `Create a permission level.

Examples:
  crudgen permission create Gerente --level 2 --description "Gerência"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Create(cmd.Context(), args[0], level, description)
		},
	}

	cmd.Flags().IntVarP(&level, "level", "l", 0, "Permission level (lower is more privileged)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}

func permissionUpdateCmd() *cobra.Command {
	var name string
	var level int
	var description string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "update [permission-id]",
		Short: "Update a permission level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Update(cmd.Context(), primary.UpdatePermissionRequest{
				ID:          id,
				Name:        name,
				Level:       level,
				Description: description,
				Active:      !inactive,
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Permission name")
	cmd.Flags().IntVarP(&level, "level", "l", 0, "Permission level")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Mark the permission inactive")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}

func permissionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [permission-id]",
		Short: "Soft delete a permission level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Delete(cmd.Context(), id)
		},
	}
}

func permissionAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [user-id] [permission-id]",
		Short: "Give a user a permission level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			permissionID, err := parseID(args[1])
			if err != nil {
				return err
			}
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Assign(cmd.Context(), userID, permissionID)
		},
	}
}

func permissionUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with their permission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Users(cmd.Context())
		},
	}
}

func permissionUserCreateCmd() *cobra.Command {
	var email string
	var permissionID int64

	cmd := &cobra.Command{
		Use:   "user-create [name]",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.CreateUser(cmd.Context(), args[0], email, permissionID)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "User email")
	cmd.Flags().Int64VarP(&permissionID, "permission", "p", 0, "Permission ID (omit for none)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func permissionCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [user-id] [required-level]",
		Short: "Check whether a user may reach a level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			level, err := strconv.Atoi(args[1])
			if err != nil || level < 0 {
				return fmt.Errorf("invalid level %q", args[1])
			}
			adapter, err := wire.PermissionAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			decision, err := adapter.Check(cmd.Context(), userID, level)
			if err != nil {
				return err
			}
			if !decision.Allowed {
				cmd.SilenceUsage = true
				return errAccessDenied
			}
			return nil
		},
	}
}

func permissionServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the permission admin API",
		Long: `Serve the permission admin endpoints over HTTP.

Callers identify themselves with the X-User-ID header. Managing
permissions requires administrator level; other callers are redirected
to /sempermissao.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := wire.Logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			svc, err := wire.PermissionService()
			if err != nil {
				return err
			}
			guard, err := wire.PermissionMiddleware(logger)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			r := gin.New()
			r.Use(gin.Recovery())
			web.NewPermissionHandler(svc, guard, logger).Register(r)

			fmt.Fprintf(cmd.OutOrStdout(), "Serving permissions on %s\n", addr)
			return r.Run(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")

	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

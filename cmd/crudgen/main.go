package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/crudgen/internal/cli"
	"github.com/example/crudgen/internal/version"
	"github.com/example/crudgen/internal/wire"
)

func main() {
	var project string

	rootCmd := &cobra.Command{
		Use:     "crudgen",
		Short:   "crudgen - CRUD scaffolding for Laravel + Inertia/Vue",
		Version: version.String(),
		Long: `crudgen generates CRUD modules (model, controller, views, routes, menu
item and migration) for Laravel + Inertia/Vue projects and manages the
permission levels that guard the generated routes.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetProjectRoot(project)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&project, "project", "C", ".", "Laravel project root")

	rootCmd.AddCommand(cli.MakeCrudCmd())
	rootCmd.AddCommand(cli.StubsCmd())
	rootCmd.AddCommand(cli.PermissionCmd())

	err := rootCmd.Execute()
	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/crudgen/internal/ports/primary"
	"github.com/example/crudgen/internal/scaffold"
	"github.com/example/crudgen/internal/wire"
)

// MakeCrudCmd returns the make:crud command
func MakeCrudCmd() *cobra.Command {
	var dryRun bool
	var level int
	var ask bool

	cmd := &cobra.Command{
		Use:   "make:crud <model> [fields...]",
		Short: "Generate a CRUD module for a Laravel + Inertia/Vue project",
		Long: fmt.Sprintf(`Generate a complete CRUD module:
  - Model (app/Models/)
  - Controller (app/Http/Controllers/)
  - Create and Index views (resources/js/pages/<Model>/)
  - Route group guarded by the permissao middleware (routes/web.php)
  - Sidebar menu item (resources/js/components/AppSidebar.vue)
  - Migration (database/migrations/)

The model may carry a display title: Produto:"Produto em estoque".
Fields are name:label:type triples. Fields prefixed with id_ become foreign
keys with a dropdown of the related model.

Field types: %s

Examples:
  crudgen make:crud Produto nome:"Nome":string preco:"Preço":moeda
  crudgen make:crud Pedido id_cliente:"Cliente":integer data:"Data":date --level 1
  crudgen make:crud Produto nome:Nome:string --dry-run`, strings.Join(scaffold.ValidTypes(), ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			adapter, err := wire.CrudAdapter(out)
			if err != nil {
				return err
			}

			req := primary.MakeCrudRequest{
				ModelArg: args[0],
				Fields:   args[1:],
				DryRun:   dryRun,
				Level:    level,
				LevelSet: cmd.Flags().Changed("level"),
			}
			if req.LevelSet && level < 0 {
				return fmt.Errorf("invalid --level %d: levels start at 0", level)
			}

			if ask && !dryRun {
				if err := adapter.Preview(cmd.Context(), req); err != nil {
					return err
				}
				ok, err := confirm("Proceed?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			return adapter.MakeCrud(cmd.Context(), req)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print generated files without writing them")
	cmd.Flags().IntVarP(&level, "level", "l", 0, "Permission level required by the route group (default: permission.default_level)")
	cmd.Flags().BoolVar(&ask, "confirm", false, "Show the plan and ask before writing")

	return cmd
}

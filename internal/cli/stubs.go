package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crudgen/internal/wire"
)

// StubsCmd returns the stubs:publish command
func StubsCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "stubs:publish",
		Short: "Copy the default stubs into the project for customisation",
		Long: `Copy the embedded stubs into the project's stubs directory.

Stubs found there take precedence over the embedded ones on every
make:crud run. Existing files are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.CrudAdapter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.PublishStubs(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite stubs that already exist")

	return cmd
}

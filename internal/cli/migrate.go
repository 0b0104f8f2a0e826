package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate command.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			// openRuntime already runs the migration.
			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			fmt.Fprintln(cmd.OutOrStdout(), "Database tables are up to date")
			return nil
		},
	}
}

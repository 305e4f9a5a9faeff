package cmd

import (
	"context"

	"database-manager/internal/application"
	"database-manager/internal/resolver"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the backups in a directory of a storage provider",
		Long: `List the files in a directory of a storage provider with their size and
creation time. --provider is accepted as an alias of --source.

Examples:
  database-manager list --source local --path nightly
  database-manager list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := collectArgs(cmd, resolver.ArgSource, resolver.ArgProvider, resolver.ArgPath)
			return runWithApp(cmd, func(ctx context.Context, app *application.Application) int {
				return app.List(ctx, args)
			})
		},
	}

	cmd.Flags().String(resolver.ArgSource, "", "Storage provider to list")
	cmd.Flags().String(resolver.ArgProvider, "", "Alias of --source")
	cmd.Flags().String(resolver.ArgPath, "", "Directory to list, relative to the provider root")
	return cmd
}

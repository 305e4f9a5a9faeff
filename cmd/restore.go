package cmd

import (
	"context"

	"database-manager/internal/application"
	"database-manager/internal/resolver"

	"github.com/spf13/cobra"
)

func newRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a backup from a storage provider",
		Long: `Download a backup from a storage provider, decompress it and load it into
a configured database. Without --sourcePath the backups of a directory are
listed and one is chosen.

Examples:
  database-manager restore --database app --provider local --sourcePath nightly/app-latest.sql.gz
  database-manager restore --provider s3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := collectArgs(cmd, resolver.ArgDatabase, resolver.ArgProvider, resolver.ArgSourcePath)
			return runWithApp(cmd, func(ctx context.Context, app *application.Application) int {
				return app.Restore(ctx, args)
			})
		},
	}

	cmd.Flags().String(resolver.ArgDatabase, "", "Database to restore into")
	cmd.Flags().String(resolver.ArgProvider, "", "Storage provider holding the backup")
	cmd.Flags().String(resolver.ArgSourcePath, "", "Path of the backup on the provider")
	return cmd
}

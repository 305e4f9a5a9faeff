package cmd

import (
	"context"

	"database-manager/internal/application"
	"database-manager/internal/resolver"

	"github.com/spf13/cobra"
)

func newBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up a database to a storage provider",
		Long: `Dump a configured database, compress it with gzip and store it on a
storage provider twice: as <database>-latest.sql.gz and as a timestamped copy.

Examples:
  database-manager backup --database app --provider s3
  database-manager backup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := collectArgs(cmd, resolver.ArgDatabase, resolver.ArgProvider)
			return runWithApp(cmd, func(ctx context.Context, app *application.Application) int {
				return app.Backup(ctx, args)
			})
		},
	}

	cmd.Flags().String(resolver.ArgDatabase, "", "Database to back up")
	cmd.Flags().String(resolver.ArgProvider, "", "Storage provider to back up to")
	return cmd
}

package cmd

import (
	"context"

	"database-manager/internal/application"

	"github.com/spf13/cobra"
)

func newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the configured storage, database and compression providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(_ context.Context, app *application.Application) int {
				return app.Providers()
			})
		},
	}
}

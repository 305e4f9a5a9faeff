package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"database-manager/internal/application"
	"database-manager/internal/config"
	"database-manager/internal/resolver"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// Global flag variables
var flags application.Flags

// exitStatus is the status of the last command that ran.
var exitStatus int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "database-manager",
	Short: "Back up and restore databases to storage providers",
	Long: `database-manager dumps configured databases, compresses the dumps and
stores them on local disk, S3, Google Cloud Storage, Azure Blob Storage, FTP
or SFTP providers. Backups can be listed and restored from any provider.

Arguments that are not given as flags are asked for interactively.

Examples:
  # Back up the "app" database to the local provider
  database-manager backup --database app --provider local

  # Pick a backup on S3 and restore it, answering the remaining questions
  database-manager restore --provider s3

  # List backups in a directory of a provider
  database-manager list --source local --path nightly

  # Show every configured provider
  database-manager providers`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and runs it with the
// process arguments. It returns the process exit status.
func Execute(ctx context.Context) int {
	return run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	exitStatus = 0
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return exitStatus
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.database-manager.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress informational output")
	pf.StringVar(&flags.LogFile, "log-file", "", "Also write logs to this file")
	pf.StringVar(&flags.LogFormat, "log-format", "", "Log format (text, json)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flags.NoInteractive, "no-interactive", false, "Fail instead of asking for missing arguments")
	pf.StringVar(&flags.OutputFormat, "format", "", "Output format (table, json, yaml, compact)")
	pf.StringVar(&flags.TableStyle, "table-style", "", "Table style (default, rounded, compact, grid)")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newBackupCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newProvidersCommand())
	rootCmd.AddCommand(createConfigCommand())
	rootCmd.AddCommand(createVersionCommand())
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: failed to load .env:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".database-manager" (without extension).
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".database-manager")
	}

	viper.SetEnvPrefix("DB_MANAGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		if flags.Verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Warning: failed to read config file:", err)
	}
}

// runWithApp builds the application for cmd, runs fn and records its exit
// status.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, app *application.Application) int) error {
	app, err := application.New(application.Settings{
		User:   config.FromSettings(viper.AllSettings()),
		Flags:  flags,
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger().Warnf("Failed to close providers: %v", err)
		}
	}()

	exitStatus = fn(cmd.Context(), app)
	return nil
}

// collectArgs returns the non-empty string flags of cmd named in names.
func collectArgs(cmd *cobra.Command, names ...string) resolver.Args {
	args := resolver.Args{}
	for _, name := range names {
		value, err := cmd.Flags().GetString(name)
		if err == nil && value != "" {
			args[name] = value
		}
	}
	return args
}

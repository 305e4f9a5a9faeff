package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const sampleConfig = `# database-manager configuration file
# Save as ~/.database-manager.yaml or pass with --config.

# Storage providers, keyed by name. Every provider has a type and an
# optional root that prefixes all of its paths.
providers:
  local:
    type: local
    root: ./storage/backups/

  s3:
    type: s3
    key: ""                      # use DB_MANAGER_PROVIDERS_S3_KEY
    secret: ""                   # use DB_MANAGER_PROVIDERS_S3_SECRET
    region: us-east-1
    bucket: my-backups
    endpoint: ""                 # S3 compatible endpoint, empty for AWS
    use_path_style_endpoint: false
    root: backups/

  gcs:
    type: gcs
    bucket: my-backups
    key_file: ""                 # service account JSON, empty for default credentials
    root: backups/

  azure:
    type: azure
    account_name: myaccount
    account_key: ""
    container: backups
    endpoint: ""
    root: ""

  ftp:
    type: ftp
    host: ftp.example.com
    port: 21
    username: backup
    password: ""
    ssl: false
    timeout: 30
    root: /backups/

  sftp:
    type: sftp
    host: sftp.example.com
    port: 22
    username: backup
    password: ""
    private_key: ~/.ssh/id_ed25519
    passphrase: ""
    known_hosts: ~/.ssh/known_hosts
    timeout: 30
    root: /backups/

# Database connections. Only the mysql and pgsql drivers are supported.
databases:
  app:
    driver: mysql
    host: localhost
    port: 3306
    username: root
    password: ""
    database: app
    ignore_tables: []

  reporting:
    driver: pgsql
    host: localhost
    port: 5432
    username: postgres
    password: ""
    database: reporting
    sslmode: disable

logging:
  level: normal                  # quiet, normal, verbose, debug
  format: text                   # text, json
  file: ""                       # also write logs to this file

display:
  color_enabled: true
  theme: dark                    # dark, light, high-contrast
  output_format: table           # table, json, yaml, compact
  table_style: default           # default, rounded, compact, grid
  interactive: true              # ask for missing arguments

# Environment variable examples:
# DB_MANAGER_LOCAL_ROOT=/var/backups
# DB_MANAGER_LOG_LEVEL=verbose
# DB_MANAGER_LOG_FORMAT=json
`

// createConfigCommand creates the config subcommand for generating sample config
func createConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Generate a sample configuration file",
		Long: `Generate a sample configuration file that can be used with the --config flag.

Examples:
  database-manager config > ~/.database-manager.yaml`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), sampleConfig)
		},
	}
}

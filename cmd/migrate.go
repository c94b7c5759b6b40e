package cmd

import (
	"fmt"
	"strconv"

	"reiatsu/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long:  "Manage the database schema. DATABASE_URL and DATABASE_NAME are read from the environment; the Discord token is not required.",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.MigrateUp()
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations, one by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q: %w", args[0], err)
			}
			steps = n
		}
		return database.MigrateDown(steps)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := database.MigrateStatus()
		if err != nil {
			return err
		}
		cmd.Println(formatMigrationStatus(status))
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func formatMigrationStatus(status *database.MigrationStatus) string {
	if !status.Applied {
		return "No migrations applied"
	}
	if status.Dirty {
		return fmt.Sprintf("Version %d (dirty)", status.Version)
	}
	return fmt.Sprintf("Version %d", status.Version)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/fennel/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	var (
		targetVersion uint
		force         int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the order store",
		Long: `Apply schema migrations to the order store.

The folder in DB_MIGRATION_FOLDER_PATH holds one sub folder per
dialect (sqlite, postgres); the one matching DB_DRIVER is applied.

Examples:
  fennel migrate                # migrate to the latest version
  fennel migrate --version 1    # migrate up or down to version 1
  fennel migrate --force 2      # mark a dirty store as version 2 first`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			migration := a.cfg.Migration()
			if cmd.Flags().Changed("version") {
				migration.Version = targetVersion
			}
			if cmd.Flags().Changed("force") {
				migration.Force = force
			}

			db, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			return database.NewMigrationService(a.logger, migration).MigrateDB(db)
		},
	}

	cmd.Flags().UintVar(&targetVersion, "version", 0, "target schema version (0 = latest)")
	cmd.Flags().IntVar(&force, "force", 0, "force the recorded version before migrating")

	return cmd
}

package cmd

import (
	"fmt"

	"dormitory-manager/feature/backup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// backupCmd uploads the current state to object storage.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a backup of every record to object storage",
	Long: `Uploads a JSON snapshot and, on the files backend, the raw data files
under a new timestamped folder. Backups beyond storage.keep are pruned.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := a.backup()
		if err != nil {
			return err
		}

		m, err := svc.Backup(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup %s created (%d rooms, %d dormers, %d payments, %d objects).\n",
			m.Stamp, m.Rooms, m.Dormers, m.Payments, len(m.Objects))
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored backups, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := a.backup()
		if err != nil {
			return err
		}

		stamps, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(stamps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No backups found.")
			return nil
		}
		for _, stamp := range stamps {
			fmt.Fprintln(cmd.OutOrStdout(), stamp)
		}
		return nil
	},
}

// restoreCmd replaces every record with a stored backup.
var restoreCmd = &cobra.Command{
	Use:   "restore <stamp|latest>",
	Short: "Replace every record with a stored backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := a.backup()
		if err != nil {
			return err
		}

		stamp, warnings, err := svc.Restore(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, w := range warnings {
			a.logger.Warn("Record dropped while restoring", zap.Error(w))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup %s restored. Available rooms: %d\n",
			stamp, a.svc.Engine().AvailableRooms())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(backupCmd, restoreCmd)
	backupCmd.AddCommand(backupListCmd)
	restoreCmd.Example = "  dormitory-manager restore " + backup.Latest
}

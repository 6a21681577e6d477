package cmd

import (
	"fmt"
	"os"

	"dormitory-manager/core/logger"
	"dormitory-manager/feature/shell"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is where config.yaml and .env are looked up.
var configDir string

// RootCmd represents the base command when called without any subcommands.
// It starts the interactive shell.
var RootCmd = &cobra.Command{
	Use:   "dormitory-manager",
	Short: "Dormitory Management System",
	Long: `Dormitory Manager keeps track of rooms, dormers and monthly payments.
Without a subcommand it starts the interactive console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		return shell.New(a.svc, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger).Run(cmd.Context())
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps, whatever the configured format.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding config.yaml and .env")
}

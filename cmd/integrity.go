package cmd

import (
	"errors"
	"fmt"

	"dormitory-manager/feature/integrity"
	"dormitory-manager/feature/integrity/checks"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	integrityJSON bool
	integrityFix  bool
)

// integrityCmd runs every integrity check.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the data files, database schema, backup bucket and occupancy",
	Long: `Runs every configured check. Checks whose resource is not configured are
skipped: the files check needs the files backend, the schema check the
database backend and the storage check STORAGE_ENABLED=true.

With --fix missing data files and backup folders are created and occupancy
drift is repaired.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		svc, err := a.integrity()
		if err != nil {
			return err
		}

		if integrityFix {
			fixIntegrity(cmd, a, svc)
		}

		report := svc.Run(ctx)
		if integrityJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Integrity Report ===")
			printSection(cmd, "Files", report.Files)
			printSection(cmd, "Database", report.Server)
			printSection(cmd, "Storage", report.Storage)
			printSection(cmd, "Occupancy", report.Occupancy)
			fmt.Fprintf(out, "Healthy: %t\n", report.Healthy)
		}

		if !report.Healthy {
			return errors.New("integrity checks found issues")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)

	integrityCmd.Flags().BoolVar(&integrityJSON, "json", false, "Print the report as JSON")
	integrityCmd.Flags().BoolVar(&integrityFix, "fix", false, "Repair what can be repaired before reporting")
}

// fixIntegrity applies every available repair. Failures are logged and the
// report that follows shows what is left.
func fixIntegrity(cmd *cobra.Command, a *app, svc *integrity.Service) {
	ctx := cmd.Context()

	created, err := svc.FixFiles()
	switch {
	case errors.Is(err, integrity.ErrSkipped):
	case err != nil:
		a.logger.Error("Failed to create data files", zap.Error(err))
	case len(created) > 0:
		a.logger.Info("Created data files", zap.Strings("files", created))
	}

	missing, err := svc.CheckStructure(ctx)
	if errors.Is(err, checks.ErrBucketMissing) {
		missing, err = svc.RequiredFolders(), nil
	}
	switch {
	case errors.Is(err, integrity.ErrSkipped):
	case err != nil:
		a.logger.Error("Storage check failed", zap.Error(err))
	case len(missing) > 0:
		if err := svc.FixStructure(ctx, missing); err != nil {
			a.logger.Error("Failed to fix storage structure", zap.Error(err))
		} else {
			a.logger.Info("Created backup folders", zap.Strings("folders", missing))
		}
	}

	if _, repaired, err := svc.CheckOccupancy(ctx, true); err != nil && !errors.Is(err, integrity.ErrSkipped) {
		a.logger.Error("Failed to repair occupancy", zap.Error(err))
	} else if repaired > 0 {
		a.logger.Info("Repaired rooms", zap.Int("count", repaired))
	}
}

func printSection(cmd *cobra.Command, name string, s integrity.Section) {
	out := cmd.OutOrStdout()
	if s.Error != "" {
		fmt.Fprintf(out, "%-10s %s (%s)\n", name+":", s.Status, s.Error)
		return
	}
	fmt.Fprintf(out, "%-10s %s\n", name+":", s.Status)
}

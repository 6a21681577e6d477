package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dormitory-manager/core/reconcile"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileFix    bool
	reconcileDryRun bool
	reconcileYes    bool
	reconcileJSON   bool
)

// reconcileCmd compares room statuses with the dormers and repairs drift.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Detect and repair room occupancy drift",
	Long: `Compares the persisted room statuses with the persisted dormers and the
dormitory layout. A room is Occupied exactly when a dormer is assigned to it.

Examples:
  # Report only
  reconcile

  # Repair drift (with interactive confirmation)
  reconcile --fix

  # Repair with auto-confirm (non-interactive)
  reconcile --fix --yes

  # Machine readable plan
  reconcile --json`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileFix, "fix", false, "Plan repairs for status drift and missing rooms")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	reconcileCmd.Flags().BoolVar(&reconcileYes, "yes", false, "Auto-confirm repairs (non-interactive)")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "Print the plan as JSON")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	spec := a.occupancy()
	opts := reconcile.ReconcileOptions{
		DoFix:  reconcileFix,
		DryRun: reconcileDryRun,
	}

	plan, err := reconcile.ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	if reconcileJSON {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		printReconcileReport(cmd.OutOrStdout(), plan)
	}

	if !reconcileFix {
		if !plan.Summary.Clean() {
			a.logger.Info("No repairs requested. Use --fix to repair drift.")
		}
		return nil
	}
	if reconcileDryRun {
		a.logger.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		a.logger.Info("No repairs required.")
		return nil
	}

	if !confirmRepairs(cmd.InOrStdin(), cmd.OutOrStdout()) {
		a.logger.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	executed, err := reconcile.ApplyPlan(ctx, spec, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	a.logger.Info("Repaired rooms", zap.Int("count", executed))
	fmt.Fprintf(cmd.OutOrStdout(), "Repaired %d room(s).\n", executed)
	return nil
}

// printReconcileReport prints the summary and every room that needs attention.
func printReconcileReport(w io.Writer, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	fmt.Fprintln(w, "=== Occupancy Reconciliation ===")
	fmt.Fprintf(w, "Rooms: %d\n", s.TotalRooms)
	fmt.Fprintf(w, "Occupied: %d\n", s.Occupied)
	fmt.Fprintf(w, "Missing Room Records: %d\n", s.MissingRooms)
	fmt.Fprintf(w, "Status Drift: %d\n", s.StatusDrift)
	fmt.Fprintf(w, "Outside Layout: %d\n", s.OutsideLayout)
	fmt.Fprintf(w, "Orphan Payments: %d\n", s.OrphanPayments)

	for _, r := range plan.Results {
		if len(r.Mismatch) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", r.Room, strings.Join(r.Mismatch, "; "))
	}

	if len(plan.Actions) > 0 {
		fmt.Fprintf(w, "Planned repairs: %d\n", len(plan.Actions))
		for _, action := range plan.Actions {
			fmt.Fprintf(w, "  %s %s (%s)\n", action.Type, action.Room, action.Reason)
		}
	}
}

// confirmRepairs prompts the operator unless --yes was given.
func confirmRepairs(in io.Reader, out io.Writer) bool {
	if reconcileYes {
		fmt.Fprintln(out, "Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprint(out, "Type 'yes' to apply the repairs: ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

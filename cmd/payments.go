package cmd

import (
	"fmt"

	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory"

	"github.com/spf13/cobra"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Record payments and monthly charges",
}

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every dormer's balance and status with the monthly charges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		printer(cmd, a).PrintPayments()
		return nil
	},
}

var paymentsPayCmd = &cobra.Command{
	Use:   "pay <room> <amount>",
	Short: "Apply a payment and print the receipt",
	Long:  `Reduces the dormer's balance, never below zero. Overpayment is not credited.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(args[1])
		if err != nil {
			return fmt.Errorf("%w: %v", dormitory.ErrInvalidAmount, err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		receipt, err := a.svc.ApplyPayment(cmd.Context(), args[0], amount)
		if err != nil {
			return err
		}
		printer(cmd, a).PrintReceipt(receipt)
		return nil
	},
}

var paymentsChargeCmd = &cobra.Command{
	Use:   "charge <room> <amount>",
	Short: "Record the charge for next month",
	Long: `Creates the next month's payment record and adds the amount to the
balance. Charging the same month again overwrites the record's amount and due
date without touching the balance.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := utils.ParseAmount(args[1])
		if err != nil {
			return fmt.Errorf("%w: %v", dormitory.ErrInvalidAmount, err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.svc.ChargeNextMonth(cmd.Context(), args[0], amount)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res.Created {
			fmt.Fprintf(out, "New payment record created for room %s for %s with amount %s.\n",
				res.RoomNumber, res.Month, utils.FormatAmount(res.Amount))
		} else {
			fmt.Fprintf(out, "Payment for room %s for %s updated to %s with a due date of %s.\n",
				res.RoomNumber, res.Month, utils.FormatAmount(res.Amount), utils.FormatDate(res.DueDate))
		}
		fmt.Fprintf(out, "Remaining balance for Room %s: %s\n", res.RoomNumber, utils.FormatAmount(res.RemainingBalance))
		return nil
	},
}

var paymentsMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid <room> [month]",
	Short: "Mark a monthly charge as paid",
	Long:  `The month defaults to next month, the one charge targets.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		month := dormitory.NextMonthLabel(a.svc.Engine().Now())
		if len(args) == 2 {
			month = args[1]
		}
		if err := a.svc.MarkPaymentPaid(cmd.Context(), args[0], month); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Payment for room %s for %s marked as paid.\n", args[0], month)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(paymentsCmd)
	paymentsCmd.AddCommand(paymentsListCmd, paymentsPayCmd, paymentsChargeCmd, paymentsMarkPaidCmd)
}

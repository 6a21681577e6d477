package shell

import (
	"context"
	"fmt"

	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory"
)

func (s *Shell) managePayments(ctx context.Context) error {
	for {
		choice, err := s.choose("Manage Payments",
			"View Payments", "Update Payment for This Month", "Update Payment for Next Month",
			"Mark Monthly Charge as Paid", "Return to Main Menu")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			s.renderPayments(s.svc.Engine().PaymentOverview(), s.svc.Engine().Payments())
		case 2:
			err = s.payThisMonth(ctx)
		case 3:
			err = s.chargeNextMonth(ctx)
		case 4:
			err = s.markPaid(ctx)
		case 5:
			fmt.Fprintln(s.out, "Returning to main menu...")
			return nil
		default:
			s.printError("Invalid option. Returning to main menu.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) payThisMonth(ctx context.Context) error {
	room, err := s.ask("Enter Room Number: ")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Enter Payment Amount: ")
	if err != nil {
		return err
	}

	receipt, err := s.svc.ApplyPayment(ctx, room, amount)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printSuccess("Payment updated successfully!")
	s.renderReceipt(receipt)
	fmt.Fprintf(s.out, "Remaining Balance for Room %s: %s\n", receipt.RoomNumber, utils.FormatAmount(receipt.RemainingBalance))
	return nil
}

func (s *Shell) chargeNextMonth(ctx context.Context) error {
	room, err := s.ask("Enter Room Number: ")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Enter Payment Amount for Next Month: ")
	if err != nil {
		return err
	}

	res, err := s.svc.ChargeNextMonth(ctx, room, amount)
	if err != nil {
		s.report(err)
		return nil
	}
	if res.Created {
		fmt.Fprintf(s.out, "New payment record created for room %s for %s with amount %s.\n",
			res.RoomNumber, res.Month, utils.FormatAmount(res.Amount))
		fmt.Fprintf(s.out, "Remaining balance for Room %s updated to %s.\n",
			res.RoomNumber, utils.FormatAmount(res.RemainingBalance))
		return nil
	}
	fmt.Fprintf(s.out, "Payment for room %s for %s updated to %s with a due date of %s.\n",
		res.RoomNumber, res.Month, utils.FormatAmount(res.Amount), utils.FormatDate(res.DueDate))
	fmt.Fprintf(s.out, "Remaining balance for Room %s remains unchanged at %s.\n",
		res.RoomNumber, utils.FormatAmount(res.RemainingBalance))
	return nil
}

func (s *Shell) markPaid(ctx context.Context) error {
	room, err := s.ask("Enter Room Number: ")
	if err != nil {
		return err
	}
	next := dormitory.NextMonthLabel(s.svc.Engine().Now())
	month, err := s.ask(fmt.Sprintf("Enter Month (empty for %s): ", next))
	if err != nil {
		return err
	}
	if month == "" {
		month = next
	}

	if err := s.svc.MarkPaymentPaid(ctx, room, month); err != nil {
		s.report(err)
		return nil
	}
	s.printSuccess(fmt.Sprintf("Payment for room %s for %s marked as paid.", room, month))
	return nil
}

package dormitory

import (
	"time"

	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory/models"
)

// CalculateNextDueDate returns entryDate plus one calendar month. Days that do
// not exist in the next month clamp to its last day.
func CalculateNextDueDate(entryDate time.Time) time.Time {
	return models.NextDueDate(entryDate)
}

// ComputePaymentStatus is Paid when nothing is owed, otherwise Due or Late
// against CalculateNextDueDate(dormer.EntryDate).
func ComputePaymentStatus(dormer models.Dormer, now time.Time) models.PaymentStatus {
	return dormer.PaymentStatus(now)
}

// NextMonthLabel is the English name of the calendar month after now.
func NextMonthLabel(now time.Time) string {
	return utils.AddMonths(now, 1).Month().String()
}

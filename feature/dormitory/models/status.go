package models

import (
	"fmt"
	"time"

	"dormitory-manager/core/utils"
)

// StatusKind classifies a payment obligation.
type StatusKind string

const (
	StatusPaid StatusKind = "Paid"
	StatusDue  StatusKind = "Due"
	StatusLate StatusKind = "Late"
)

// PaymentStatus is a StatusKind plus the due date it was computed against.
// DueDate is zero for Paid.
type PaymentStatus struct {
	Kind    StatusKind `json:"kind"`
	DueDate time.Time  `json:"due_date,omitempty"`
}

// String renders the status the way the payment table shows it.
func (s PaymentStatus) String() string {
	if s.Kind == StatusPaid || s.DueDate.IsZero() {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s (Due Date(MM/DD/YYYY): %s)", s.Kind, utils.FormatDate(s.DueDate))
}

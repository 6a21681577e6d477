package models

import (
	"strings"
	"time"

	"dormitory-manager/core/utils"
)

// Dormer is a resident assigned to a room.
//
// Payment mirrors RemainingBalance; both are kept for compatibility with the
// dormer record layout, which only stores the payment column.
type Dormer struct {
	UserID           string    `json:"user_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Address          string    `json:"address"`
	Birthday         time.Time `json:"birthday"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	RoomNumber       string    `json:"room_number"`
	Payment          float64   `json:"payment"`
	RemainingBalance float64   `json:"remaining_balance"`
	EntryDate        time.Time `json:"entry_date"`
}

// FullName returns "First Last".
func (d Dormer) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// SetBalance updates the remaining balance and its payment mirror together.
func (d *Dormer) SetBalance(v float64) {
	d.RemainingBalance = v
	d.Payment = v
}

// DueDate is the next due date derived from the entry date.
func (d Dormer) DueDate() time.Time {
	return NextDueDate(d.EntryDate)
}

// PaymentStatus computes the dormer's status at now. A dormer with nothing
// left to pay is Paid regardless of the due date.
func (d Dormer) PaymentStatus(now time.Time) PaymentStatus {
	if d.RemainingBalance <= 0 {
		return PaymentStatus{Kind: StatusPaid}
	}
	due := d.DueDate()
	if now.After(due) {
		return PaymentStatus{Kind: StatusLate, DueDate: due}
	}
	return PaymentStatus{Kind: StatusDue, DueDate: due}
}

// NextDueDate is entryDate plus one calendar month, clamped to month end.
func NextDueDate(entryDate time.Time) time.Time {
	return utils.AddMonths(entryDate, 1)
}

// DormerDetails are the personal fields collected when a room is assigned.
type DormerDetails struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address   string    `json:"address"`
	Birthday  time.Time `json:"birthday"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
}

// DormerUpdate carries replacement values. Empty fields keep the current value.
type DormerUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Apply overwrites every non-empty field of u onto d.
func (u DormerUpdate) Apply(d *Dormer) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&d.FirstName, u.FirstName)
	set(&d.LastName, u.LastName)
	set(&d.Address, u.Address)
	set(&d.Email, u.Email)
	set(&d.Phone, u.Phone)
}

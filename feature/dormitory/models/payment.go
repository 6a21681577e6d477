package models

import "time"

// Payment is a monthly charge for a room.
type Payment struct {
	RoomNumber string    `json:"room_number"`
	Amount     float64   `json:"amount"`
	Month      string    `json:"month"`
	IsPaid     bool      `json:"is_paid"`
	DueDate    time.Time `json:"due_date"`
}

// Status computes the record's status at now.
func (p Payment) Status(now time.Time) PaymentStatus {
	if p.IsPaid {
		return PaymentStatus{Kind: StatusPaid}
	}
	if now.After(p.DueDate) {
		return PaymentStatus{Kind: StatusLate, DueDate: p.DueDate}
	}
	return PaymentStatus{Kind: StatusDue, DueDate: p.DueDate}
}

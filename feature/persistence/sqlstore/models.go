package sqlstore

import (
	"time"

	"dormitory-manager/feature/dormitory/models"
)

// DormitoryRow is the single setup row.
type DormitoryRow struct {
	ID            int    `gorm:"primaryKey;column:id"`
	Name          string `gorm:"column:name;type:varchar(255);not null"`
	Address       string `gorm:"column:address;type:varchar(255);not null"`
	Floors        int    `gorm:"column:floors;type:int;not null"`
	RoomsPerFloor int    `gorm:"column:rooms_per_floor;type:int;not null"`
}

func (DormitoryRow) TableName() string {
	return "dormitories"
}

// RoomRow is a room and its status.
type RoomRow struct {
	Number string `gorm:"primaryKey;column:number;type:varchar(16)"`
	Status string `gorm:"column:status;type:varchar(16);not null"`
}

func (RoomRow) TableName() string {
	return "rooms"
}

// DormerRow is a dormer keyed by room.
type DormerRow struct {
	RoomNumber string     `gorm:"primaryKey;column:room_number;type:varchar(16)"`
	UserID     string     `gorm:"column:user_id;type:varchar(64)"`
	FirstName  string     `gorm:"column:first_name;type:varchar(128);not null"`
	LastName   string     `gorm:"column:last_name;type:varchar(128);not null"`
	Address    string     `gorm:"column:address;type:varchar(255)"`
	Birthday   *time.Time `gorm:"column:birthday;type:date"`
	Email      string     `gorm:"column:email;type:varchar(255)"`
	Phone      string     `gorm:"column:phone;type:varchar(32)"`
	Payment    float64    `gorm:"column:payment;type:double;not null"`
	EntryDate  time.Time  `gorm:"column:entry_date;type:date;not null"`
}

func (DormerRow) TableName() string {
	return "dormers"
}

// PaymentRow is a monthly charge keyed by (room, month).
type PaymentRow struct {
	RoomNumber string    `gorm:"primaryKey;column:room_number;type:varchar(16)"`
	Month      string    `gorm:"primaryKey;column:month;type:varchar(16)"`
	Amount     float64   `gorm:"column:amount;type:double;not null"`
	IsPaid     bool      `gorm:"column:is_paid;type:tinyint(1);not null"`
	DueDate    time.Time `gorm:"column:due_date;type:date;not null"`
}

func (PaymentRow) TableName() string {
	return "payments"
}

// Schema lists the row types in migration order.
func Schema() []any {
	return []any{DormitoryRow{}, RoomRow{}, DormerRow{}, PaymentRow{}}
}

// localDate drops the clock and zone a driver may attach to a DATE column.
func localDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func toDormerRow(d models.Dormer) DormerRow {
	row := DormerRow{
		RoomNumber: d.RoomNumber,
		UserID:     d.UserID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Address:    d.Address,
		Email:      d.Email,
		Phone:      d.Phone,
		Payment:    d.RemainingBalance,
		EntryDate:  d.EntryDate,
	}
	if !d.Birthday.IsZero() {
		b := d.Birthday
		row.Birthday = &b
	}
	return row
}

func (r DormerRow) toModel() models.Dormer {
	d := models.Dormer{
		UserID:     r.UserID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Address:    r.Address,
		Email:      r.Email,
		Phone:      r.Phone,
		RoomNumber: r.RoomNumber,
		EntryDate:  localDate(r.EntryDate),
	}
	if r.Birthday != nil {
		d.Birthday = localDate(*r.Birthday)
	}
	d.SetBalance(r.Payment)
	return d
}

func toPaymentRow(p models.Payment) PaymentRow {
	return PaymentRow{
		RoomNumber: p.RoomNumber,
		Month:      p.Month,
		Amount:     p.Amount,
		IsPaid:     p.IsPaid,
		DueDate:    p.DueDate,
	}
}

func (r PaymentRow) toModel() models.Payment {
	return models.Payment{
		RoomNumber: r.RoomNumber,
		Amount:     r.Amount,
		Month:      r.Month,
		IsPaid:     r.IsPaid,
		DueDate:    localDate(r.DueDate),
	}
}

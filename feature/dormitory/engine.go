package dormitory

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory/models"

	"github.com/google/uuid"
)

// paymentKey identifies a payment record. Room numbers compare case-insensitively.
type paymentKey struct {
	room  string
	month string
}

func keyFor(room, month string) paymentKey {
	return paymentKey{room: strings.ToUpper(room), month: month}
}

// Engine owns the rooms, dormers and payments collections and enforces their
// invariants. One mutex guards all three collections, so an operation that
// touches several of them is never observed half-applied.
type Engine struct {
	mu        sync.Mutex
	dormitory *models.Dormitory
	rooms     map[string]*models.Room
	dormers   map[string]*models.Dormer
	payments  map[paymentKey]*models.Payment

	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the clock. Useful for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithReceiptIDs overrides receipt number generation.
func WithReceiptIDs(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rooms:    make(map[string]*models.Room),
		dormers:  make(map[string]*models.Dormer),
		payments: make(map[paymentKey]*models.Payment),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Dormitory returns the setup, or nil when the dormitory has not been set up.
func (e *Engine) Dormitory() *models.Dormitory {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dormitory == nil {
		return nil
	}
	d := *e.dormitory
	return &d
}

// Initialize stores the setup and generates the rooms once. Rooms that
// already exist are left untouched.
func (e *Engine) Initialize(d models.Dormitory) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDetails, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.dormitory = &d
	if len(e.rooms) == 0 {
		for _, number := range d.RoomNumbers() {
			e.rooms[number] = &models.Room{Number: number, Status: models.RoomVacant}
		}
	}
	return nil
}

// AssignRoom creates a dormer in a vacant room and marks the room occupied.
func (e *Engine) AssignRoom(roomNumber string, details models.DormerDetails, startingBalance float64, entryDate time.Time) (models.Dormer, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	if err := checkAmount(startingBalance); err != nil {
		return models.Dormer{}, err
	}
	if strings.TrimSpace(details.FirstName) == "" || strings.TrimSpace(details.LastName) == "" {
		return models.Dormer{}, fmt.Errorf("%w: first and last name are required", ErrInvalidDetails)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	room, ok := e.rooms[roomNumber]
	if !ok || !room.IsVacant() {
		return models.Dormer{}, fmt.Errorf("assign room %s: %w", roomNumber, ErrRoomUnavailable)
	}

	roomNumber = strings.Clone(roomNumber)
	dormer := &models.Dormer{
		UserID:     details.UserID,
		FirstName:  details.FirstName,
		LastName:   details.LastName,
		Address:    details.Address,
		Birthday:   details.Birthday,
		Email:      details.Email,
		Phone:      details.Phone,
		RoomNumber: roomNumber,
		EntryDate:  entryDate,
	}
	dormer.SetBalance(startingBalance)

	e.dormers[roomNumber] = dormer
	room.Status = models.RoomOccupied
	return *dormer, nil
}

// VacateRoom marks an occupied room vacant and removes its dormer.
// Payment records for the room are kept.
func (e *Engine) VacateRoom(roomNumber string) error {
	roomNumber = strings.TrimSpace(roomNumber)

	e.mu.Lock()
	defer e.mu.Unlock()

	room, ok := e.rooms[roomNumber]
	if !ok || room.Status != models.RoomOccupied {
		return fmt.Errorf("vacate room %s: %w", roomNumber, ErrRoomNotOccupied)
	}
	room.Status = models.RoomVacant
	delete(e.dormers, roomNumber)
	return nil
}

// Receipt is the data needed to render a payment receipt.
type Receipt struct {
	Number           string    `json:"number"`
	IssuedAt         time.Time `json:"issued_at"`
	DormitoryName    string    `json:"dormitory_name"`
	DormitoryAddress string    `json:"dormitory_address"`
	DormerName       string    `json:"dormer_name"`
	DormerAddress    string    `json:"dormer_address"`
	RoomNumber       string    `json:"room_number"`
	AmountPaid       float64   `json:"amount_paid"`
	RemainingBalance float64   `json:"remaining_balance"`
}

// ApplyPayment subtracts amount from the dormer's balance, never going below
// zero. Overpayment is discarded, not credited.
func (e *Engine) ApplyPayment(roomNumber string, amount float64) (*Receipt, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dormer, ok := e.dormers[roomNumber]
	if !ok {
		return nil, fmt.Errorf("apply payment to room %s: %w", roomNumber, ErrDormerNotFound)
	}
	dormer.SetBalance(math.Max(0, dormer.RemainingBalance-amount))

	receipt := &Receipt{
		Number:           e.newID(),
		IssuedAt:         e.now(),
		DormerName:       dormer.FullName(),
		DormerAddress:    dormer.Address,
		RoomNumber:       roomNumber,
		AmountPaid:       amount,
		RemainingBalance: dormer.RemainingBalance,
	}
	if e.dormitory != nil {
		receipt.DormitoryName = e.dormitory.Name
		receipt.DormitoryAddress = e.dormitory.Address
	}
	return receipt, nil
}

// ChargeResult describes the outcome of ChargeNextMonth.
type ChargeResult struct {
	RoomNumber       string    `json:"room_number"`
	Month            string    `json:"month"`
	Amount           float64   `json:"amount"`
	DueDate          time.Time `json:"due_date"`
	Created          bool      `json:"created"`
	RemainingBalance float64   `json:"remaining_balance"`
}

// ChargeNextMonth records the charge for the calendar month after today.
//
// When a record for (room, month) already exists, its amount and due date are
// overwritten and its paid flag reset, and the balance is left unchanged.
// Otherwise a new record is created, the amount is added to the balance and
// the dormer's entry date advances to the new due date.
func (e *Engine) ChargeNextMonth(roomNumber string, amount float64) (*ChargeResult, error) {
	roomNumber = strings.TrimSpace(roomNumber)
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dormer, ok := e.dormers[roomNumber]
	if !ok {
		return nil, fmt.Errorf("charge next month for room %s: %w", roomNumber, ErrDormerNotFound)
	}

	roomNumber = strings.Clone(roomNumber)
	month := NextMonthLabel(e.now())
	nextDue := CalculateNextDueDate(dormer.EntryDate)
	result := &ChargeResult{
		RoomNumber: roomNumber,
		Month:      month,
		Amount:     amount,
		DueDate:    nextDue,
	}

	key := keyFor(roomNumber, month)
	if payment, exists := e.payments[key]; exists {
		payment.Amount = amount
		payment.DueDate = nextDue
		payment.IsPaid = false
	} else {
		e.payments[key] = &models.Payment{
			RoomNumber: roomNumber,
			Amount:     amount,
			Month:      month,
			IsPaid:     false,
			DueDate:    nextDue,
		}
		dormer.SetBalance(dormer.RemainingBalance + amount)
		dormer.EntryDate = nextDue
		result.Created = true
	}

	result.RemainingBalance = dormer.RemainingBalance
	return result, nil
}

// MarkPaymentPaid sets the paid flag of the (room, month) record.
func (e *Engine) MarkPaymentPaid(roomNumber, month string) error {
	roomNumber = strings.TrimSpace(roomNumber)

	e.mu.Lock()
	defer e.mu.Unlock()

	payment, ok := e.payments[keyFor(roomNumber, normalizeMonth(month))]
	if !ok {
		return fmt.Errorf("mark %s payment for room %s: %w", month, roomNumber, ErrPaymentNotFound)
	}
	payment.IsPaid = true
	return nil
}

// UpdateDormerFields overwrites the non-empty fields of update on the dormer
// in roomNumber.
func (e *Engine) UpdateDormerFields(roomNumber string, update models.DormerUpdate) error {
	roomNumber = strings.TrimSpace(roomNumber)

	e.mu.Lock()
	defer e.mu.Unlock()

	dormer, ok := e.dormers[roomNumber]
	if !ok {
		return fmt.Errorf("update dormer in room %s: %w", roomNumber, ErrDormerNotFound)
	}
	update.Apply(dormer)
	return nil
}

// RepairRoom makes the room's status agree with its dormer: the room is
// created if missing and set Occupied iff a dormer references it. It reports
// whether anything changed.
func (e *Engine) RepairRoom(roomNumber string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	want := models.RoomVacant
	if _, ok := e.dormers[roomNumber]; ok {
		want = models.RoomOccupied
	}
	room, ok := e.rooms[roomNumber]
	if !ok {
		roomNumber = strings.Clone(roomNumber)
		e.rooms[roomNumber] = &models.Room{Number: roomNumber, Status: want}
		return true
	}
	if room.Status == want {
		return false
	}
	room.Status = want
	return true
}

// Reset drops the setup and all three collections.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dormitory = nil
	e.rooms = make(map[string]*models.Room)
	e.dormers = make(map[string]*models.Dormer)
	e.payments = make(map[paymentKey]*models.Payment)
}

func checkAmount(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, utils.FormatAmountRaw(v))
	}
	return nil
}

// normalizeMonth turns "march" or " MARCH " into "March".
func normalizeMonth(month string) string {
	month = strings.TrimSpace(month)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), month) {
			return m.String()
		}
	}
	return month
}

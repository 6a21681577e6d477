package dormitory

import (
	"sort"
	"strconv"
	"strings"

	"dormitory-manager/feature/dormitory/models"
)

// SearchByRoom returns the dormers whose room number equals roomNumber,
// ignoring case.
func (e *Engine) SearchByRoom(roomNumber string) []models.Dormer {
	roomNumber = strings.TrimSpace(roomNumber)
	return e.filterDormers(func(d *models.Dormer) bool {
		return strings.EqualFold(d.RoomNumber, roomNumber)
	})
}

// SearchByName returns the dormers whose first or last name contains
// fragment, ignoring case.
func (e *Engine) SearchByName(fragment string) []models.Dormer {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	return e.filterDormers(func(d *models.Dormer) bool {
		return strings.Contains(strings.ToLower(d.FirstName), needle) ||
			strings.Contains(strings.ToLower(d.LastName), needle)
	})
}

// Dormer returns the dormer assigned to roomNumber.
func (e *Engine) Dormer(roomNumber string) (models.Dormer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.dormers[strings.TrimSpace(roomNumber)]
	if !ok {
		return models.Dormer{}, false
	}
	return *d, true
}

// Rooms returns all rooms ordered by room number.
func (e *Engine) Rooms() []models.Room {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roomsLocked()
}

// Dormers returns all dormers ordered by room number.
func (e *Engine) Dormers() []models.Dormer {
	return e.filterDormers(func(*models.Dormer) bool { return true })
}

// Payments returns all payment records ordered by room number then due date.
func (e *Engine) Payments() []models.Payment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paymentsLocked()
}

// AvailableRooms counts vacant rooms.
func (e *Engine) AvailableRooms() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, r := range e.rooms {
		if r.IsVacant() {
			n++
		}
	}
	return n
}

// RoomOccupancy is a room joined with its dormer, if any.
type RoomOccupancy struct {
	Room   models.Room    `json:"room"`
	Dormer *models.Dormer `json:"dormer,omitempty"`
}

// RoomOverview joins every room with its dormer.
func (e *Engine) RoomOverview() []RoomOccupancy {
	e.mu.Lock()
	defer e.mu.Unlock()

	rooms := e.roomsLocked()
	out := make([]RoomOccupancy, 0, len(rooms))
	for _, r := range rooms {
		row := RoomOccupancy{Room: r}
		if d, ok := e.dormers[r.Number]; ok {
			c := *d
			row.Dormer = &c
		}
		out = append(out, row)
	}
	return out
}

// PaymentLine is a dormer with its computed payment status.
type PaymentLine struct {
	Dormer models.Dormer        `json:"dormer"`
	Status models.PaymentStatus `json:"status"`
}

// PaymentOverview lists every dormer's balance and status at the engine clock.
func (e *Engine) PaymentOverview() []PaymentLine {
	now := e.now()
	dormers := e.Dormers()
	out := make([]PaymentLine, 0, len(dormers))
	for _, d := range dormers {
		out = append(out, PaymentLine{Dormer: d, Status: ComputePaymentStatus(d, now)})
	}
	return out
}

// PaymentStatusOf computes the status of the dormer in roomNumber.
func (e *Engine) PaymentStatusOf(roomNumber string) (models.PaymentStatus, error) {
	d, ok := e.Dormer(roomNumber)
	if !ok {
		return models.PaymentStatus{}, ErrDormerNotFound
	}
	return ComputePaymentStatus(d, e.now()), nil
}

func (e *Engine) filterDormers(match func(*models.Dormer) bool) []models.Dormer {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := []models.Dormer{}
	for _, d := range e.dormers {
		if match(d) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessRoom(out[i].RoomNumber, out[j].RoomNumber)
	})
	return out
}

func (e *Engine) roomsLocked() []models.Room {
	out := make([]models.Room, 0, len(e.rooms))
	for _, r := range e.rooms {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessRoom(out[i].Number, out[j].Number)
	})
	return out
}

func (e *Engine) paymentsLocked() []models.Payment {
	out := make([]models.Payment, 0, len(e.payments))
	for _, p := range e.payments {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomNumber != out[j].RoomNumber {
			return lessRoom(out[i].RoomNumber, out[j].RoomNumber)
		}
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// lessRoom orders numeric room numbers numerically ("999" < "1001") and
// falls back to string order otherwise.
func lessRoom(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && na != nb {
		return na < nb
	}
	return a < b
}

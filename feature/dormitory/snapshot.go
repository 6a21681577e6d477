package dormitory

import (
	"fmt"
	"sort"
	"strings"

	"dormitory-manager/feature/dormitory/models"
)

// Snapshot is a detached copy of the engine state.
type Snapshot struct {
	Dormitory *models.Dormitory `json:"dormitory,omitempty"`
	Rooms     []models.Room     `json:"rooms"`
	Dormers   []models.Dormer   `json:"dormers"`
	Payments  []models.Payment  `json:"payments"`
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Rooms:    e.roomsLocked(),
		Dormers:  make([]models.Dormer, 0, len(e.dormers)),
		Payments: e.paymentsLocked(),
	}
	if e.dormitory != nil {
		d := *e.dormitory
		s.Dormitory = &d
	}
	for _, d := range e.dormers {
		s.Dormers = append(s.Dormers, *d)
	}
	sortDormers(s.Dormers)
	return s
}

// Restore replaces the state with s. Every dormer marks its room Occupied,
// creating the room when the layout does not list it. A second dormer for an
// already taken room and a second payment for the same (room, month) are
// dropped; the first one wins. Dropped records are returned as warnings.
func (e *Engine) Restore(s Snapshot) []error {
	var warnings []error

	rooms := make(map[string]*models.Room, len(s.Rooms))
	for _, r := range s.Rooms {
		r.Number = strings.TrimSpace(r.Number)
		if _, dup := rooms[r.Number]; dup {
			warnings = append(warnings, fmt.Errorf("room %s listed twice, keeping the first", r.Number))
			continue
		}
		room := r
		rooms[r.Number] = &room
	}

	dormers := make(map[string]*models.Dormer, len(s.Dormers))
	for _, d := range s.Dormers {
		d.RoomNumber = strings.TrimSpace(d.RoomNumber)
		if _, dup := dormers[d.RoomNumber]; dup {
			warnings = append(warnings, fmt.Errorf("room %s already has a dormer, skipping %s: %w",
				d.RoomNumber, d.FullName(), ErrRoomUnavailable))
			continue
		}
		dormer := d
		dormers[d.RoomNumber] = &dormer
		if room, ok := rooms[d.RoomNumber]; ok {
			room.Status = models.RoomOccupied
		} else {
			rooms[d.RoomNumber] = &models.Room{Number: d.RoomNumber, Status: models.RoomOccupied}
		}
	}

	var stale []string
	for number, room := range rooms {
		if room.Status == models.RoomOccupied && dormers[number] == nil {
			stale = append(stale, number)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return lessRoom(stale[i], stale[j]) })
	for _, number := range stale {
		rooms[number].Status = models.RoomVacant
		warnings = append(warnings, fmt.Errorf("room %s recorded Occupied without a dormer, marking it Vacant", number))
	}

	payments := make(map[paymentKey]*models.Payment, len(s.Payments))
	for _, p := range s.Payments {
		key := keyFor(strings.TrimSpace(p.RoomNumber), p.Month)
		if _, dup := payments[key]; dup {
			warnings = append(warnings, fmt.Errorf("payment %s/%s listed twice, keeping the first", p.RoomNumber, p.Month))
			continue
		}
		payment := p
		payments[key] = &payment
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.dormitory = nil
	if s.Dormitory != nil {
		d := *s.Dormitory
		e.dormitory = &d
	}
	e.rooms = rooms
	e.dormers = dormers
	e.payments = payments
	return warnings
}

func sortDormers(ds []models.Dormer) {
	sort.Slice(ds, func(i, j int) bool {
		return lessRoom(ds[i].RoomNumber, ds[j].RoomNumber)
	})
}

package models

import "fmt"

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomVacant   RoomStatus = "Vacant"
	RoomOccupied RoomStatus = "Occupied"
)

// ParseRoomStatus converts the persisted literal into a RoomStatus.
func ParseRoomStatus(s string) (RoomStatus, error) {
	switch RoomStatus(s) {
	case RoomVacant, RoomOccupied:
		return RoomStatus(s), nil
	default:
		return "", fmt.Errorf("unknown room status %q", s)
	}
}

// Room is a single room of the dormitory.
type Room struct {
	Number string     `json:"number"`
	Status RoomStatus `json:"status"`
}

// IsVacant reports whether the room can take a new dormer.
func (r Room) IsVacant() bool {
	return r.Status == RoomVacant
}

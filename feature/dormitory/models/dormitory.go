package models

import (
	"errors"
	"fmt"
	"strings"
)

// Dormitory is the one-time setup of the building.
type Dormitory struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Floors        int    `json:"floors"`
	RoomsPerFloor int    `json:"rooms_per_floor"`
}

// Validate checks the setup fields.
func (d Dormitory) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("dormitory name is required")
	}
	if strings.TrimSpace(d.Address) == "" {
		return errors.New("dormitory address is required")
	}
	if d.Floors < 0 || d.RoomsPerFloor < 0 {
		return errors.New("floors and rooms per floor must not be negative")
	}
	if d.RoomsPerFloor > 99 {
		return fmt.Errorf("at most 99 rooms per floor fit a two-digit slot, got %d", d.RoomsPerFloor)
	}
	return nil
}

// TotalRooms is floors × rooms per floor.
func (d Dormitory) TotalRooms() int {
	return d.Floors * d.RoomsPerFloor
}

// RoomNumbers generates "<floor><2-digit slot>" numbers, floor by floor.
func (d Dormitory) RoomNumbers() []string {
	numbers := make([]string, 0, d.TotalRooms())
	for floor := 1; floor <= d.Floors; floor++ {
		for slot := 1; slot <= d.RoomsPerFloor; slot++ {
			numbers = append(numbers, fmt.Sprintf("%d%02d", floor, slot))
		}
	}
	return numbers
}

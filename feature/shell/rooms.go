package shell

import (
	"context"
	"fmt"
)

func (s *Shell) manageRooms(ctx context.Context) error {
	for {
		choice, err := s.choose("Manage Rooms", "View All Rooms", "Vacate Room", "Return to Main Menu")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			s.renderRooms(s.svc.Engine().RoomOverview())
		case 2:
			room, err := s.ask("Enter Room Number to vacate (e.g., 101): ")
			if err != nil {
				return err
			}
			if err := s.svc.VacateRoom(ctx, room); err != nil {
				s.report(err)
				continue
			}
			s.printSuccess(fmt.Sprintf("Room %s vacated successfully!", room))
		case 3:
			fmt.Fprintln(s.out, "Returning to main menu...")
			return nil
		default:
			s.printError("Invalid option. Returning to main menu.")
			return nil
		}
	}
}

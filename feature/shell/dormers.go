package shell

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dormitory-manager/feature/dormitory/models"
)

func (s *Shell) manageDormers(ctx context.Context) error {
	for {
		choice, err := s.choose("Manage Dormers",
			"View All Dormers", "Add Dormer", "Search Dormer", "Update Dormer Information", "Return to Main Menu")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			s.renderDormers(s.svc.Engine().Dormers())
		case 2:
			err = s.addDormer(ctx)
		case 3:
			err = s.searchDormer()
		case 4:
			err = s.updateDormer(ctx)
		case 5:
			fmt.Fprintln(s.out, "Returning to main menu...")
			return nil
		default:
			s.printError("Invalid option. Returning to main menu.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) roomVacant(number string) bool {
	for _, r := range s.svc.Engine().Rooms() {
		if r.Number == number {
			return r.IsVacant()
		}
	}
	return false
}

func (s *Shell) addDormer(ctx context.Context) error {
	fmt.Fprintln(s.out, s.theme.Title.Render("Add Dormer Information"))

	var d models.DormerDetails
	var err error
	if d.UserID, err = s.ask("Enter ID number: "); err != nil {
		return err
	}
	if d.FirstName, err = s.askRequired("Enter First Name: "); err != nil {
		return err
	}
	if d.LastName, err = s.askRequired("Enter Last Name: "); err != nil {
		return err
	}
	if d.Address, err = s.ask("Enter Address: "); err != nil {
		return err
	}
	if d.Birthday, err = s.askDate("Enter Birthday (MM/DD/YYYY): ", time.Time{}); err != nil {
		return err
	}
	if d.Email, err = s.ask("Enter Email: "); err != nil {
		return err
	}
	if d.Phone, err = s.ask("Enter Phone Number: "); err != nil {
		return err
	}

	room, err := s.ask("Enter RoomNo (e.g., 101): ")
	if err != nil {
		return err
	}
	if !s.roomVacant(room) {
		s.printError(fmt.Sprintf("Room %s is either occupied or does not exist.", room))
		return nil
	}

	balance, err := s.askAmount("Enter Starting Amount: ")
	if err != nil {
		return err
	}
	entry, err := s.askDate("Enter Entry Date (MM/DD/YYYY, empty for today): ", s.svc.Engine().Now())
	if err != nil {
		return err
	}

	if _, err := s.svc.AssignRoom(ctx, room, d, balance, entry); err != nil {
		s.report(err)
		return nil
	}
	s.printSuccess(fmt.Sprintf("Room %s assigned successfully!", room))
	s.printSuccess("Dormer added successfully!")
	return nil
}

func (s *Shell) searchDormer() error {
	if len(s.svc.Engine().Dormers()) == 0 {
		fmt.Fprintln(s.out, "No dormers in the system. Please add dormers first.")
		return nil
	}

	choice, err := s.choose("Search Dormer by", "Room Number", "Dormer's Name")
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		room, err := s.ask("Enter Room Number: ")
		if err != nil {
			return err
		}
		found := s.svc.Engine().SearchByRoom(room)
		if len(found) == 0 {
			fmt.Fprintf(s.out, "No dormer found with the Room Number: %s\n", room)
			return nil
		}
		s.renderDormers(found)
	case 2:
		name, err := s.ask("Enter Dormer's Name: ")
		if err != nil {
			return err
		}
		found := s.svc.Engine().SearchByName(name)
		if len(found) == 0 {
			fmt.Fprintf(s.out, "No dormer found with the Name: %s\n", name)
			return nil
		}
		s.renderDormers(found)
	default:
		s.printError("Invalid option.")
	}
	return nil
}

func (s *Shell) updateDormer(ctx context.Context) error {
	room, err := s.ask("Enter the Room Number of the dormer to update (e.g., 101): ")
	if err != nil {
		return err
	}
	current, ok := s.svc.Engine().Dormer(room)
	if !ok {
		fmt.Fprintf(s.out, "No dormer found with Room No: %s\n", room)
		return nil
	}

	fmt.Fprintln(s.out, "Dormer found. Enter new details or press Enter to keep current values.")
	var u models.DormerUpdate
	fields := []struct {
		label string
		value string
		dst   *string
	}{
		{"First Name", current.FirstName, &u.FirstName},
		{"Last Name", current.LastName, &u.LastName},
		{"Address", current.Address, &u.Address},
		{"Email", current.Email, &u.Email},
		{"Phone Number", current.Phone, &u.Phone},
	}
	for _, f := range fields {
		v, err := s.ask(fmt.Sprintf("%s (current: %s): ", f.label, f.value))
		if err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(v)
	}

	if err := s.svc.UpdateDormer(ctx, room, u); err != nil {
		s.report(err)
		return nil
	}
	s.printSuccess("Dormer information updated successfully.")
	return nil
}

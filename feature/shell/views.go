package shell

import (
	"fmt"
	"strconv"
	"strings"

	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/dormitory/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const placeholder = "-"

func (s *Shell) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.theme.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.theme.Header
			}
			return s.theme.Cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func birthday(d models.Dormer) string {
	if d.Birthday.IsZero() {
		return placeholder
	}
	return utils.FormatDate(d.Birthday)
}

func (s *Shell) renderDashboard() {
	d := s.svc.Engine().Dormitory()
	if d == nil {
		return
	}
	lines := []string{
		s.theme.Title.Render(d.Name),
		d.Address,
		"",
		fmt.Sprintf("%s %d", s.theme.Label.Render("Floors:"), d.Floors),
		fmt.Sprintf("%s %d", s.theme.Label.Render("Rooms per floor:"), d.RoomsPerFloor),
		fmt.Sprintf("%s %d", s.theme.Label.Render("Total rooms:"), d.TotalRooms()),
		fmt.Sprintf("%s %d", s.theme.Label.Render("Available rooms:"), s.svc.Engine().AvailableRooms()),
	}
	fmt.Fprintln(s.out, s.theme.Card.Render(strings.Join(lines, "\n")))
}

func (s *Shell) renderRooms(overview []dormitory.RoomOccupancy) {
	headers := []string{"Room Number", "User-ID", "First Name", "Last Name", "Address", "Birthday", "Email", "Phone Number", "Room Status"}
	rows := make([][]string, 0, len(overview))
	for _, o := range overview {
		if o.Dormer == nil {
			rows = append(rows, []string{o.Room.Number, placeholder, placeholder, placeholder, placeholder,
				placeholder, placeholder, placeholder, string(o.Room.Status)})
			continue
		}
		d := o.Dormer
		rows = append(rows, []string{o.Room.Number, d.UserID, d.FirstName, d.LastName, d.Address,
			birthday(*d), d.Email, d.Phone, string(o.Room.Status)})
	}
	fmt.Fprintln(s.out, s.table(headers, rows))
}

func (s *Shell) renderDormers(dormers []models.Dormer) {
	headers := []string{"ID Number", "First Name", "Last Name", "Address", "Birthday", "Email", "Phone Number", "Room No", "Remaining Balance"}
	rows := make([][]string, 0, len(dormers))
	for _, d := range dormers {
		rows = append(rows, []string{d.UserID, d.FirstName, d.LastName, d.Address, birthday(d),
			d.Email, d.Phone, d.RoomNumber, utils.FormatAmount(d.RemainingBalance)})
	}
	fmt.Fprintln(s.out, s.table(headers, rows))
}

func (s *Shell) renderPayments(lines []dormitory.PaymentLine, records []models.Payment) {
	headers := []string{"Room No", "ID Number", "First Name", "Last Name", "Remaining Balance", "Payment Status"}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{l.Dormer.RoomNumber, l.Dormer.UserID, l.Dormer.FirstName, l.Dormer.LastName,
			utils.FormatAmount(l.Dormer.RemainingBalance), l.Status.String()})
	}
	fmt.Fprintln(s.out, s.table(headers, rows))

	if len(records) == 0 {
		return
	}
	fmt.Fprintln(s.out, s.theme.Title.Render("Monthly Charges"))
	headers = []string{"Room No", "Month", "Amount", "Due Date", "Paid"}
	rows = make([][]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, []string{p.RoomNumber, p.Month, utils.FormatAmount(p.Amount),
			utils.FormatDate(p.DueDate), strconv.FormatBool(p.IsPaid)})
	}
	fmt.Fprintln(s.out, s.table(headers, rows))
}

func (s *Shell) renderReceipt(r *dormitory.Receipt) {
	field := func(label, value string) string {
		return s.theme.Label.Render(label+":") + " " + value
	}
	lines := []string{
		s.theme.Title.Render("--- Receipt ---"),
		"",
		field("Receipt No", r.Number),
		field("Name of the Dormitory", r.DormitoryName),
		field("Address of the Dormitory", r.DormitoryAddress),
		field("Date (MM/DD/YYYY)", utils.FormatDate(r.IssuedAt)),
		"",
		field("Name of the Dormer", r.DormerName),
		field("Address of the Dormer", r.DormerAddress),
		field("Room Number", r.RoomNumber),
		"",
		field("Amount Paid", utils.FormatAmount(r.AmountPaid)),
		field("Remaining Balance", utils.FormatAmount(r.RemainingBalance)),
		"",
		s.theme.Success.Render("Thank you for your payment!"),
	}
	fmt.Fprintln(s.out, s.theme.Card.Render(strings.Join(lines, "\n")))
}

// PrintRooms renders every room with its dormer.
func (s *Shell) PrintRooms() {
	s.renderRooms(s.svc.Engine().RoomOverview())
}

// PrintDormers renders the given dormers.
func (s *Shell) PrintDormers(dormers []models.Dormer) {
	s.renderDormers(dormers)
}

// PrintPayments renders the payment overview and the monthly charges.
func (s *Shell) PrintPayments() {
	s.renderPayments(s.svc.Engine().PaymentOverview(), s.svc.Engine().Payments())
}

// PrintReceipt renders a payment receipt.
func (s *Shell) PrintReceipt(r *dormitory.Receipt) {
	s.renderReceipt(r)
}

package dormitory

import (
	"testing"
	"time"
	"unsafe"

	"dormitory-manager/feature/dormitory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	e := NewEngine(WithNow(fixedClock(now)), WithReceiptIDs(func() string { return "R-1" }))
	require.NoError(t, e.Initialize(models.Dormitory{
		Name:          "North Hall",
		Address:       "1 Campus Rd",
		Floors:        2,
		RoomsPerFloor: 3,
	}))
	return e
}

func alice() models.DormerDetails {
	return models.DormerDetails{FirstName: "Alice", LastName: "Reyes", Address: "12 Elm St", Email: "alice@example.com"}
}

func TestInitialize_GeneratesRooms(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 15))

	rooms := e.Rooms()
	require.Len(t, rooms, 6)
	assert.Equal(t, "101", rooms[0].Number)
	assert.Equal(t, "203", rooms[5].Number)
	for _, r := range rooms {
		assert.Equal(t, models.RoomVacant, r.Status)
	}
	assert.Equal(t, 6, e.AvailableRooms())
}

func TestInitialize_RejectsInvalidSetup(t *testing.T) {
	e := NewEngine()
	err := e.Initialize(models.Dormitory{Name: "", Address: "x", Floors: 1, RoomsPerFloor: 1})
	assert.ErrorIs(t, err, ErrInvalidDetails)
	assert.Nil(t, e.Dormitory())
}

func TestAssignRoom(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 15))

	d, err := e.AssignRoom("101", alice(), 500, date(2024, time.January, 15))
	require.NoError(t, err)

	assert.Equal(t, "101", d.RoomNumber)
	assert.Equal(t, 500.0, d.RemainingBalance)
	assert.Equal(t, 500.0, d.Payment)
	assert.Equal(t, models.RoomOccupied, e.Rooms()[0].Status)
	assert.Equal(t, 5, e.AvailableRooms())
}

func TestAssignRoom_Errors(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 15))
	_, err := e.AssignRoom("101", alice(), 0, date(2024, time.January, 15))
	require.NoError(t, err)

	tests := []struct {
		name    string
		room    string
		details models.DormerDetails
		balance float64
		want    error
	}{
		{"occupied room", "101", alice(), 0, ErrRoomUnavailable},
		{"unknown room", "999", alice(), 0, ErrRoomUnavailable},
		{"negative balance", "102", alice(), -1, ErrInvalidAmount},
		{"missing name", "102", models.DormerDetails{FirstName: "Bob"}, 0, ErrInvalidDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.AssignRoom(tt.room, tt.details, tt.balance, date(2024, time.January, 15))
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, e.Dormers(), 1)
}

func TestVacateRoom(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 15))
	_, err := e.AssignRoom("101", alice(), 500, date(2024, time.January, 15))
	require.NoError(t, err)
	_, err = e.ChargeNextMonth("101", 300)
	require.NoError(t, err)

	require.NoError(t, e.VacateRoom("101"))

	assert.Equal(t, models.RoomVacant, e.Rooms()[0].Status)
	assert.Empty(t, e.Dormers())
	assert.Len(t, e.Payments(), 1, "payment history survives vacating")

	assert.ErrorIs(t, e.VacateRoom("101"), ErrRoomNotOccupied)
	assert.ErrorIs(t, e.VacateRoom("999"), ErrRoomNotOccupied)
}

func TestApplyPayment(t *testing.T) {
	now := date(2024, time.January, 20)
	e := newTestEngine(t, now)
	_, err := e.AssignRoom("101", alice(), 500, date(2024, time.January, 15))
	require.NoError(t, err)

	receipt, err := e.ApplyPayment("101", 500)
	require.NoError(t, err)

	assert.Equal(t, "R-1", receipt.Number)
	assert.Equal(t, now, receipt.IssuedAt)
	assert.Equal(t, "North Hall", receipt.DormitoryName)
	assert.Equal(t, "1 Campus Rd", receipt.DormitoryAddress)
	assert.Equal(t, "Alice Reyes", receipt.DormerName)
	assert.Equal(t, "12 Elm St", receipt.DormerAddress)
	assert.Equal(t, 500.0, receipt.AmountPaid)
	assert.Equal(t, 0.0, receipt.RemainingBalance)

	status, err := e.PaymentStatusOf("101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, status.Kind)
}

func TestApplyPayment_ClampsAtZero(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 200, date(2024, time.January, 15))
	require.NoError(t, err)

	receipt, err := e.ApplyPayment("101", 350)
	require.NoError(t, err)

	assert.Equal(t, 350.0, receipt.AmountPaid)
	assert.Equal(t, 0.0, receipt.RemainingBalance)
	d, _ := e.Dormer("101")
	assert.Equal(t, 0.0, d.RemainingBalance)
	assert.Equal(t, 0.0, d.Payment)
}

func TestApplyPayment_Errors(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 200, date(2024, time.January, 15))
	require.NoError(t, err)

	_, err = e.ApplyPayment("102", 10)
	assert.ErrorIs(t, err, ErrDormerNotFound)

	_, err = e.ApplyPayment("101", -10)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	d, _ := e.Dormer("101")
	assert.Equal(t, 200.0, d.RemainingBalance)
}

func TestComputePaymentStatus(t *testing.T) {
	entry := date(2024, time.January, 15)
	d := models.Dormer{RemainingBalance: 200, EntryDate: entry}

	tests := []struct {
		name     string
		balance  float64
		now      time.Time
		wantKind models.StatusKind
	}{
		{"late after due date", 200, date(2024, time.March, 1), models.StatusLate},
		{"due before due date", 200, date(2024, time.February, 1), models.StatusDue},
		{"due on the due date", 200, date(2024, time.February, 15), models.StatusDue},
		{"paid when nothing owed", 0, date(2024, time.March, 1), models.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.RemainingBalance = tt.balance
			status := ComputePaymentStatus(d, tt.now)
			assert.Equal(t, tt.wantKind, status.Kind)
			if tt.wantKind != models.StatusPaid {
				assert.Equal(t, date(2024, time.February, 15), status.DueDate)
			}
		})
	}
}

func TestCalculateNextDueDate(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 15), CalculateNextDueDate(date(2024, time.January, 15)))
	assert.Equal(t, date(2024, time.February, 29), CalculateNextDueDate(date(2024, time.January, 31)))
	assert.Equal(t, date(2023, time.February, 28), CalculateNextDueDate(date(2023, time.January, 31)))
	assert.Equal(t, date(2025, time.January, 10), CalculateNextDueDate(date(2024, time.December, 10)))
}

func TestChargeNextMonth(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 100, date(2024, time.January, 15))
	require.NoError(t, err)

	first, err := e.ChargeNextMonth("101", 300)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.Equal(t, "February", first.Month)
	assert.Equal(t, date(2024, time.February, 15), first.DueDate)
	assert.Equal(t, 400.0, first.RemainingBalance)

	payments := e.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, models.Payment{
		RoomNumber: "101",
		Amount:     300,
		Month:      "February",
		IsPaid:     false,
		DueDate:    date(2024, time.February, 15),
	}, payments[0])

	d, _ := e.Dormer("101")
	assert.Equal(t, date(2024, time.February, 15), d.EntryDate, "entry date advances to the new due date")

	second, err := e.ChargeNextMonth("101", 350)
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, 400.0, second.RemainingBalance, "balance unchanged on update")
	assert.Equal(t, date(2024, time.March, 15), second.DueDate)

	payments = e.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, 350.0, payments[0].Amount)
	assert.Equal(t, date(2024, time.March, 15), payments[0].DueDate)
}

func TestChargeNextMonth_OwnsRoomNumber(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 0, date(2024, time.January, 15))
	require.NoError(t, err)

	buf := []byte("101")
	_, err = e.ChargeNextMonth(unsafe.String(&buf[0], len(buf)), 300)
	require.NoError(t, err)
	copy(buf, "999")

	payments := e.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, "101", payments[0].RoomNumber)
	require.NoError(t, e.MarkPaymentPaid("101", "February"))
}

func TestChargeNextMonth_ResetsPaidFlag(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 0, date(2024, time.January, 15))
	require.NoError(t, err)
	_, err = e.ChargeNextMonth("101", 300)
	require.NoError(t, err)
	require.NoError(t, e.MarkPaymentPaid("101", "february"))
	assert.True(t, e.Payments()[0].IsPaid)

	_, err = e.ChargeNextMonth("101", 300)
	require.NoError(t, err)
	assert.False(t, e.Payments()[0].IsPaid)
}

func TestChargeNextMonth_DecemberRollsToJanuary(t *testing.T) {
	e := newTestEngine(t, date(2024, time.December, 31))
	_, err := e.AssignRoom("101", alice(), 0, date(2024, time.December, 1))
	require.NoError(t, err)

	res, err := e.ChargeNextMonth("101", 100)
	require.NoError(t, err)
	assert.Equal(t, "January", res.Month)
}

func TestChargeNextMonth_Errors(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.ChargeNextMonth("101", 100)
	assert.ErrorIs(t, err, ErrDormerNotFound)

	_, err = e.AssignRoom("101", alice(), 0, date(2024, time.January, 15))
	require.NoError(t, err)
	_, err = e.ChargeNextMonth("101", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, e.Payments())
}

func TestMarkPaymentPaid_NotFound(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	assert.ErrorIs(t, e.MarkPaymentPaid("101", "March"), ErrPaymentNotFound)
}

func TestSearch(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 0, date(2024, time.January, 15))
	require.NoError(t, err)
	_, err = e.AssignRoom("203", models.DormerDetails{FirstName: "Bob", LastName: "Alvarez"}, 0, date(2024, time.January, 15))
	require.NoError(t, err)

	assert.Len(t, e.SearchByRoom("101"), 1)
	assert.Empty(t, e.SearchByRoom("10"))
	assert.Empty(t, e.SearchByRoom("102"))

	byName := e.SearchByName("AL")
	require.Len(t, byName, 2)
	assert.Equal(t, "101", byName[0].RoomNumber)
	assert.Equal(t, "203", byName[1].RoomNumber)

	byLast := e.SearchByName("reyes")
	require.Len(t, byLast, 1)
	assert.Equal(t, "Alice", byLast[0].FirstName)

	assert.Empty(t, e.SearchByName("zed"))
}

func TestUpdateDormerFields(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 0, date(2024, time.January, 15))
	require.NoError(t, err)

	require.NoError(t, e.UpdateDormerFields("101", models.DormerUpdate{Email: "new@example.com", Phone: "555"}))

	d, _ := e.Dormer("101")
	assert.Equal(t, "Alice", d.FirstName)
	assert.Equal(t, "12 Elm St", d.Address)
	assert.Equal(t, "new@example.com", d.Email)
	assert.Equal(t, "555", d.Phone)

	assert.ErrorIs(t, e.UpdateDormerFields("102", models.DormerUpdate{Email: "x"}), ErrDormerNotFound)
}

func TestRoomOverviewAndPaymentOverview(t *testing.T) {
	e := newTestEngine(t, date(2024, time.March, 1))
	_, err := e.AssignRoom("102", alice(), 200, date(2024, time.January, 15))
	require.NoError(t, err)

	overview := e.RoomOverview()
	require.Len(t, overview, 6)
	assert.Nil(t, overview[0].Dormer)
	require.NotNil(t, overview[1].Dormer)
	assert.Equal(t, "Alice", overview[1].Dormer.FirstName)

	lines := e.PaymentOverview()
	require.Len(t, lines, 1)
	assert.Equal(t, models.StatusLate, lines[0].Status.Kind)
	assert.Equal(t, "Late (Due Date(MM/DD/YYYY): 02/15/2024)", lines[0].Status.String())
}

func TestRooms_NumericOrder(t *testing.T) {
	e := NewEngine()
	e.Restore(Snapshot{Rooms: []models.Room{
		{Number: "1001", Status: models.RoomVacant},
		{Number: "999", Status: models.RoomVacant},
		{Number: "A1", Status: models.RoomVacant},
	}})

	rooms := e.Rooms()
	assert.Equal(t, []string{"999", "1001", "A1"}, []string{rooms[0].Number, rooms[1].Number, rooms[2].Number})
}

func TestRestore(t *testing.T) {
	e := NewEngine()
	warnings := e.Restore(Snapshot{
		Rooms: []models.Room{
			{Number: "101", Status: models.RoomVacant},
			{Number: "102", Status: models.RoomVacant},
		},
		Dormers: []models.Dormer{
			{FirstName: "Alice", LastName: "Reyes", RoomNumber: "101"},
			{FirstName: "Eve", LastName: "Dup", RoomNumber: "101"},
			{FirstName: "Bob", LastName: "Stray", RoomNumber: "305"},
		},
		Payments: []models.Payment{
			{RoomNumber: "101", Month: "March", Amount: 1},
			{RoomNumber: "101", Month: "March", Amount: 2},
		},
	})

	assert.Len(t, warnings, 2)

	rooms := e.Rooms()
	require.Len(t, rooms, 3)
	assert.Equal(t, models.RoomOccupied, rooms[0].Status)
	assert.Equal(t, models.RoomVacant, rooms[1].Status)
	assert.Equal(t, "305", rooms[2].Number)
	assert.Equal(t, models.RoomOccupied, rooms[2].Status)

	d, ok := e.Dormer("101")
	require.True(t, ok)
	assert.Equal(t, "Alice", d.FirstName, "first dormer wins")

	payments := e.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, 1.0, payments[0].Amount)
}

func TestRestore_DemotesOccupiedRoomsWithoutDormer(t *testing.T) {
	e := NewEngine()
	warnings := e.Restore(Snapshot{
		Rooms: []models.Room{
			{Number: "101", Status: models.RoomOccupied},
			{Number: "102", Status: models.RoomOccupied},
			{Number: "201", Status: models.RoomOccupied},
		},
		Dormers: []models.Dormer{{FirstName: "Alice", LastName: "Reyes", RoomNumber: "102"}},
	})

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Error(), "room 101")
	assert.Contains(t, warnings[1].Error(), "room 201")

	rooms := e.Rooms()
	assert.Equal(t, models.RoomVacant, rooms[0].Status)
	assert.Equal(t, models.RoomOccupied, rooms[1].Status)
	assert.Equal(t, models.RoomVacant, rooms[2].Status)

	_, err := e.AssignRoom("101", alice(), 0, date(2024, time.January, 15))
	assert.NoError(t, err, "a demoted room can be assigned")
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 50, date(2024, time.January, 15))
	require.NoError(t, err)
	_, err = e.ChargeNextMonth("101", 300)
	require.NoError(t, err)

	snap := e.Snapshot()
	other := NewEngine()
	assert.Empty(t, other.Restore(snap))
	assert.Equal(t, snap, other.Snapshot())
}

func TestRepairRoom(t *testing.T) {
	e := NewEngine()
	e.Restore(Snapshot{
		Rooms:   []models.Room{{Number: "101", Status: models.RoomVacant}},
		Dormers: []models.Dormer{{FirstName: "Alice", LastName: "Reyes", RoomNumber: "101"}},
	})
	e.rooms["101"].Status = models.RoomVacant

	assert.True(t, e.RepairRoom("101"))
	assert.Equal(t, models.RoomOccupied, e.Rooms()[0].Status)
	assert.False(t, e.RepairRoom("101"))

	assert.True(t, e.RepairRoom("102"))
	assert.Len(t, e.Rooms(), 2)
}

func TestReset(t *testing.T) {
	e := newTestEngine(t, date(2024, time.January, 20))
	_, err := e.AssignRoom("101", alice(), 50, date(2024, time.January, 15))
	require.NoError(t, err)

	e.Reset()

	assert.Nil(t, e.Dormitory())
	assert.Empty(t, e.Rooms())
	assert.Empty(t, e.Dormers())
	assert.Empty(t, e.Payments())
}

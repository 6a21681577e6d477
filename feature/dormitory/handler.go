package dormitory

import (
	"errors"
	"time"

	"dormitory-manager/core/logger"
	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory/models"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the dormitory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dormitory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/dormitory", h.HandleGetDormitory)

	rooms := app.Group("/rooms")
	rooms.Get("/", h.HandleListRooms)
	rooms.Delete("/:room/dormer", h.HandleVacateRoom)

	dormers := app.Group("/dormers")
	dormers.Get("/", h.HandleListDormers)
	dormers.Post("/", h.HandleAssignRoom)
	dormers.Patch("/:room", h.HandleUpdateDormer)

	payments := app.Group("/payments")
	payments.Get("/", h.HandleListPayments)
	payments.Post("/:room", h.HandleApplyPayment)
	payments.Post("/:room/next-month", h.HandleChargeNextMonth)
	payments.Post("/:room/:month/paid", h.HandleMarkPaid)
}

// AssignRequest is the body of POST /dormers.
type AssignRequest struct {
	RoomNumber      string  `json:"room_number"`
	UserID          string  `json:"user_id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Address         string  `json:"address"`
	Birthday        string  `json:"birthday"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	StartingBalance float64 `json:"starting_balance"`
	EntryDate       string  `json:"entry_date"`
}

// AmountRequest is the body of the payment endpoints.
type AmountRequest struct {
	Amount float64 `json:"amount"`
}

// HandleGetDormitory returns the dormitory setup and room availability.
// @Summary Get Dormitory
// @Description Returns the dormitory name, address, layout and the number of vacant rooms.
// @Tags dormitory
// @Produce json
// @Success 200 {object} map[string]interface{} "Dormitory"
// @Failure 409 {object} map[string]string "Not set up"
// @Router /dormitory [get]
func (h *Handler) HandleGetDormitory(c *fiber.Ctx) error {
	d := h.service.Engine().Dormitory()
	if d == nil {
		return h.fail(c, ErrNotConfigured)
	}
	return c.JSON(fiber.Map{
		"dormitory":       d,
		"total_rooms":     d.TotalRooms(),
		"available_rooms": h.service.Engine().AvailableRooms(),
	})
}

// HandleListRooms lists every room with its dormer.
// @Summary List Rooms
// @Description Lists all rooms ordered by number, joined with the assigned dormer.
// @Tags rooms
// @Produce json
// @Success 200 {array} RoomOccupancy "Rooms"
// @Router /rooms [get]
func (h *Handler) HandleListRooms(c *fiber.Ctx) error {
	return c.JSON(h.service.Engine().RoomOverview())
}

// HandleVacateRoom removes the dormer from a room.
// @Summary Vacate Room
// @Description Marks an occupied room vacant and removes its dormer. Payment records are kept.
// @Tags rooms
// @Param room path string true "Room number"
// @Success 204 "Vacated"
// @Failure 409 {object} map[string]string "Room not occupied"
// @Router /rooms/{room}/dormer [delete]
func (h *Handler) HandleVacateRoom(c *fiber.Ctx) error {
	room := param(c, "room")
	if err := h.service.VacateRoom(c.Context(), room); err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Room vacated", zap.String("room", room))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListDormers lists or searches dormers.
// @Summary List Dormers
// @Description Lists dormers. Filter by exact room number or by a name fragment.
// @Tags dormers
// @Produce json
// @Param room query string false "Room number"
// @Param name query string false "First or last name fragment"
// @Success 200 {array} models.Dormer "Dormers"
// @Router /dormers [get]
func (h *Handler) HandleListDormers(c *fiber.Ctx) error {
	engine := h.service.Engine()
	switch {
	case c.Query("room") != "":
		return c.JSON(engine.SearchByRoom(c.Query("room")))
	case c.Query("name") != "":
		return c.JSON(engine.SearchByName(c.Query("name")))
	default:
		return c.JSON(engine.Dormers())
	}
}

// HandleAssignRoom assigns a new dormer to a vacant room.
// @Summary Assign Room
// @Description Creates a dormer in a vacant room. Dates use MM/DD/YYYY; entry_date defaults to today.
// @Tags dormers
// @Accept json
// @Produce json
// @Param request body AssignRequest true "Dormer"
// @Success 201 {object} models.Dormer "Dormer"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Room unavailable"
// @Router /dormers [post]
func (h *Handler) HandleAssignRoom(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errors.Join(ErrInvalidDetails, err))
	}

	details := models.DormerDetails{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if req.Birthday != "" {
		b, err := utils.ParseDate(req.Birthday)
		if err != nil {
			return h.fail(c, errors.Join(ErrInvalidDetails, err))
		}
		details.Birthday = b
	}

	entry := today(h.service.Engine().Now())
	if req.EntryDate != "" {
		e, err := utils.ParseDate(req.EntryDate)
		if err != nil {
			return h.fail(c, errors.Join(ErrInvalidDetails, err))
		}
		entry = e
	}

	dormer, err := h.service.AssignRoom(c.Context(), req.RoomNumber, details, req.StartingBalance, entry)
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Room assigned",
		zap.String("room", dormer.RoomNumber), zap.String("dormer", dormer.FullName()))
	return c.Status(fiber.StatusCreated).JSON(dormer)
}

// HandleUpdateDormer updates a dormer's personal fields.
// @Summary Update Dormer
// @Description Overwrites the non-empty fields of the dormer in the room.
// @Tags dormers
// @Accept json
// @Produce json
// @Param room path string true "Room number"
// @Param request body models.DormerUpdate true "Fields"
// @Success 200 {object} models.Dormer "Dormer"
// @Failure 404 {object} map[string]string "Dormer not found"
// @Router /dormers/{room} [patch]
func (h *Handler) HandleUpdateDormer(c *fiber.Ctx) error {
	var update models.DormerUpdate
	if err := c.BodyParser(&update); err != nil {
		return h.fail(c, errors.Join(ErrInvalidDetails, err))
	}
	room := param(c, "room")
	if err := h.service.UpdateDormer(c.Context(), room, update); err != nil {
		return h.fail(c, err)
	}
	d, _ := h.service.Engine().Dormer(room)
	return c.JSON(d)
}

// HandleListPayments lists payment records and the per-dormer status.
// @Summary List Payments
// @Description Lists monthly payment records and each dormer's balance and status.
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]interface{} "Payments"
// @Router /payments [get]
func (h *Handler) HandleListPayments(c *fiber.Ctx) error {
	engine := h.service.Engine()
	return c.JSON(fiber.Map{
		"records":  engine.Payments(),
		"overview": engine.PaymentOverview(),
	})
}

// HandleApplyPayment applies a payment to the current balance.
// @Summary Apply Payment
// @Description Subtracts the amount from the dormer's balance, never below zero, and returns a receipt.
// @Tags payments
// @Accept json
// @Produce json
// @Param room path string true "Room number"
// @Param request body AmountRequest true "Amount"
// @Success 200 {object} Receipt "Receipt"
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Dormer not found"
// @Router /payments/{room} [post]
func (h *Handler) HandleApplyPayment(c *fiber.Ctx) error {
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errors.Join(ErrInvalidAmount, err))
	}
	receipt, err := h.service.ApplyPayment(c.Context(), param(c, "room"), req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Payment applied",
		zap.String("room", receipt.RoomNumber),
		zap.Float64("amount", receipt.AmountPaid),
		zap.String("receipt", receipt.Number))
	return c.JSON(receipt)
}

// HandleChargeNextMonth records next month's charge.
// @Summary Charge Next Month
// @Description Creates or updates the payment record for the month after today.
// @Tags payments
// @Accept json
// @Produce json
// @Param room path string true "Room number"
// @Param request body AmountRequest true "Amount"
// @Success 200 {object} ChargeResult "Charge"
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Dormer not found"
// @Router /payments/{room}/next-month [post]
func (h *Handler) HandleChargeNextMonth(c *fiber.Ctx) error {
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, errors.Join(ErrInvalidAmount, err))
	}
	result, err := h.service.ChargeNextMonth(c.Context(), param(c, "room"), req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

// HandleMarkPaid flags a monthly record as paid.
// @Summary Mark Payment Paid
// @Description Sets the paid flag on the (room, month) record.
// @Tags payments
// @Param room path string true "Room number"
// @Param month path string true "Month name, e.g. March"
// @Success 204 "Marked"
// @Failure 404 {object} map[string]string "Payment not found"
// @Router /payments/{room}/{month}/paid [post]
func (h *Handler) HandleMarkPaid(c *fiber.Ctx) error {
	if err := h.service.MarkPaymentPaid(c.Context(), param(c, "room"), param(c, "month")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// param copies a route parameter out of the request buffer, which fasthttp
// reuses once the handler returns.
func param(c *fiber.Ctx, key string) string {
	return fiberutils.CopyString(c.Params(key))
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusCode maps a service error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrRoomUnavailable), errors.Is(err, ErrRoomNotOccupied), errors.Is(err, ErrNotConfigured):
		return fiber.StatusConflict
	case errors.Is(err, ErrDormerNotFound), errors.Is(err, ErrPaymentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidDetails):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

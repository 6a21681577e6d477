package integrity

import (
	"errors"

	"dormitory-manager/core/logger"
	"dormitory-manager/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/files", h.HandleFilesCheck)
	group.Get("/server", h.HandleServerCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/occupancy", h.HandleOccupancyCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs every integrity check (Files, Server, Storage, Occupancy) without fixing anything.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	return c.JSON(h.service.Run(c.Context()))
}

// HandleFilesCheck checks and optionally fixes the data files.
// @Summary Check Data Files
// @Description Decodes every flat data file and reports missing files and malformed lines. Optionally creates missing files.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing files"
// @Success 200 {object} checks.FilesReport "Files Report"
// @Failure 404 {object} map[string]string "Check not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/files [get]
func (h *Handler) HandleFilesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.Query("fix") == "true" {
		l.Info("Creating missing data files")
		if _, err := h.service.FixFiles(); err != nil {
			return h.fail(c, l, "Files fix failed", err)
		}
	}

	report, err := h.service.CheckFiles(c.Context())
	if err != nil {
		return h.fail(c, l, "Files check failed", err)
	}
	if !report.Healthy {
		l.Warn("Data file issues detected",
			zap.Strings("missing", report.Missing),
			zap.Int("malformed", report.Malformed))
	}
	return c.JSON(report)
}

// HandleServerCheck checks database schema integrity.
// @Summary Check Server Schema
// @Description Checks if the database schema matches the expected tables.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ServerReport "Server Check Report"
// @Failure 404 {object} map[string]string "Check not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/server [get]
func (h *Handler) HandleServerCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting server schema check")

	report, err := h.service.CheckServer()
	if err != nil {
		return h.fail(c, l, "Server schema check failed", err)
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the backup bucket.
// @Summary Check Backup Storage
// @Description Checks that the backup bucket and folder exist. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing bucket and folders"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 404 {object} map[string]string "Check not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	bucketMissing := errors.Is(err, checks.ErrBucketMissing)
	if bucketMissing && fix {
		missing, err = h.service.RequiredFolders(), nil
	}
	if err != nil {
		return h.fail(c, l, "Storage check failed", err)
	}

	if len(missing) > 0 || bucketMissing {
		l.Warn("Missing backup folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix backup storage")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix storage",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleOccupancyCheck reconciles room statuses with the dormers.
// @Summary Check Occupancy
// @Description Compares room records, dormers, the setup layout and payments. Optionally repairs room statuses.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Repair room statuses"
// @Success 200 {object} map[string]interface{} "Occupancy Report"
// @Failure 404 {object} map[string]string "Check not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/occupancy [get]
func (h *Handler) HandleOccupancyCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	plan, repaired, err := h.service.CheckOccupancy(c.Context(), fix)
	if err != nil {
		return h.fail(c, l, "Occupancy check failed", err)
	}

	l.Info("Occupancy check completed",
		zap.Int("rooms", plan.Summary.TotalRooms),
		zap.Int("drift", plan.Summary.StatusDrift),
		zap.Int("repaired", repaired))

	return c.JSON(fiber.Map{
		"summary":  plan.Summary,
		"results":  plan.Results,
		"actions":  plan.Actions,
		"repaired": repaired,
	})
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	if errors.Is(err, ErrSkipped) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

package backup

import (
	"errors"

	"dormitory-manager/core/logger"
	"dormitory-manager/feature/dormitory"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for backups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the backup routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/backups")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleBackup)
	group.Get("/:stamp", h.HandleManifest)
	group.Post("/:stamp/restore", h.HandleRestore)
}

// HandleList lists the stored backups.
// @Summary List Backups
// @Description Returns the backup stamps, newest first.
// @Tags backups
// @Produce json
// @Success 200 {object} map[string][]string "Backup stamps"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backups [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	stamps, err := h.service.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing backups failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"backups": stamps})
}

// HandleBackup uploads a new backup.
// @Summary Create Backup
// @Description Uploads the current state and prunes backups beyond the configured limit.
// @Tags backups
// @Produce json
// @Success 201 {object} Manifest "Manifest"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backups [post]
func (h *Handler) HandleBackup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting backup")

	m, err := h.service.Backup(c.Context())
	if err != nil {
		l.Error("Backup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// HandleManifest returns one backup's manifest.
// @Summary Get Backup Manifest
// @Tags backups
// @Produce json
// @Param stamp path string true "Backup stamp"
// @Success 200 {object} Manifest "Manifest"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backups/{stamp} [get]
func (h *Handler) HandleManifest(c *fiber.Ctx) error {
	m, err := h.service.Manifest(c.Context(), c.Params("stamp"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Reading manifest failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(m)
}

// HandleRestore replaces the state with a backup.
// @Summary Restore Backup
// @Description Replaces every collection with the backup's snapshot. Use "latest" for the newest backup.
// @Tags backups
// @Produce json
// @Param stamp path string true "Backup stamp or latest"
// @Success 200 {object} map[string]interface{} "Restored"
// @Failure 400 {object} map[string]string "Invalid snapshot"
// @Failure 404 {object} map[string]string "No backups"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backups/{stamp}/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stamp, warnings, err := h.service.Restore(c.Context(), c.Params("stamp"))
	if err != nil {
		l.Error("Restore failed", zap.String("stamp", stamp), zap.Error(err))
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, ErrNoBackups):
			status = fiber.StatusNotFound
		case errors.Is(err, dormitory.ErrInvalidDetails):
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	skipped := make([]string, 0, len(warnings))
	for _, w := range warnings {
		skipped = append(skipped, w.Error())
	}
	return c.JSON(fiber.Map{"restored": stamp, "skipped": skipped})
}

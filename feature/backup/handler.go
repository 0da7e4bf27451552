package backup

import (
	"errors"

	"watchstate/core/logger"

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
	group := app.Group("/backup")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Post("/restore", h.HandleRestore)
}

// HandleList lists stored backups.
// @Summary List Backups
// @Tags backup
// @Produce json
// @Success 200 {array} models.Info "Backups, newest first"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backup [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Backup list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// HandleCreate exports every record into a new backup.
// @Summary Create Backup
// @Tags backup
// @Produce json
// @Success 201 {object} models.Info "Created"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backup [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	info, err := h.service.Create(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Backup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(info)
}

// HandleRestore merges a backup into the history.
// @Summary Restore Backup
// @Description Records are matched by identity; metadata_only leaves watch state untouched.
// @Tags backup
// @Produce json
// @Param key query string true "Backup key or file name"
// @Param metadata_only query bool false "Merge identity and metadata only"
// @Success 200 {object} models.RestoreReport "Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /backup/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	report, err := h.service.Restore(c.Context(), c.Query("key"), c.QueryBool("metadata_only", false))
	switch {
	case errors.Is(err, ErrInvalidKey), errors.Is(err, ErrUnsupportedVersion):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.WithRayID(h.service.logger, c).Error("Restore failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

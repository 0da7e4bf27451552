package ignore

import (
	"errors"

	"watchstate/core/guid"
	"watchstate/core/logger"
	"watchstate/feature/ignore/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the ignore list.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the ignore routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/ignore")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Delete("/", h.HandleDelete)
}

// HandleList lists the ignore rules.
// @Summary List Ignore Rules
// @Tags ignore
// @Produce json
// @Success 200 {array} models.IgnoreRule "Rules"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /ignore [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	rules, err := h.service.All(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Ignore list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rules)
}

// HandleCreate adds an ignore rule.
// @Summary Add Ignore Rule
// @Description Suppresses an external id, globally or for one backend item (scope).
// @Tags ignore
// @Accept json
// @Produce json
// @Param body body models.CreateRequest true "Rule"
// @Success 201 {object} models.IgnoreRule "Created"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /ignore [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}

	row, err := h.service.Add(c.Context(), guid.Rule{Type: req.Type, Source: req.Source, ID: req.ID, Scope: req.Scope})
	switch {
	case errors.Is(err, guid.ErrInvalidRule):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.WithRayID(h.service.logger, c).Error("Ignore rule create failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// HandleDelete removes an ignore rule by key.
// @Summary Remove Ignore Rule
// @Tags ignore
// @Param key query string true "Rule key, e.g. movie://tmdb:278"
// @Success 204 "Removed"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /ignore [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	err := h.service.Remove(c.Context(), c.Query("key"))
	switch {
	case errors.Is(err, guid.ErrInvalidRule):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package integrity

import (
	"errors"

	"watchstate/core/logger"

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
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/structure", h.HandleStructureCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Checks the database schema and the backup storage layout.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Healthy"
// @Failure 503 {object} Report "Unhealthy"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.Run(c.Context())
	if !report.Healthy {
		l.Warn("Integrity checks failed", zap.Any("errors", report.Errors))
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Database Schema
// @Description Checks that the state, identity and ignore tables carry every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the storage layout.
// @Summary Check Storage Structure
// @Description Checks that the bucket and the backup prefix exist. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing prefixes"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 404 {object} map[string]string "Storage not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix", false)

	report, err := h.service.CheckStructure(c.Context())
	if errors.Is(err, ErrStorageDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(report.Missing) > 0 {
		l.Warn("Missing prefixes detected", zap.Strings("missing", report.Missing))

		if fix {
			if err := h.service.FixStructure(c.Context(), report.Missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": report.Missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  report.Missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"bucket":  report.Bucket,
		"missing": report.Missing,
	})
}

package history

import (
	"errors"
	"strconv"
	"time"

	"watchstate/core/logger"
	"watchstate/core/state"
	"watchstate/feature/history/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the watch history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/history")
	group.Post("/ingest/:backend", h.HandleIngest)
	group.Get("/", h.HandleList)
	group.Get("/stats", h.HandleStats)
	group.Get("/:id", h.HandleGet)
	group.Delete("/:id", h.HandleDelete)
}

// HandleIngest reconciles a batch of observations from one backend.
// @Summary Ingest Observations
// @Description Merges observations reported by a backend into the watch history. Tainted batches only update identity and metadata.
// @Tags history
// @Accept json
// @Produce json
// @Param backend path string true "Configured backend name"
// @Param tainted query boolean false "Low-confidence source, do not change watch state"
// @Param after query integer false "Sync watermark (unix seconds)"
// @Param body body models.IngestRequest true "Observations"
// @Success 200 {object} IngestReport "Ingest Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Backend"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history/ingest/{backend} [post]
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req models.IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body: " + err.Error()})
	}

	opts := IngestOptions{
		Backend: c.Params("backend"),
		Tainted: c.QueryBool("tainted", false),
	}
	if after := c.QueryInt("after", 0); after > 0 {
		opts.After = time.Unix(int64(after), 0)
	}

	report, err := h.service.Ingest(c.Context(), req.Items, opts)
	if errors.Is(err, ErrUnknownBackend) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Ingest failed", zap.String("backend", opts.Backend), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Ingested observations",
		zap.String("backend", report.Backend),
		zap.Int("received", report.Received),
		zap.Int("skipped", report.Skipped),
	)
	return c.JSON(report)
}

// ListResponse is one page of records.
type ListResponse struct {
	Total int64           `json:"total"`
	Items []*state.Entity `json:"items"`
}

// HandleList lists stored records.
// @Summary List History
// @Description Lists stored watch-state records, most recently updated first.
// @Tags history
// @Produce json
// @Param type query string false "movie or episode"
// @Param watched query boolean false "Filter by watched state"
// @Param since query integer false "Updated after (unix seconds)"
// @Param limit query integer false "Page size (max 500)"
// @Param offset query integer false "Offset"
// @Success 200 {object} ListResponse "Records"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	var q models.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if q.Type != "" && !state.Type(q.Type).IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be movie or episode"})
	}

	items, total, err := h.service.List(c.Context(), q)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("History list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ListResponse{Total: total, Items: items})
}

// HandleStats counts stored records per type.
// @Summary History Stats
// @Tags history
// @Produce json
// @Success 200 {object} map[string]int64 "Counts"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	counts, err := h.service.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(counts)
}

// HandleGet returns one record.
// @Summary Get Record
// @Tags history
// @Produce json
// @Param id path integer true "Record ID"
// @Success 200 {object} state.Entity "Record"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /history/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	e, err := h.service.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if e == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	}
	return c.JSON(e)
}

// HandleDelete removes one record.
// @Summary Delete Record
// @Tags history
// @Param id path integer true "Record ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /history/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	removed, err := h.service.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	}
	logger.WithRayID(h.service.logger, c).Info("Deleted record", zap.Int64("id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

package compare

import (
	"errors"

	"tracker-comparer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the compare routes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Get("/services", h.HandleServices)
	group.Post("/", h.HandleCompare)
	group.Post("/export", h.HandleExport)
	group.Get("/exports/:steamid", h.HandleListExports)
}

// HandleServices lists the selectable services.
// @Summary List Services
// @Description Lists every service a comparison can select, including Steam itself.
// @Tags compare
// @Produce json
// @Success 200 {array} trackers.Entry "Services"
// @Router /compare/services [get]
func (h *Handler) HandleServices(c *fiber.Ctx) error {
	return c.JSON(Services())
}

// HandleCompare runs a comparison.
// @Summary Compare Trackers
// @Description Fetches the selected services for a Steam profile and reports missing, removed and mismatched achievements. This operation may take minutes.
// @Tags compare
// @Accept json
// @Produce json
// @Param body body Request true "Comparison request"
// @Success 200 {object} reconcile.Report "Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare [post]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	report, err := h.service.Compare(c.Context(), req)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(report)
}

// HandleExport runs a comparison and returns its pairs as CSV.
// @Summary Export Comparison
// @Description Runs a comparison and returns every pairwise table as CSV, separated by blank lines. With upload=true each table is also written to the export bucket.
// @Tags compare
// @Accept json
// @Produce text/csv
// @Param body body Request true "Comparison request"
// @Param upload query boolean false "Upload to the export bucket"
// @Success 200 {string} string "CSV"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	report, err := h.service.Compare(c.Context(), req)
	if err != nil {
		return h.fail(c, l, err)
	}

	if c.QueryBool("upload") {
		keys, err := h.service.Upload(c.Context(), report)
		if err != nil {
			return h.fail(c, l, err)
		}
		l.Info("Exports uploaded", zap.Strings("keys", keys))
	}

	data, err := ExportCSV(report)
	if err != nil {
		return h.fail(c, l, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(data)
}

// HandleListExports lists the uploaded exports of a profile.
// @Summary List Exports
// @Description Lists the CSV objects uploaded for a Steam profile.
// @Tags compare
// @Produce json
// @Param steamid path string true "Steam ID"
// @Success 200 {object} map[string]interface{} "Export keys"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/exports/{steamid} [get]
func (h *Handler) HandleListExports(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	steamID := c.Params("steamid")

	keys, err := h.service.ListExports(c.Context(), steamID)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{"steamid": steamID, "keys": keys})
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case IsRequestError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrStorageDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("Comparison request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

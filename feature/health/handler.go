package health

import (
	"tracker-comparer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the health routes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/health")
	group.Get("/", h.HandleHealth)
	group.Get("/storage", h.HandleStorage)
}

// HandleHealth runs every check.
// @Summary Health
// @Description Checks the export bucket, the database schema and whether every tracker site answers.
// @Tags health
// @Produce json
// @Success 200 {object} Report "Healthy"
// @Failure 503 {object} Report "Degraded"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	report := h.service.Run(c.Context())
	if report.Status != StatusHealthy {
		logger.WithRayID(h.service.logger, c).Warn("Health degraded")
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleStorage checks and optionally creates the export bucket.
// @Summary Check Storage
// @Description Checks that the export bucket exists. Optionally creates it.
// @Tags health
// @Produce json
// @Param fix query boolean false "Create a missing bucket"
// @Success 200 {object} checks.Check "Storage check"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /health/storage [get]
func (h *Handler) HandleStorage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	check := h.service.CheckStorage(c.Context())
	if len(check.Missing) > 0 && c.QueryBool("fix") {
		l.Info("Creating missing export bucket")
		if err := h.service.FixStorage(c.Context()); err != nil {
			l.Error("Failed to create bucket", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "fixed", "fixed": check.Missing})
	}
	return c.JSON(check)
}

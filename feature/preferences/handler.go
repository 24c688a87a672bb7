package preferences

import (
	"strings"

	"tracker-comparer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the preferences routes.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the preferences routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/preferences")
	group.Get("/*", h.HandleGet)
	group.Put("/*", h.HandlePut)
}

type putRequest struct {
	Value string `json:"value"`
}

// HandleGet returns a stored preference.
// @Summary Get Preference
// @Description Returns the value stored under key. Keys may contain slashes, e.g. '76561197960287930/tsaProfileUrl'.
// @Tags preferences
// @Produce json
// @Param key path string true "Preference key"
// @Success 200 {object} Preference "Preference"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /preferences/{key} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	key := strings.Trim(c.Params("*"), "/")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	value, ok, err := h.store.Get(c.Context(), key)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Preference read failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "preference not found"})
	}
	return c.JSON(fiber.Map{"key": key, "value": value})
}

// HandlePut stores a preference.
// @Summary Set Preference
// @Description Stores a value under key, replacing the previous one.
// @Tags preferences
// @Accept json
// @Produce json
// @Param key path string true "Preference key"
// @Param body body putRequest true "Value"
// @Success 200 {object} Preference "Preference"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /preferences/{key} [put]
func (h *Handler) HandlePut(c *fiber.Ctx) error {
	key := strings.Trim(c.Params("*"), "/")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	var body putRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if err := h.store.Set(c.Context(), key, body.Value); err != nil {
		logger.WithRayID(h.logger, c).Error("Preference write failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"key": key, "value": body.Value})
}

package preferences

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	store   *Store
	handler *Handler
}

// NewFeature creates the preferences feature. It is disabled without a database.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	if db == nil {
		return &Feature{}
	}
	store := NewStore(db)
	return &Feature{store: store, handler: NewHandler(store, logger)}
}

// Store returns the feature's store, or nil when disabled.
func (f *Feature) Store() *Store {
	return f.store
}

func (f *Feature) Name() string {
	return "preferences"
}

func (f *Feature) IsEnabled() bool {
	return f.store != nil
}

// Load migrates the table and registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.store.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}

package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Preference is one stored key/value pair.
type Preference struct {
	Key       string    `gorm:"column:key;primaryKey;size:191" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the table name for gorm.
func (Preference) TableName() string {
	return "preferences"
}

// Columns lists the columns the store reads and writes.
var Columns = []string{"key", "value", "updated_at"}

// TSAProfileURLKey is the key the TrueSteamAchievements profile URL of a
// player is remembered under.
func TSAProfileURLKey(steamID string) string {
	return steamID + "/tsaProfileUrl"
}

// Store reads and writes preferences.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the preferences table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Preference{}); err != nil {
		return fmt.Errorf("failed to migrate preferences: %w", err)
	}
	return nil
}

// Get returns the value for key. ok is false when nothing is stored.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var p Preference
	err = s.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return p.Value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	p := Preference{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}

package preferences

import (
	"context"
	"regexp"
	"testing"

	"tracker-comparer/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := NewStore(db)
	require.NoError(t, s.Migrate())
	return s
}

func TestStore_GetSet(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	key := TSAProfileURLKey("76561197960287930")
	assert.Equal(t, "76561197960287930/tsaProfileUrl", key)

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, key, "https://truesteamachievements.com/gamer/Gordon"))
	require.NoError(t, s.Set(ctx, key, "https://truesteamachievements.com/gamer/Alyx"))

	value, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://truesteamachievements.com/gamer/Alyx", value)

	var count int64
	require.NoError(t, s.db.Model(&Preference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStore_Schema(t *testing.T) {
	s := newSQLiteStore(t)

	missing, err := database.MissingColumns(s.db, Preference{}.TableName(), Columns)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestStore_GetError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `preferences`")).WillReturnError(assert.AnError)

	_, ok, err := NewStore(db).Get(context.Background(), "k")
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

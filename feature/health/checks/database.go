package checks

import (
	"context"
	"fmt"
	"strings"

	"tracker-comparer/core/database"
	"tracker-comparer/feature/preferences"

	"gorm.io/gorm"
)

// CheckDatabase pings the database and compares the preferences table
// against the columns the store uses.
func CheckDatabase(ctx context.Context, db *gorm.DB) Check {
	name := "database"
	if db == nil {
		return Check{Name: name, Status: StatusDisabled, Detail: "no database connection"}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return failed(name, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return failed(name, fmt.Errorf("failed to ping database: %w", err))
	}

	table := preferences.Preference{}.TableName()
	missing, err := database.MissingColumns(db.WithContext(ctx), table, preferences.Columns)
	if err != nil {
		return failed(name, err)
	}
	if len(missing) > 0 {
		return Check{
			Name:    name,
			Status:  StatusWarning,
			Detail:  fmt.Sprintf("table %s is missing columns: %s", table, strings.Join(missing, ", ")),
			Missing: missing,
		}
	}
	return Check{Name: name, Status: StatusOK, Detail: db.Dialector.Name()}
}

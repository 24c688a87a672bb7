package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column is one column of a live table, names and types lowercased.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Columns reads the column list of table through the dialect's migrator,
// so PRAGMA table_info and information_schema look the same to callers.
func Columns(db *gorm.DB, table string) ([]Column, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	out := make([]Column, 0, len(types))
	for _, ct := range types {
		nullable, _ := ct.Nullable()
		out = append(out, Column{
			Name:     strings.ToLower(ct.Name()),
			Type:     strings.ToLower(ct.DatabaseTypeName()),
			Nullable: nullable,
		})
	}
	return out, nil
}

// MissingColumns returns the wanted columns absent from table. A table that
// does not exist is missing all of them.
func MissingColumns(db *gorm.DB, table string, want []string) ([]string, error) {
	if !db.Migrator().HasTable(table) {
		return append([]string(nil), want...), nil
	}
	cols, err := Columns(db, table)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c.Name] = true
	}

	var missing []string
	for _, w := range want {
		if !have[strings.ToLower(w)] {
			missing = append(missing, w)
		}
	}
	return missing, nil
}

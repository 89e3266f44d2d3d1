package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Page selects a window of a list query. A zero Limit returns every row.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}

// containsPattern builds a case-insensitive LIKE pattern for use with
// LOWER(column) LIKE ?.
func containsPattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}

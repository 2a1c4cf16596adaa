package specification

import "gorm.io/gorm"

// Specification is a composable query predicate; repositories apply any
// number of them to a base query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

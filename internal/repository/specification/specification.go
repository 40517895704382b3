package specification

import "gorm.io/gorm"

// Specification narrows a gorm query. Prompt and lookup repositories accept
// any number of them and apply them in order.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Specs is a convenience for passing a prebuilt slice where a variadic
// list is expected.
type Specs []Specification

func (s Specs) Apply(db *gorm.DB) *gorm.DB {
	for _, spec := range s {
		db = spec.Apply(db)
	}
	return db
}

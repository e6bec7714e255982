// internal/models/catalog.go
package models

// PropertyType is a flat catalog entry (house, apartment, ...).
type PropertyType struct {
	BaseModel
	Name     string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Sequence int    `json:"sequence" gorm:"default:10"`

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:PropertyTypeID"`
}

// Tag labels properties (cozy, renovated, ...). Names are unique with
// exact-match comparison.
type Tag struct {
	BaseModel
	Name  string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Color int    `json:"color" gorm:"default:0"`
}

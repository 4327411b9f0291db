package models

import "time"

// Specialist manages accommodation listings for a campus.
type Specialist struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name     string `gorm:"size:255" json:"name"`
	Email    string `gorm:"size:255;uniqueIndex" json:"email"`
	Password string `gorm:"size:255" json:"-"`
	Contact  string `gorm:"size:255" json:"contact,omitempty"`
	CampusID *uint  `gorm:"column:campus_id;index" json:"campus_id,omitempty"`

	Campus Campus `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
}

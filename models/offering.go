package models

import "time"

// AccommodationOffering lists an accommodation at a campus under one
// managing specialist. The same unit may be offered at several campuses,
// but only once per campus.
type AccommodationOffering struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	AccommodationID uint `gorm:"column:accommodation_id;uniqueIndex:uniq_offering" json:"accommodation_id"`
	CampusID        uint `gorm:"column:campus_id;uniqueIndex:uniq_offering" json:"campus_id"`
	SpecialistID    uint `gorm:"column:specialist_id;index" json:"specialist_id"`

	Accommodation Accommodation `gorm:"foreignKey:AccommodationID" json:"accommodation,omitempty"`
	Campus        Campus        `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
	Specialist    Specialist    `gorm:"foreignKey:SpecialistID" json:"specialist,omitempty"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TypeRoom     = "Room"
	TypeFlat     = "Flat"
	TypeMiniHall = "Mini hall"
)

// ValidAccommodationType reports whether t is one of the listing types.
func ValidAccommodationType(t string) bool {
	switch t {
	case TypeRoom, TypeFlat, TypeMiniHall:
		return true
	}
	return false
}

// Accommodation is a physical unit listed on the platform.
//
// IsReserved, AverageRating and RatingCount are derived caches kept in sync
// by the services that write reservations and ratings. They are never
// recomputed from scratch at read time.
type Accommodation struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Type              string    `gorm:"size:20;index" json:"type"`
	AvailabilityStart time.Time `gorm:"column:availability_start;type:date" json:"availability_start"`
	AvailabilityEnd   time.Time `gorm:"column:availability_end;type:date" json:"availability_end"`
	Beds              int       `gorm:"column:beds" json:"beds"`
	Bedrooms          int       `gorm:"column:bedrooms" json:"bedrooms"`
	Price             float64   `gorm:"column:price" json:"price"`

	BuildingName string   `gorm:"size:255" json:"building_name"`
	Latitude     *float64 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude    *float64 `gorm:"column:longitude" json:"longitude,omitempty"`
	Address      string   `gorm:"type:text" json:"address"`

	// One physical unit must not be listed twice, so the refined address
	// fields carry a composite unique index.
	GeoAddress  string `gorm:"column:geo_address;size:128;uniqueIndex:uniq_unit" json:"geo_address,omitempty"`
	RoomNumber  string `gorm:"size:10;uniqueIndex:uniq_unit" json:"room_number,omitempty"`
	FlatNumber  string `gorm:"size:10;uniqueIndex:uniq_unit" json:"flat_number"`
	FloorNumber string `gorm:"size:10;uniqueIndex:uniq_unit" json:"floor_number"`

	OwnerName    string `gorm:"size:255" json:"owner_name"`
	OwnerContact string `gorm:"size:255" json:"owner_contact"`

	Photos datatypes.JSON `gorm:"column:photos" json:"photos,omitempty"`

	IsReserved    bool    `gorm:"column:is_reserved;default:false" json:"is_reserved"`
	AverageRating float64 `gorm:"column:average_rating;default:0" json:"average_rating"`
	RatingCount   int     `gorm:"column:rating_count;default:0" json:"rating_count"`
}

// HasCoordinates reports whether the unit already carries geocoded
// coordinates. When false, search resolves them via the geocoder.
func (a *Accommodation) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

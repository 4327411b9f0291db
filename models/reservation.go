package models

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
	StatusCompleted = "completed"
)

// ActiveStatuses are the states in which a reservation still holds its
// accommodation.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// ValidReservationStatus reports whether s is one of the four lifecycle
// states.
func ValidReservationStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted:
		return true
	}
	return false
}

type Reservation struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	StudentID       uint   `gorm:"column:student_id;index" json:"student_id"`
	AccommodationID uint   `gorm:"column:accommodation_id;index" json:"accommodation_id"`
	ReferenceCode   string `gorm:"column:reference_code;size:64" json:"reference_code,omitempty"`
	Status          string `gorm:"column:status;size:20;index" json:"status"`

	Student       Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Accommodation Accommodation `gorm:"foreignKey:AccommodationID" json:"accommodation,omitempty"`
}

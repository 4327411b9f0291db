package models

import "time"

// Rating is one student's score for one accommodation. A student updates
// their existing rating instead of adding a second row, hence the
// composite unique index.
type Rating struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	StudentID       uint      `gorm:"column:student_id;uniqueIndex:uniq_student_rating" json:"student_id"`
	AccommodationID uint      `gorm:"column:accommodation_id;uniqueIndex:uniq_student_rating" json:"accommodation_id"`
	Value           int       `gorm:"column:rating" json:"rating"`
	Comment         string    `gorm:"type:text" json:"comment,omitempty"`
	Date            time.Time `gorm:"column:date;type:date" json:"date"`

	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

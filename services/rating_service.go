// services/rating_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"unihaven-backend/models"

	"gorm.io/gorm"
)

// RatingSummary confirms a submitted rating together with the updated
// accommodation aggregate.
type RatingSummary struct {
	Value   int     `json:"rating"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// RatingService records ratings and keeps the accommodation aggregate in
// step. RequireCompleted is the rate-after-stay policy: when set, a
// student may only rate an accommodation after one of their reservations
// for it completed.
type RatingService struct {
	DB               *gorm.DB
	Accommodations   *AccommodationService
	RequireCompleted bool
}

func NewRatingService(db *gorm.DB, accommodations *AccommodationService, requireCompleted bool) *RatingService {
	return &RatingService{DB: db, Accommodations: accommodations, RequireCompleted: requireCompleted}
}

// SubmitRating inserts a first-time rating or overwrites the student's
// existing one. An overwrite replaces the prior contribution to the
// running average; the count stays put.
func (s *RatingService) SubmitRating(studentID, accommodationID uint, value int, comment string) (*RatingSummary, error) {
	if value < 0 || value > 5 {
		return nil, fmt.Errorf("rating %d out of range [0,5]: %w", value, ErrInvalidValue)
	}

	var summary *RatingSummary
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("student %d: %w", studentID, ErrNotFound)
			}
			return fmt.Errorf("db error checking student: %w", err)
		}
		var acc models.Accommodation
		if err := tx.First(&acc, accommodationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("accommodation %d: %w", accommodationID, ErrNotFound)
			}
			return fmt.Errorf("db error checking accommodation: %w", err)
		}

		if s.RequireCompleted {
			var completed int64
			if err := tx.Model(&models.Reservation{}).
				Where("student_id = ? AND accommodation_id = ? AND status = ?",
					studentID, accommodationID, models.StatusCompleted).
				Count(&completed).Error; err != nil {
				return fmt.Errorf("db error checking completed stays: %w", err)
			}
			if completed == 0 {
				return fmt.Errorf("student %d has no completed stay at accommodation %d: %w",
					studentID, accommodationID, ErrNotCompleted)
			}
		}

		now := time.Now().UTC()

		var existing models.Rating
		err := tx.Where("student_id = ? AND accommodation_id = ?", studentID, accommodationID).
			First(&existing).Error
		switch {
		case err == nil:
			previous := existing.Value
			if uErr := tx.Model(&existing).Updates(map[string]interface{}{
				"rating":  value,
				"comment": comment,
				"date":    now,
			}).Error; uErr != nil {
				return fmt.Errorf("failed to update rating: %w", uErr)
			}
			avg, count, aErr := s.Accommodations.ApplyRating(tx, accommodationID, value, &previous)
			if aErr != nil {
				return aErr
			}
			summary = &RatingSummary{Value: value, Average: avg, Count: count}
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			r := models.Rating{
				StudentID:       studentID,
				AccommodationID: accommodationID,
				Value:           value,
				Comment:         comment,
				Date:            now,
			}
			if cErr := tx.Create(&r).Error; cErr != nil {
				return fmt.Errorf("failed to create rating: %w", cErr)
			}
			avg, count, aErr := s.Accommodations.ApplyRating(tx, accommodationID, value, nil)
			if aErr != nil {
				return aErr
			}
			summary = &RatingSummary{Value: value, Average: avg, Count: count}
			return nil

		default:
			return fmt.Errorf("db error loading rating: %w", err)
		}
	})
	if txErr != nil {
		return nil, txErr
	}
	return summary, nil
}

// ListForAccommodation returns all ratings for one accommodation, newest
// first.
func (s *RatingService) ListForAccommodation(accommodationID uint) ([]models.Rating, error) {
	var acc models.Accommodation
	if err := s.DB.First(&acc, accommodationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("accommodation %d: %w", accommodationID, ErrNotFound)
		}
		return nil, fmt.Errorf("db error checking accommodation: %w", err)
	}

	var list []models.Rating
	if err := s.DB.
		Preload("Student").
		Where("accommodation_id = ?", accommodationID).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve ratings: %w", err)
	}
	return list, nil
}

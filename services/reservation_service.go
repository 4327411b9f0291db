// services/reservation_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"unihaven-backend/models"
	"unihaven-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PendingExpiry is how long a reservation may sit in pending before the
// sweep cancels it.
const PendingExpiry = 24 * time.Hour

// allowedTransitions is the reservation state machine. canceled and
// completed are terminal.
var allowedTransitions = map[string][]string{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCanceled},
	models.StatusConfirmed: {models.StatusCanceled, models.StatusCompleted},
}

func transitionAllowed(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ReservationService owns the reservation lifecycle and the booking
// invariants: one active holder per accommodation, at most one pending
// reservation per student, no overlapping availability windows among a
// student's active reservations.
type ReservationService struct {
	DB             *gorm.DB
	Accommodations *AccommodationService

	// studentLocks serializes reservation writes per student so the
	// single-pending and overlap checks cannot race with themselves.
	// Accommodation exclusivity needs no lock: Reserve is a conditional
	// UPDATE with exactly one winner.
	studentLocks utils.KeyedLock
}

func NewReservationService(db *gorm.DB, accommodations *AccommodationService) *ReservationService {
	return &ReservationService{DB: db, Accommodations: accommodations}
}

func studentKey(id uint) string {
	return fmt.Sprintf("student:%d", id)
}

func newReferenceCode() string {
	return "RSV-" + strings.ToUpper(uuid.NewString()[:8])
}

// notify sends the status email best-effort. Failures are logged, never
// propagated: the state transition already committed.
func (s *ReservationService) notify(r *models.Reservation) {
	var student models.Student
	if err := s.DB.First(&student, r.StudentID).Error; err != nil {
		log.Printf("warning: reservation %d notification skipped, student load failed: %v", r.ID, err)
		return
	}
	var acc models.Accommodation
	if err := s.DB.Unscoped().First(&acc, r.AccommodationID).Error; err != nil {
		log.Printf("warning: reservation %d notification skipped, accommodation load failed: %v", r.ID, err)
		return
	}
	if err := utils.SendReservationEmail(student.Email, student.Name, r.ReferenceCode, acc.Address, r.Status); err != nil {
		log.Printf("warning: reservation %d notification failed: %v", r.ID, err)
	}
}

// CreateReservation books an accommodation for a student. The checks and
// the writes form one atomic unit: the reservation row and the
// accommodation's is_reserved flag commit together or not at all.
func (s *ReservationService) CreateReservation(studentID, accommodationID uint) (*models.Reservation, error) {
	key := studentKey(studentID)
	s.studentLocks.Lock(key)
	defer s.studentLocks.Unlock(key)

	var reservation *models.Reservation
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
		if acc.IsReserved {
			return fmt.Errorf("accommodation %d: %w", accommodationID, ErrAlreadyReserved)
		}

		var pending int64
		if err := tx.Model(&models.Reservation{}).
			Where("student_id = ? AND status = ?", studentID, models.StatusPending).
			Count(&pending).Error; err != nil {
			return fmt.Errorf("db error counting pending reservations: %w", err)
		}
		if pending > 0 {
			return fmt.Errorf("student %d: %w", studentID, ErrPendingExists)
		}

		// Inclusive interval intersection against every accommodation the
		// student still actively holds.
		var overlapping int64
		if err := tx.Model(&models.Reservation{}).
			Joins("JOIN accommodations ON accommodations.id = reservations.accommodation_id").
			Where("accommodations.deleted_at IS NULL").
			Where("reservations.student_id = ?", studentID).
			Where("reservations.status IN ?", models.ActiveStatuses).
			Where("accommodations.availability_start <= ? AND accommodations.availability_end >= ?",
				acc.AvailabilityEnd, acc.AvailabilityStart).
			Count(&overlapping).Error; err != nil {
			return fmt.Errorf("db error checking overlapping reservations: %w", err)
		}
		if overlapping > 0 {
			return fmt.Errorf("student %d: %w", studentID, ErrTimeOverlap)
		}

		if err := s.Accommodations.Reserve(tx, accommodationID); err != nil {
			return err
		}

		r := &models.Reservation{
			StudentID:       studentID,
			AccommodationID: accommodationID,
			ReferenceCode:   newReferenceCode(),
			Status:          models.StatusPending,
		}
		if err := tx.Create(r).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		reservation = r
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(reservation)
	return reservation, nil
}

// CancelReservation is the student path: the actor must own the
// reservation. Ownership failures are distinguishable from not-found.
func (s *ReservationService) CancelReservation(studentID, reservationID uint) (*models.Reservation, error) {
	key := studentKey(studentID)
	s.studentLocks.Lock(key)
	defer s.studentLocks.Unlock(key)

	var reservation *models.Reservation
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.First(&r, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
			}
			return fmt.Errorf("db error loading reservation: %w", err)
		}
		if r.StudentID != studentID {
			return fmt.Errorf("reservation %d not owned by student %d: %w", reservationID, studentID, ErrUnauthorized)
		}
		if r.Status == models.StatusCanceled || r.Status == models.StatusCompleted {
			return fmt.Errorf("reservation %d is %s: %w", reservationID, r.Status, ErrInvalidState)
		}

		if err := tx.Model(&r).Update("status", models.StatusCanceled).Error; err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}
		r.Status = models.StatusCanceled

		if err := s.Accommodations.Release(tx, r.AccommodationID); err != nil {
			return err
		}
		reservation = &r
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(reservation)
	return reservation, nil
}

// SetStatus is the specialist path: any transition from the allowed table.
// Entering confirmed guarantees the unit stays reserved; leaving the
// active states releases it unless another active reservation holds it.
func (s *ReservationService) SetStatus(reservationID uint, newStatus string) (*models.Reservation, error) {
	if !models.ValidReservationStatus(newStatus) {
		return nil, fmt.Errorf("status %q: %w", newStatus, ErrInvalidValue)
	}

	var reservation *models.Reservation
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var r models.Reservation
		if err := tx.First(&r, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
			}
			return fmt.Errorf("db error loading reservation: %w", err)
		}
		if !transitionAllowed(r.Status, newStatus) {
			return fmt.Errorf("reservation %d: %s -> %s: %w", reservationID, r.Status, newStatus, ErrInvalidState)
		}

		if err := tx.Model(&r).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}
		r.Status = newStatus

		switch newStatus {
		case models.StatusConfirmed:
			if err := tx.Model(&models.Accommodation{}).
				Where("id = ?", r.AccommodationID).
				Update("is_reserved", true).Error; err != nil {
				return fmt.Errorf("failed to keep accommodation reserved: %w", err)
			}
		case models.StatusCanceled, models.StatusCompleted:
			if err := s.Accommodations.Release(tx, r.AccommodationID); err != nil {
				return err
			}
		}
		reservation = &r
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notify(reservation)
	return reservation, nil
}

// ExpirePending cancels reservations stuck in pending longer than
// PendingExpiry. Each transition is guarded by its current-state
// precondition, so the sweep is idempotent and safe to run concurrently
// with ordinary bookings.
func (s *ReservationService) ExpirePending(now time.Time) (int, error) {
	cutoff := now.Add(-PendingExpiry)

	var stale []models.Reservation
	if err := s.DB.
		Where("status = ? AND created_at <= ?", models.StatusPending, cutoff).
		Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("db error finding stale reservations: %w", err)
	}

	expired := 0
	for i := range stale {
		r := stale[i]
		canceled := false
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Reservation{}).
				Where("id = ? AND status = ?", r.ID, models.StatusPending).
				Update("status", models.StatusCanceled)
			if res.Error != nil {
				return fmt.Errorf("failed to expire reservation %d: %w", r.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				// Someone confirmed or canceled it since the scan.
				return nil
			}
			canceled = true
			return s.Accommodations.Release(tx, r.AccommodationID)
		})
		if err != nil {
			return expired, err
		}
		// Counted only after the transaction committed, so a rolled-back
		// release never inflates the total.
		if canceled {
			expired++
		}
	}
	return expired, nil
}

// ListByStudent returns a student's reservations with their
// accommodations preloaded.
func (s *ReservationService) ListByStudent(studentID uint) ([]models.Reservation, error) {
	var student models.Student
	if err := s.DB.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student %d: %w", studentID, ErrNotFound)
		}
		return nil, fmt.Errorf("db error checking student: %w", err)
	}

	var list []models.Reservation
	if err := s.DB.
		Preload("Accommodation").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	return list, nil
}

// ListActive returns every pending or confirmed reservation, for the
// specialist dashboard.
func (s *ReservationService) ListActive() ([]models.Reservation, error) {
	var list []models.Reservation
	if err := s.DB.
		Preload("Student").
		Preload("Accommodation").
		Where("status IN ?", models.ActiveStatuses).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve active reservations: %w", err)
	}
	return list, nil
}

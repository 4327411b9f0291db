// services/accommodation_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"unihaven-backend/models"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// AccommodationService owns accommodation rows and their derived fields
// (is_reserved, average_rating, rating_count). Every mutation of a derived
// field happens in the same transaction as the write that invalidates it.
type AccommodationService struct {
	DB       *gorm.DB
	Geocoder Geocoder
}

func NewAccommodationService(db *gorm.DB, geocoder Geocoder) *AccommodationService {
	return &AccommodationService{DB: db, Geocoder: geocoder}
}

// CreateAccommodationInput carries the listing details a specialist submits.
type CreateAccommodationInput struct {
	Type              string  `json:"type"`
	AvailabilityStart string  `json:"availability_start"`
	AvailabilityEnd   string  `json:"availability_end"`
	Beds              int     `json:"beds"`
	Bedrooms          int     `json:"bedrooms"`
	Price             float64 `json:"price"`
	BuildingName      string  `json:"building_name"`
	Address           string  `json:"address"`
	RoomNumber        string  `json:"room_number"`
	FlatNumber        string  `json:"flat_number"`
	FloorNumber       string  `json:"floor_number"`
	OwnerName         string  `json:"owner_name"`
	OwnerContact      string  `json:"owner_contact"`
}

func isDuplicateKeyErr(err error) bool {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}

func (s *AccommodationService) validateInput(in CreateAccommodationInput) (start, end time.Time, err error) {
	if !models.ValidAccommodationType(in.Type) {
		return start, end, fmt.Errorf("type %q: %w", in.Type, ErrInvalidValue)
	}
	start, err = time.Parse("2006-01-02", in.AvailabilityStart)
	if err != nil {
		return start, end, fmt.Errorf("availability_start %q: %w", in.AvailabilityStart, ErrInvalidValue)
	}
	end, err = time.Parse("2006-01-02", in.AvailabilityEnd)
	if err != nil {
		return start, end, fmt.Errorf("availability_end %q: %w", in.AvailabilityEnd, ErrInvalidValue)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("availability_end before availability_start: %w", ErrInvalidValue)
	}
	if in.Beds <= 0 {
		return start, end, fmt.Errorf("beds must be positive: %w", ErrInvalidValue)
	}
	if in.Bedrooms <= 0 {
		return start, end, fmt.Errorf("bedrooms must be positive: %w", ErrInvalidValue)
	}
	if in.Price <= 0 {
		return start, end, fmt.Errorf("price must be positive: %w", ErrInvalidValue)
	}
	if strings.TrimSpace(in.Address) == "" {
		return start, end, fmt.Errorf("address is required: %w", ErrInvalidValue)
	}
	return start, end, nil
}

// CreateAccommodation geocodes the address and stores the listing. A
// geocoder outage leaves the coordinates unset; search resolves them later.
func (s *AccommodationService) CreateAccommodation(specialistID uint, in CreateAccommodationInput) (*models.Accommodation, error) {
	start, end, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}

	var specialist models.Specialist
	if err := s.DB.First(&specialist, specialistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("specialist %d: %w", specialistID, ErrNotFound)
		}
		return nil, fmt.Errorf("db error checking specialist: %w", err)
	}

	acc := &models.Accommodation{
		Type:              in.Type,
		AvailabilityStart: start,
		AvailabilityEnd:   end,
		Beds:              in.Beds,
		Bedrooms:          in.Bedrooms,
		Price:             in.Price,
		BuildingName:      in.BuildingName,
		Address:           in.Address,
		RoomNumber:        in.RoomNumber,
		FlatNumber:        in.FlatNumber,
		FloorNumber:       in.FloorNumber,
		OwnerName:         in.OwnerName,
		OwnerContact:      in.OwnerContact,
	}

	if geo, gErr := s.Geocoder.Lookup(in.Address); gErr != nil {
		log.Printf("warning: geocode failed for new listing %q: %v", in.Address, gErr)
	} else {
		acc.GeoAddress = geo.GeoAddress
		acc.Latitude = &geo.Latitude
		acc.Longitude = &geo.Longitude
	}

	if err := s.DB.Create(acc).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("unit already listed: %w", ErrDuplicateUnit)
		}
		return nil, fmt.Errorf("failed to create accommodation: %w", err)
	}
	return acc, nil
}

// UpdateAccommodation replaces the mutable listing fields. Derived fields
// are never touched here.
func (s *AccommodationService) UpdateAccommodation(id uint, in CreateAccommodationInput) (*models.Accommodation, error) {
	start, end, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}

	var acc models.Accommodation
	if err := s.DB.First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("accommodation %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("db error loading accommodation: %w", err)
	}

	updates := map[string]interface{}{
		"type":               in.Type,
		"availability_start": start,
		"availability_end":   end,
		"beds":               in.Beds,
		"bedrooms":           in.Bedrooms,
		"price":              in.Price,
		"building_name":      in.BuildingName,
		"owner_name":         in.OwnerName,
		"owner_contact":      in.OwnerContact,
	}

	// A changed address invalidates the stored coordinates.
	if strings.TrimSpace(in.Address) != strings.TrimSpace(acc.Address) {
		updates["address"] = in.Address
		if geo, gErr := s.Geocoder.Lookup(in.Address); gErr != nil {
			log.Printf("warning: geocode failed for updated listing %q: %v", in.Address, gErr)
			// The old geo_address belongs to the old address.
			updates["geo_address"] = ""
			updates["latitude"] = nil
			updates["longitude"] = nil
		} else {
			updates["geo_address"] = geo.GeoAddress
			updates["latitude"] = geo.Latitude
			updates["longitude"] = geo.Longitude
		}
	}

	if err := s.DB.Model(&acc).Updates(updates).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("unit already listed: %w", ErrDuplicateUnit)
		}
		return nil, fmt.Errorf("failed to update accommodation: %w", err)
	}

	if err := s.DB.First(&acc, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload accommodation: %w", err)
	}
	return &acc, nil
}

// DeleteAccommodation refuses to remove a unit that still has an active
// reservation.
func (s *AccommodationService) DeleteAccommodation(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var acc models.Accommodation
		if err := tx.First(&acc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("accommodation %d: %w", id, ErrNotFound)
			}
			return fmt.Errorf("db error loading accommodation: %w", err)
		}

		var active int64
		if err := tx.Model(&models.Reservation{}).
			Where("accommodation_id = ? AND status IN ?", id, models.ActiveStatuses).
			Count(&active).Error; err != nil {
			return fmt.Errorf("db error counting reservations: %w", err)
		}
		if active > 0 {
			return fmt.Errorf("accommodation %d has active reservations: %w", id, ErrAlreadyReserved)
		}

		if err := tx.Delete(&acc).Error; err != nil {
			return fmt.Errorf("failed to delete accommodation: %w", err)
		}
		return nil
	})
}

func (s *AccommodationService) GetAccommodation(id uint) (*models.Accommodation, error) {
	var acc models.Accommodation
	if err := s.DB.First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("accommodation %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve accommodation: %w", err)
	}
	return &acc, nil
}

func (s *AccommodationService) ListAccommodations() ([]models.Accommodation, error) {
	var list []models.Accommodation
	if err := s.DB.Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve accommodations: %w", err)
	}
	return list, nil
}

// CreateOffering lists an accommodation at a campus under a specialist.
func (s *AccommodationService) CreateOffering(accommodationID, campusID, specialistID uint) (*models.AccommodationOffering, error) {
	var acc models.Accommodation
	if err := s.DB.First(&acc, accommodationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("accommodation %d: %w", accommodationID, ErrNotFound)
		}
		return nil, fmt.Errorf("db error checking accommodation: %w", err)
	}
	var campus models.Campus
	if err := s.DB.First(&campus, campusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("campus %d: %w", campusID, ErrNotFound)
		}
		return nil, fmt.Errorf("db error checking campus: %w", err)
	}
	var specialist models.Specialist
	if err := s.DB.First(&specialist, specialistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("specialist %d: %w", specialistID, ErrNotFound)
		}
		return nil, fmt.Errorf("db error checking specialist: %w", err)
	}

	offering := &models.AccommodationOffering{
		AccommodationID: accommodationID,
		CampusID:        campusID,
		SpecialistID:    specialistID,
	}
	if err := s.DB.Create(offering).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("accommodation %d already offered at campus %d: %w",
				accommodationID, campusID, ErrDuplicateOffering)
		}
		return nil, fmt.Errorf("failed to create offering: %w", err)
	}
	return offering, nil
}

// Reserve flips is_reserved from false to true in one conditional UPDATE,
// so of two concurrent callers exactly one wins.
func (s *AccommodationService) Reserve(tx *gorm.DB, accommodationID uint) error {
	res := tx.Model(&models.Accommodation{}).
		Where("id = ? AND is_reserved = ?", accommodationID, false).
		Update("is_reserved", true)
	if res.Error != nil {
		return fmt.Errorf("failed to reserve accommodation %d: %w", accommodationID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Accommodation{}).
			Where("id = ?", accommodationID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("db error checking accommodation %d: %w", accommodationID, err)
		}
		if count == 0 {
			return fmt.Errorf("accommodation %d: %w", accommodationID, ErrNotFound)
		}
		return fmt.Errorf("accommodation %d: %w", accommodationID, ErrAlreadyReserved)
	}
	return nil
}

// Release clears is_reserved only when no reservation still holds the
// unit. The unit is reserved globally across all of its campus offerings.
func (s *AccommodationService) Release(tx *gorm.DB, accommodationID uint) error {
	var active int64
	if err := tx.Model(&models.Reservation{}).
		Where("accommodation_id = ? AND status IN ?", accommodationID, models.ActiveStatuses).
		Count(&active).Error; err != nil {
		return fmt.Errorf("db error counting active reservations: %w", err)
	}
	if active > 0 {
		return nil
	}

	if err := tx.Model(&models.Accommodation{}).
		Where("id = ?", accommodationID).
		Update("is_reserved", false).Error; err != nil {
		return fmt.Errorf("failed to release accommodation %d: %w", accommodationID, err)
	}
	return nil
}

// ApplyRating folds a new or changed rating value into the running
// aggregate. Both fields change in a single UPDATE so concurrent raters
// cannot lose each other's contribution.
//
// First-time rating (previousValue nil):
//
//	count' = count + 1
//	average' = (average*count + value) / count'
//
// Update (previousValue set): count unchanged,
//
//	average' = (average*count - previous + value) / count
func (s *AccommodationService) ApplyRating(tx *gorm.DB, accommodationID uint, value int, previousValue *int) (float64, int, error) {
	if previousValue == nil {
		res := tx.Model(&models.Accommodation{}).
			Where("id = ?", accommodationID).
			Updates(map[string]interface{}{
				"average_rating": gorm.Expr("(average_rating * rating_count + ?) / (rating_count + 1)", value),
				"rating_count":   gorm.Expr("rating_count + 1"),
			})
		if res.Error != nil {
			return 0, 0, fmt.Errorf("failed to apply rating: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return 0, 0, fmt.Errorf("accommodation %d: %w", accommodationID, ErrNotFound)
		}
	} else {
		// An update presumes a prior rating, so rating_count must be > 0.
		res := tx.Model(&models.Accommodation{}).
			Where("id = ? AND rating_count > 0", accommodationID).
			Update("average_rating",
				gorm.Expr("(average_rating * rating_count - ? + ?) / rating_count", *previousValue, value))
		if res.Error != nil {
			return 0, 0, fmt.Errorf("failed to apply rating update: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Accommodation{}).
				Where("id = ?", accommodationID).
				Count(&count).Error; err != nil {
				return 0, 0, fmt.Errorf("db error checking accommodation %d: %w", accommodationID, err)
			}
			if count == 0 {
				return 0, 0, fmt.Errorf("accommodation %d: %w", accommodationID, ErrNotFound)
			}
			return 0, 0, fmt.Errorf("rating update for accommodation %d with no ratings: %w",
				accommodationID, ErrInvalidState)
		}
	}

	var acc models.Accommodation
	if err := tx.First(&acc, accommodationID).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to reload aggregate: %w", err)
	}
	return acc.AverageRating, acc.RatingCount, nil
}

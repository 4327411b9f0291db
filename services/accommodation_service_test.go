package services

import (
	"testing"

	"unihaven-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveIsExclusive(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	acc := seedAccommodation(t, db, nil)

	require.NoError(t, svc.Reserve(db, acc.ID))

	var reloaded models.Accommodation
	require.NoError(t, db.First(&reloaded, acc.ID).Error)
	assert.True(t, reloaded.IsReserved)

	err := svc.Reserve(db, acc.ID)
	assert.ErrorIs(t, err, ErrAlreadyReserved)
}

func TestReserveNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})

	err := svc.Reserve(db, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReleaseClearsFlagWhenNoActiveReservation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	acc := seedAccommodation(t, db, nil)

	require.NoError(t, svc.Reserve(db, acc.ID))
	require.NoError(t, svc.Release(db, acc.ID))

	var reloaded models.Accommodation
	require.NoError(t, db.First(&reloaded, acc.ID).Error)
	assert.False(t, reloaded.IsReserved)
}

func TestReleaseKeepsFlagWhileAnotherReservationHoldsUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	acc := seedAccommodation(t, db, nil)
	student := seedStudent(t, db, "holder@test.hk")

	require.NoError(t, svc.Reserve(db, acc.ID))
	require.NoError(t, db.Create(&models.Reservation{
		StudentID:       student.ID,
		AccommodationID: acc.ID,
		Status:          models.StatusConfirmed,
	}).Error)

	require.NoError(t, svc.Release(db, acc.ID))

	var reloaded models.Accommodation
	require.NoError(t, db.First(&reloaded, acc.ID).Error)
	assert.True(t, reloaded.IsReserved, "release must not clear the flag while an active reservation remains")
}

func TestApplyRatingFirstTimeAndUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	acc := seedAccommodation(t, db, nil)

	avg, count, err := svc.ApplyRating(db, acc.ID, 4, nil)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)
	assert.Equal(t, 1, count)

	// Update replaces the prior contribution, count unchanged.
	avg, count, err = svc.ApplyRating(db, acc.ID, 5, ptr(4))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, avg, 1e-9)
	assert.Equal(t, 1, count)

	// A second rater moves the mean.
	avg, count, err = svc.ApplyRating(db, acc.ID, 4, nil)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)
	assert.Equal(t, 2, count)
}

func TestApplyRatingUpdateWithoutPriorRatings(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	acc := seedAccommodation(t, db, nil)

	_, _, err := svc.ApplyRating(db, acc.ID, 3, ptr(2))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestApplyRatingNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})

	_, _, err := svc.ApplyRating(db, 424242, 3, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAccommodationGeocodesAddress(t *testing.T) {
	db := newTestDB(t)
	geo := &stubGeocoder{results: map[string]*GeoResult{
		"23 Sassoon Road": {GeoAddress: "GEOABC123", Latitude: 22.2675, Longitude: 114.12881},
	}}
	svc := NewAccommodationService(db, geo)
	specialist := seedSpecialist(t, db, "spec@test.hk")

	acc, err := svc.CreateAccommodation(specialist.ID, CreateAccommodationInput{
		Type:              models.TypeFlat,
		AvailabilityStart: "2026-09-01",
		AvailabilityEnd:   "2027-06-30",
		Beds:              3,
		Bedrooms:          2,
		Price:             1200,
		BuildingName:      "Sassoon Court",
		Address:           "23 Sassoon Road",
		FlatNumber:        "A",
		FloorNumber:       "7",
		OwnerName:         "Chan Tai Man",
		OwnerContact:      "98765432",
	})
	require.NoError(t, err)
	require.NotNil(t, acc.Latitude)
	assert.InDelta(t, 22.2675, *acc.Latitude, 1e-9)
	assert.Equal(t, "GEOABC123", acc.GeoAddress)
}

func TestCreateAccommodationSurvivesGeocoderOutage(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	specialist := seedSpecialist(t, db, "spec@test.hk")

	acc, err := svc.CreateAccommodation(specialist.ID, CreateAccommodationInput{
		Type:              models.TypeRoom,
		AvailabilityStart: "2026-09-01",
		AvailabilityEnd:   "2027-06-30",
		Beds:              1,
		Bedrooms:          1,
		Price:             450,
		BuildingName:      "Lee Garden",
		Address:           "1 Nowhere Street",
		FlatNumber:        "B",
		FloorNumber:       "2",
		OwnerName:         "Owner",
		OwnerContact:      "11112222",
	})
	require.NoError(t, err)
	assert.Nil(t, acc.Latitude)
	assert.Nil(t, acc.Longitude)
}

func TestUpdateAccommodationOutageClearsStaleGeoData(t *testing.T) {
	db := newTestDB(t)
	geo := &stubGeocoder{results: map[string]*GeoResult{
		"23 Sassoon Road": {GeoAddress: "GEOOLD", Latitude: 22.2675, Longitude: 114.12881},
	}}
	svc := NewAccommodationService(db, geo)
	specialist := seedSpecialist(t, db, "spec@test.hk")

	acc, err := svc.CreateAccommodation(specialist.ID, CreateAccommodationInput{
		Type:              models.TypeFlat,
		AvailabilityStart: "2026-09-01",
		AvailabilityEnd:   "2027-06-30",
		Beds:              3,
		Bedrooms:          2,
		Price:             1200,
		Address:           "23 Sassoon Road",
		FlatNumber:        "A",
		FloorNumber:       "7",
	})
	require.NoError(t, err)
	require.Equal(t, "GEOOLD", acc.GeoAddress)

	// Address changes but the geocoder is down: the old address's
	// geo_address must not survive on the new one.
	updated, err := svc.UpdateAccommodation(acc.ID, CreateAccommodationInput{
		Type:              models.TypeFlat,
		AvailabilityStart: "2026-09-01",
		AvailabilityEnd:   "2027-06-30",
		Beds:              3,
		Bedrooms:          2,
		Price:             1200,
		Address:           "9 High Street",
		FlatNumber:        "A",
		FloorNumber:       "7",
	})
	require.NoError(t, err)
	assert.Empty(t, updated.GeoAddress)
	assert.Nil(t, updated.Latitude)
	assert.Nil(t, updated.Longitude)
}

func TestCreateAccommodationValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	specialist := seedSpecialist(t, db, "spec@test.hk")

	base := CreateAccommodationInput{
		Type:              models.TypeRoom,
		AvailabilityStart: "2026-09-01",
		AvailabilityEnd:   "2027-06-30",
		Beds:              1,
		Bedrooms:          1,
		Price:             450,
		Address:           "1 Pokfulam Road",
		FlatNumber:        "C",
		FloorNumber:       "1",
	}

	bad := base
	bad.Type = "Penthouse"
	_, err := svc.CreateAccommodation(specialist.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidValue)

	bad = base
	bad.AvailabilityStart = "01/09/2026"
	_, err = svc.CreateAccommodation(specialist.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidValue)

	bad = base
	bad.AvailabilityStart = "2027-09-01"
	_, err = svc.CreateAccommodation(specialist.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidValue)

	bad = base
	bad.Price = 0
	_, err = svc.CreateAccommodation(specialist.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.CreateAccommodation(9999, base)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAccommodationRejectsDuplicateUnit(t *testing.T) {
	db := newTestDB(t)
	geo := &stubGeocoder{results: map[string]*GeoResult{
		"88 Bonham Road": {GeoAddress: "GEOSAME", Latitude: 22.28, Longitude: 114.14},
	}}
	svc := NewAccommodationService(db, geo)
	specialist := seedSpecialist(t, db, "spec@test.hk")

	in := CreateAccommodationInput{
		Type:              models.TypeRoom,
		AvailabilityStart: "2026-09-01",
		AvailabilityEnd:   "2027-06-30",
		Beds:              1,
		Bedrooms:          1,
		Price:             450,
		BuildingName:      "Bonham Mansion",
		Address:           "88 Bonham Road",
		RoomNumber:        "12",
		FlatNumber:        "D",
		FloorNumber:       "5",
		OwnerName:         "Owner",
		OwnerContact:      "33334444",
	}

	_, err := svc.CreateAccommodation(specialist.ID, in)
	require.NoError(t, err)

	_, err = svc.CreateAccommodation(specialist.ID, in)
	assert.ErrorIs(t, err, ErrDuplicateUnit)
}

func TestCreateOffering(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	acc := seedAccommodation(t, db, nil)
	campus := seedCampus(t, db, "Main Campus", 22.28405, 114.13784)
	specialist := seedSpecialist(t, db, "spec@test.hk")

	_, err := svc.CreateOffering(acc.ID, campus.ID, specialist.ID)
	require.NoError(t, err)

	// Same unit, same campus: one listing only.
	_, err = svc.CreateOffering(acc.ID, campus.ID, specialist.ID)
	assert.ErrorIs(t, err, ErrDuplicateOffering)

	// A second campus is fine.
	other := seedCampus(t, db, "Kadoorie Centre", 22.43022, 114.11429)
	_, err = svc.CreateOffering(acc.ID, other.ID, specialist.ID)
	assert.NoError(t, err)

	_, err = svc.CreateOffering(9999, campus.ID, specialist.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAccommodationBlockedByActiveReservation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccommodationService(db, &stubGeocoder{})
	acc := seedAccommodation(t, db, nil)
	student := seedStudent(t, db, "tenant@test.hk")

	require.NoError(t, db.Create(&models.Reservation{
		StudentID:       student.ID,
		AccommodationID: acc.ID,
		Status:          models.StatusPending,
	}).Error)

	err := svc.DeleteAccommodation(acc.ID)
	assert.ErrorIs(t, err, ErrAlreadyReserved)

	require.NoError(t, db.Model(&models.Reservation{}).
		Where("accommodation_id = ?", acc.ID).
		Update("status", models.StatusCanceled).Error)
	assert.NoError(t, svc.DeleteAccommodation(acc.ID))
}

package services

import (
	"testing"

	"unihaven-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatingFixture(t *testing.T, requireCompleted bool) (*RatingService, *models.Student, *models.Accommodation) {
	t.Helper()
	db := newTestDB(t)
	accSvc := NewAccommodationService(db, &stubGeocoder{})
	svc := NewRatingService(db, accSvc, requireCompleted)
	student := seedStudent(t, db, "alice@test.hk")
	acc := seedAccommodation(t, db, nil)
	return svc, student, acc
}

func TestSubmitRatingValueRange(t *testing.T) {
	svc, student, acc := newRatingFixture(t, false)

	_, err := svc.SubmitRating(student.ID, acc.ID, -1, "")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.SubmitRating(student.ID, acc.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSubmitRatingNotFound(t *testing.T) {
	svc, student, acc := newRatingFixture(t, false)

	_, err := svc.SubmitRating(9999, acc.ID, 3, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SubmitRating(student.ID, 9999, 3, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitRatingRequiresCompletedStay(t *testing.T) {
	svc, student, acc := newRatingFixture(t, true)
	db := svc.DB

	_, err := svc.SubmitRating(student.ID, acc.ID, 4, "")
	assert.ErrorIs(t, err, ErrNotCompleted)

	// An active reservation is not enough.
	res := models.Reservation{StudentID: student.ID, AccommodationID: acc.ID, Status: models.StatusConfirmed}
	require.NoError(t, db.Create(&res).Error)
	_, err = svc.SubmitRating(student.ID, acc.ID, 4, "")
	assert.ErrorIs(t, err, ErrNotCompleted)

	require.NoError(t, db.Model(&res).Update("status", models.StatusCompleted).Error)
	summary, err := svc.SubmitRating(student.ID, acc.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Value)
}

func TestSubmitRatingAggregateAcrossStudents(t *testing.T) {
	svc, alice, acc := newRatingFixture(t, false)
	db := svc.DB
	bob := seedStudent(t, db, "bob@test.hk")

	summary, err := svc.SubmitRating(alice.ID, acc.ID, 4, "fine")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, summary.Average, 1e-9)
	assert.Equal(t, 1, summary.Count)

	// Re-rating by the same student replaces, never duplicates.
	summary, err = svc.SubmitRating(alice.ID, acc.ID, 5, "great")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, summary.Average, 1e-9)
	assert.Equal(t, 1, summary.Count)

	summary, err = svc.SubmitRating(bob.ID, acc.ID, 4, "ok")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, summary.Average, 1e-9)
	assert.Equal(t, 2, summary.Count)

	// One row per (student, accommodation).
	var rows int64
	require.NoError(t, db.Model(&models.Rating{}).
		Where("accommodation_id = ?", acc.ID).
		Count(&rows).Error)
	assert.EqualValues(t, 2, rows)

	var reloaded models.Accommodation
	require.NoError(t, db.First(&reloaded, acc.ID).Error)
	assert.InDelta(t, 4.5, reloaded.AverageRating, 1e-9)
	assert.Equal(t, 2, reloaded.RatingCount)
}

func TestListForAccommodation(t *testing.T) {
	svc, alice, acc := newRatingFixture(t, false)

	_, err := svc.ListForAccommodation(9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SubmitRating(alice.ID, acc.ID, 5, "quiet, close to campus")
	require.NoError(t, err)

	list, err := svc.ListForAccommodation(acc.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Value)
	assert.Equal(t, alice.ID, list[0].Student.ID)
}

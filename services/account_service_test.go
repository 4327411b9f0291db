package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterStudent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)
	campus := seedCampus(t, db, "Main Campus", 22.28405, 114.13784)

	student, err := svc.RegisterStudent(RegisterInput{
		Name:     "Alice Wong",
		Email:    "Alice@Test.HK",
		Password: "s3cretpw",
		Contact:  "91234567",
		CampusID: &campus.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@test.hk", student.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.Password), []byte("s3cretpw")))

	// Unique email.
	_, err = svc.RegisterStudent(RegisterInput{
		Name:     "Alice Again",
		Email:    "alice@test.hk",
		Password: "s3cretpw",
	})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)

	_, err := svc.RegisterStudent(RegisterInput{Name: "", Email: "a@b.hk", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.RegisterStudent(RegisterInput{Name: "A", Email: "not-an-email", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = svc.RegisterStudent(RegisterInput{Name: "A", Email: "a@b.hk", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidValue)

	missing := uint(9999)
	_, err = svc.RegisterSpecialist(RegisterInput{
		Name:     "B",
		Email:    "b@b.hk",
		Password: "longenough",
		CampusID: &missing,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterSpecialist(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db)

	specialist, err := svc.RegisterSpecialist(RegisterInput{
		Name:     "CEDARS Specialist",
		Email:    "cedars@test.hk",
		Password: "s3cretpw",
	})
	require.NoError(t, err)
	assert.NotZero(t, specialist.ID)
}

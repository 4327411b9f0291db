package services

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"unihaven-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var unitSeq atomic.Uint64

// newTestDB opens an isolated in-memory database with the full schema.
// One connection only, so transactions serialize the way MySQL row locks
// would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Campus{},
		&models.Student{},
		&models.Specialist{},
		&models.Accommodation{},
		&models.AccommodationOffering{},
		&models.Reservation{},
		&models.Rating{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// stubGeocoder resolves from a fixed table and counts lookups.
type stubGeocoder struct {
	results map[string]*GeoResult
	calls   int
}

func (g *stubGeocoder) Lookup(address string) (*GeoResult, error) {
	g.calls++
	if r, ok := g.results[address]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("no suggestion for address: %w", ErrGeocoderUnavailable)
}

func seedCampus(t *testing.T, db *gorm.DB, name string, lat, lon float64) *models.Campus {
	t.Helper()
	c := &models.Campus{Name: name, Latitude: lat, Longitude: lon}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedStudent(t *testing.T, db *gorm.DB, email string) *models.Student {
	t.Helper()
	s := &models.Student{Name: "Student " + email, Email: email, Password: "x"}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedSpecialist(t *testing.T, db *gorm.DB, email string) *models.Specialist {
	t.Helper()
	s := &models.Specialist{Name: "Specialist " + email, Email: email, Password: "x"}
	require.NoError(t, db.Create(s).Error)
	return s
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

// seedAccommodation creates a Room with sane defaults; mutate overrides
// fields before the insert. The unit address fields are unique per call.
func seedAccommodation(t *testing.T, db *gorm.DB, mutate func(*models.Accommodation)) *models.Accommodation {
	t.Helper()

	n := unitSeq.Add(1)
	a := &models.Accommodation{
		Type:              models.TypeRoom,
		AvailabilityStart: date("2026-09-01"),
		AvailabilityEnd:   date("2027-06-30"),
		Beds:              2,
		Bedrooms:          1,
		Price:             500,
		BuildingName:      "Haking Wong Building",
		Address:           fmt.Sprintf("%d Pokfulam Road", n),
		GeoAddress:        fmt.Sprintf("GEO%06d", n),
		FlatNumber:        fmt.Sprintf("F%d", n),
		FloorNumber:       "3",
		OwnerName:         "Owner",
		OwnerContact:      "12345678",
	}
	if mutate != nil {
		mutate(a)
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

// services/search_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"unihaven-backend/models"
	"unihaven-backend/utils"

	"gorm.io/gorm"
)

// SearchParams are the raw query-string filters. Everything is a string
// so validation can report every malformed field in one pass.
type SearchParams struct {
	Type              string
	AvailabilityStart string
	AvailabilityEnd   string
	MinBeds           string
	MinBedrooms       string
	MaxPrice          string
	CampusID          string
	IsReserved        string
}

// SearchResult is one matching accommodation, with the distance to the
// chosen campus when one was given. A nil Distance means the location
// could not be resolved; such entries sort last.
type SearchResult struct {
	models.Accommodation
	Distance *float64 `json:"distance,omitempty"`
}

// searchFilters is SearchParams after validation.
type searchFilters struct {
	accType    string
	start, end *time.Time
	minBeds    *int
	minBedroom *int
	maxPrice   *float64
	campus     *models.Campus
	isReserved *bool
}

// SearchService filters accommodations and ranks them by distance to a
// campus. Accommodations without stored coordinates are geocoded once and
// the result persisted (cache-on-read).
type SearchService struct {
	DB       *gorm.DB
	Geocoder Geocoder
}

func NewSearchService(db *gorm.DB, geocoder Geocoder) *SearchService {
	return &SearchService{DB: db, Geocoder: geocoder}
}

// parseParams validates every filter and collects all problems before any
// accommodation row is read.
func (s *SearchService) parseParams(p SearchParams) (searchFilters, FieldErrors) {
	f := searchFilters{}
	ferrs := FieldErrors{}

	if v := strings.TrimSpace(p.Type); v != "" {
		if !models.ValidAccommodationType(v) {
			ferrs.Add("type", fmt.Sprintf("unknown accommodation type %q", v))
		} else {
			f.accType = v
		}
	}

	if v := strings.TrimSpace(p.AvailabilityStart); v != "" {
		if t, err := time.Parse("2006-01-02", v); err != nil {
			ferrs.Add("availability_start", "invalid date format, use YYYY-MM-DD")
		} else {
			f.start = &t
		}
	}
	if v := strings.TrimSpace(p.AvailabilityEnd); v != "" {
		if t, err := time.Parse("2006-01-02", v); err != nil {
			ferrs.Add("availability_end", "invalid date format, use YYYY-MM-DD")
		} else {
			f.end = &t
		}
	}
	if f.start != nil && f.end != nil && f.start.After(*f.end) {
		ferrs.Add("availability", "start date must be before end date")
	}

	if v := strings.TrimSpace(p.MinBeds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			ferrs.Add("min_beds", "a valid integer is required")
		} else if n < 1 {
			ferrs.Add("min_beds", "ensure this value is greater than or equal to 1")
		} else {
			f.minBeds = &n
		}
	}
	if v := strings.TrimSpace(p.MinBedrooms); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			ferrs.Add("min_bedrooms", "a valid integer is required")
		} else if n < 1 {
			ferrs.Add("min_bedrooms", "ensure this value is greater than or equal to 1")
		} else {
			f.minBedroom = &n
		}
	}
	if v := strings.TrimSpace(p.MaxPrice); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			ferrs.Add("max_price", "a valid number is required")
		} else if x < 0 {
			ferrs.Add("max_price", "ensure this value is greater than or equal to 0")
		} else {
			f.maxPrice = &x
		}
	}

	if v := strings.TrimSpace(p.IsReserved); v != "" {
		switch strings.ToLower(v) {
		case "true", "1":
			b := true
			f.isReserved = &b
		case "false", "0":
			b := false
			f.isReserved = &b
		default:
			ferrs.Add("is_reserved", "a valid boolean value is required (e.g. true, 1, false, 0)")
		}
	}

	if v := strings.TrimSpace(p.CampusID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 1 {
			ferrs.Add("campus", "invalid campus id")
		} else {
			var campus models.Campus
			if dbErr := s.DB.First(&campus, id).Error; dbErr != nil {
				if errors.Is(dbErr, gorm.ErrRecordNotFound) {
					ferrs.Add("campus", "invalid campus id")
				} else {
					ferrs.Add("campus", "campus lookup failed")
				}
			} else {
				f.campus = &campus
			}
		}
	}

	return f, ferrs
}

// Search applies the filters conjunctively, then ranks by distance to the
// campus when one was given. Without a campus the store's natural order is
// kept. Returns FieldErrors (batched) when any filter is malformed.
func (s *SearchService) Search(p SearchParams) ([]SearchResult, error) {
	f, ferrs := s.parseParams(p)
	if ferrs.Any() {
		return nil, ferrs
	}

	query := s.DB.Model(&models.Accommodation{})

	// Search serves booking, so reserved units are hidden unless the
	// caller filters on is_reserved explicitly.
	if f.isReserved != nil {
		query = query.Where("is_reserved = ?", *f.isReserved)
	} else {
		query = query.Where("is_reserved = ?", false)
	}

	if f.accType != "" {
		query = query.Where("type = ?", f.accType)
	}
	// A listing matches when its availability window overlaps the
	// requested one, not only when it contains it.
	if f.start != nil {
		query = query.Where("availability_end >= ?", *f.start)
	}
	if f.end != nil {
		query = query.Where("availability_start <= ?", *f.end)
	}
	if f.minBeds != nil {
		query = query.Where("beds >= ?", *f.minBeds)
	}
	if f.minBedroom != nil {
		query = query.Where("bedrooms >= ?", *f.minBedroom)
	}
	if f.maxPrice != nil {
		query = query.Where("price <= ?", *f.maxPrice)
	}

	var rows []models.Accommodation
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search accommodations: %w", err)
	}

	results := make([]SearchResult, 0, len(rows))
	for i := range rows {
		results = append(results, SearchResult{Accommodation: rows[i]})
	}

	if f.campus == nil {
		return results, nil
	}

	for i := range results {
		acc := &results[i].Accommodation
		if !acc.HasCoordinates() {
			s.geocodeAndCache(acc)
		}
		d := utils.DistanceKm(acc.Latitude, acc.Longitude, f.campus.Latitude, f.campus.Longitude)
		if !math.IsInf(d, 1) {
			dist := d
			results[i].Distance = &dist
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return distanceOrInf(results[i].Distance) < distanceOrInf(results[j].Distance)
	})

	return results, nil
}

func distanceOrInf(d *float64) float64 {
	if d == nil {
		return math.Inf(1)
	}
	return *d
}

// geocodeAndCache resolves missing coordinates once and persists them so
// the next search skips the external call. Both the lookup and the save
// are best-effort: a failure just leaves the unit distance-unknown.
func (s *SearchService) geocodeAndCache(acc *models.Accommodation) {
	geo, err := s.Geocoder.Lookup(acc.Address)
	if err != nil {
		log.Printf("warning: geocode failed for accommodation %d: %v", acc.ID, err)
		return
	}

	acc.Latitude = &geo.Latitude
	acc.Longitude = &geo.Longitude
	if acc.GeoAddress == "" {
		acc.GeoAddress = geo.GeoAddress
	}

	if err := s.DB.Model(&models.Accommodation{}).
		Where("id = ?", acc.ID).
		Updates(map[string]interface{}{
			"latitude":    geo.Latitude,
			"longitude":   geo.Longitude,
			"geo_address": acc.GeoAddress,
		}).Error; err != nil {
		log.Printf("warning: failed to cache coordinates for accommodation %d: %v", acc.ID, err)
	}
}

package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"unihaven-backend/utils"
)

// GeoResult is a resolved street address.
type GeoResult struct {
	GeoAddress string
	Latitude   float64
	Longitude  float64
}

// Geocoder resolves a street address to coordinates. Implementations are
// treated as unreliable: any failure surfaces as ErrGeocoderUnavailable
// and callers degrade to "unknown location" instead of failing.
type Geocoder interface {
	Lookup(address string) (*GeoResult, error)
}

// ALSGeocoder queries the Hong Kong Address Lookup Service
// (data.gov.hk). One request per lookup, first suggestion wins.
type ALSGeocoder struct {
	BaseURL string
	Client  *http.Client
}

func NewALSGeocoder() *ALSGeocoder {
	return &ALSGeocoder{
		BaseURL: utils.EnvOrDefault("ALS_LOOKUP_URL", "https://www.als.gov.hk/lookup"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// alsResponse mirrors the fragment of the ALS payload we read.
type alsResponse struct {
	SuggestedAddress []struct {
		Address struct {
			PremisesAddress struct {
				GeoAddress            string `json:"GeoAddress"`
				GeospatialInformation struct {
					Latitude  float64 `json:"Latitude"`
					Longitude float64 `json:"Longitude"`
				} `json:"GeospatialInformation"`
			} `json:"PremisesAddress"`
		} `json:"Address"`
	} `json:"SuggestedAddress"`
}

func (g *ALSGeocoder) Lookup(address string) (*GeoResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("empty address: %w", ErrGeocoderUnavailable)
	}

	q := url.Values{}
	q.Set("q", strings.ToUpper(address))
	q.Set("n", "1")

	req, err := http.NewRequest(http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", ErrGeocoderUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("address lookup failed: %v: %w", err, ErrGeocoderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("address lookup status %d: %w", resp.StatusCode, ErrGeocoderUnavailable)
	}

	var parsed alsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode lookup response: %v: %w", err, ErrGeocoderUnavailable)
	}
	if len(parsed.SuggestedAddress) == 0 {
		return nil, fmt.Errorf("no suggestion for address: %w", ErrGeocoderUnavailable)
	}

	premises := parsed.SuggestedAddress[0].Address.PremisesAddress
	return &GeoResult{
		GeoAddress: premises.GeoAddress,
		Latitude:   premises.GeospatialInformation.Latitude,
		Longitude:  premises.GeospatialInformation.Longitude,
	}, nil
}

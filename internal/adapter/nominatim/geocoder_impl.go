package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/user/listing-service/internal/repository"
)

// GeocoderImpl provides a concrete implementation for the Geocoder interface
// over the Nominatim reverse-geocoding JSON API.
type GeocoderImpl struct {
	baseURL string
	fetcher repository.Fetcher
}

// NewGeocoder creates a Nominatim client on top of the shared fetch
// capability.
func NewGeocoder(baseURL string, fetcher repository.Fetcher) *GeocoderImpl {
	return &GeocoderImpl{baseURL: baseURL, fetcher: fetcher}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// Reverse resolves a coordinate pair to a country code and address.
// An answer without a country code counts as no answer.
func (g *GeocoderImpl) Reverse(ctx context.Context, lat, lon float64) (*repository.Place, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	resp, err := g.fetcher.Fetch(ctx, repository.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/reverse?%s", g.baseURL, query.Encode()),
	})
	if err != nil {
		return nil, err
	}

	var decoded reverseResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, err
	}
	if decoded.Address.CountryCode == "" {
		return nil, nil
	}

	return &repository.Place{
		CountryCode: decoded.Address.CountryCode,
		Address:     decoded.DisplayName,
	}, nil
}

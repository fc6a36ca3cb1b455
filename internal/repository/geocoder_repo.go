package repository

import "context"

// Place is a reverse-geocoding result.
type Place struct {
	CountryCode string
	Address     string
}

// Geocoder resolves a coordinate pair to a country code and human address.
// A nil Place with a nil error means the geocoder had no answer.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
}

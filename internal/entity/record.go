package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source tells which ingestion path produced a record.
type Source string

const (
	SourceScraper Source = "scraper"
	SourceAPI     Source = "api"
)

// OfferType is what can be done with a listed property.
type OfferType string

const (
	OfferSell  OfferType = "SELL"
	OfferRent  OfferType = "RENT"
	OfferShare OfferType = "SHARE"
)

// Status of a listing: free, reserved, etc.
type Status string

const (
	StatusUnknown        Status = "UNKNOWN"
	StatusFree           Status = "FREE"
	StatusReserved       Status = "RESERVED"
	StatusInConstruction Status = "IN CONSTRUCTION"
	StatusSold           Status = "SOLD"
)

// Price is a positive amount with a currency code and an optional note.
type Price struct {
	Amount   float64 `bson:"price" json:"price"`
	Currency string  `bson:"currency" json:"currency"`
	Note     *string `bson:"note,omitempty" json:"note,omitempty"`
}

// Size holds usable and total areas in square meters.
type Size struct {
	Usable float64 `bson:"usable" json:"usable"`
	Total  float64 `bson:"total" json:"total"`
	Note   *string `bson:"note,omitempty" json:"note,omitempty"`
}

// Rooms is a positive room count with an optional note (e.g. "2+1").
type Rooms struct {
	Amount int     `bson:"amount" json:"amount"`
	Note   *string `bson:"note,omitempty" json:"note,omitempty"`
}

// GeoPoint is a GeoJSON-shaped point. Coordinates are [latitude, longitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a Point from a latitude/longitude pair.
func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lat, lon}}
}

// Location is where the property is. CountryCode must resolve in the
// reference country table; GPS and Address may be absent.
type Location struct {
	CountryCode string    `bson:"country_code" json:"country_code"`
	GPS         *GeoPoint `bson:"gps,omitempty" json:"gps,omitempty"`
	Address     *string   `bson:"address,omitempty" json:"address,omitempty"`
}

// Details is an optional set of boolean amenity flags. A Details value with
// every flag unknown must collapse to a nil *Details on the Record, never to
// an empty-but-present object.
type Details struct {
	Lift    *bool `bson:"lift,omitempty" json:"lift,omitempty"`
	Balcony *bool `bson:"balcony,omitempty" json:"balcony,omitempty"`
	Loggia  *bool `bson:"loggia,omitempty" json:"loggia,omitempty"`
	Terrace *bool `bson:"terrace,omitempty" json:"terrace,omitempty"`
	Garage  *bool `bson:"garage,omitempty" json:"garage,omitempty"`
	Parking *bool `bson:"parking,omitempty" json:"parking,omitempty"`
}

// Empty reports whether every amenity flag is unknown.
func (d Details) Empty() bool {
	return d.Lift == nil && d.Balcony == nil && d.Loggia == nil &&
		d.Terrace == nil && d.Garage == nil && d.Parking == nil
}

// Change is one append-only history entry: what changed and when.
type Change struct {
	What map[string]any `bson:"what" json:"what"`
	When time.Time      `bson:"when" json:"when"`
}

// Record is the canonical normalized listing.
type Record struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	URL         string             `bson:"url" json:"url"`
	Source      Source             `bson:"source" json:"source"`
	OfferType   OfferType          `bson:"offer_type" json:"offer_type"`
	Status      Status             `bson:"status" json:"status"`
	Price       Price              `bson:"price" json:"price"`
	Size        Size               `bson:"size" json:"size"`
	Rooms       Rooms              `bson:"rooms" json:"rooms"`
	Floor       *int               `bson:"floor,omitempty" json:"floor,omitempty"`
	Location    *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Details     *Details           `bson:"details,omitempty" json:"details,omitempty"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	Photos      []string           `bson:"photos" json:"photos"`
	History     []Change           `bson:"history" json:"history"`
}

// NewID generates the record identity. ObjectIDs embed the creation second,
// so the creation timestamp stays derivable from the id itself.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// Created derives the creation time from the record id, UTC.
// Returns the zero time for a record without an id.
func (r *Record) Created() time.Time {
	if r.ID.IsZero() {
		return time.Time{}
	}
	return r.ID.Timestamp().UTC()
}

// AppendChange records a change in the append-only history.
func (r *Record) AppendChange(what map[string]any, when time.Time) {
	r.History = append(r.History, Change{What: what, When: when.UTC()})
}

var (
	ErrEmptyURL          = errors.New("record URL is empty or not absolute")
	ErrUnknownEnumValue  = errors.New("unknown enum value")
	ErrNonPositiveValue  = errors.New("value must be strictly positive")
	ErrNegativeFloor     = errors.New("floor must not be negative")
	ErrUnknownCountry    = errors.New("country code does not resolve in the reference table")
	ErrInvalidCoordinate = errors.New("gps is not a valid (lat, lon) pair")
)

// Validate enforces every field-level invariant of the canonical record.
func (r *Record) Validate() error {
	parsed, err := url.Parse(r.URL)
	if err != nil || r.URL == "" || !parsed.IsAbs() {
		return ErrEmptyURL
	}

	switch r.Source {
	case SourceScraper, SourceAPI:
	default:
		return fmt.Errorf("%w: source %q", ErrUnknownEnumValue, r.Source)
	}
	switch r.OfferType {
	case OfferSell, OfferRent, OfferShare:
	default:
		return fmt.Errorf("%w: offer_type %q", ErrUnknownEnumValue, r.OfferType)
	}
	switch r.Status {
	case StatusUnknown, StatusFree, StatusReserved, StatusInConstruction, StatusSold:
	default:
		return fmt.Errorf("%w: status %q", ErrUnknownEnumValue, r.Status)
	}

	if r.Price.Amount <= 0 {
		return fmt.Errorf("%w: price %v", ErrNonPositiveValue, r.Price.Amount)
	}
	if strings.TrimSpace(r.Price.Currency) == "" {
		return errors.New("price currency is empty")
	}
	if r.Size.Usable <= 0 || r.Size.Total <= 0 {
		return fmt.Errorf("%w: size usable=%v total=%v", ErrNonPositiveValue, r.Size.Usable, r.Size.Total)
	}
	if r.Rooms.Amount <= 0 {
		return fmt.Errorf("%w: rooms %d", ErrNonPositiveValue, r.Rooms.Amount)
	}
	if r.Floor != nil && *r.Floor < 0 {
		return ErrNegativeFloor
	}

	if r.Location != nil {
		if !KnownCountry(r.Location.CountryCode) {
			return fmt.Errorf("%w: %q", ErrUnknownCountry, r.Location.CountryCode)
		}
		if gps := r.Location.GPS; gps != nil {
			lat, lon := gps.Coordinates[0], gps.Coordinates[1]
			if gps.Type != "Point" || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
				return ErrInvalidCoordinate
			}
		}
	}

	return nil
}

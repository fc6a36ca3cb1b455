package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *Record {
	floor := 3
	address := "Pri Kalvárii, Bratislava, Slovensko"
	description := "Nice flat"
	point := NewGeoPoint(48.148, 17.107)

	return &Record{
		ID:        NewID(),
		URL:       "https://www.yit.sk/predaj-bytov/bratislava/123",
		Source:    SourceScraper,
		OfferType: OfferSell,
		Status:    StatusFree,
		Price:     Price{Amount: 215000, Currency: "EUR"},
		Size:      Size{Usable: 62.5, Total: 71.2},
		Rooms:     Rooms{Amount: 3},
		Floor:     &floor,
		Location: &Location{
			CountryCode: "sk",
			GPS:         &point,
			Address:     &address,
		},
		Description: &description,
		Photos:      []string{},
		History:     []Change{},
	}
}

func TestRecordValidate(t *testing.T) {
	t.Run("valid record passes", func(t *testing.T) {
		require.NoError(t, validRecord().Validate())
	})

	t.Run("minimal record passes", func(t *testing.T) {
		record := validRecord()
		record.Floor = nil
		record.Location = nil
		record.Details = nil
		record.Description = nil
		require.NoError(t, record.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{"empty URL", func(r *Record) { r.URL = "" }, ErrEmptyURL},
		{"relative URL", func(r *Record) { r.URL = "/predaj-bytov/123" }, ErrEmptyURL},
		{"unknown source", func(r *Record) { r.Source = "feed" }, ErrUnknownEnumValue},
		{"unknown offer type", func(r *Record) { r.OfferType = "LEASE" }, ErrUnknownEnumValue},
		{"unknown status", func(r *Record) { r.Status = "PENDING" }, ErrUnknownEnumValue},
		{"zero price", func(r *Record) { r.Price.Amount = 0 }, ErrNonPositiveValue},
		{"negative price", func(r *Record) { r.Price.Amount = -1 }, ErrNonPositiveValue},
		{"zero usable size", func(r *Record) { r.Size.Usable = 0 }, ErrNonPositiveValue},
		{"zero total size", func(r *Record) { r.Size.Total = 0 }, ErrNonPositiveValue},
		{"zero rooms", func(r *Record) { r.Rooms.Amount = 0 }, ErrNonPositiveValue},
		{"negative floor", func(r *Record) { f := -1; r.Floor = &f }, ErrNegativeFloor},
		{"unknown country", func(r *Record) { r.Location.CountryCode = "zz" }, ErrUnknownCountry},
		{"latitude out of range", func(r *Record) { r.Location.GPS.Coordinates[0] = 95 }, ErrInvalidCoordinate},
		{"longitude out of range", func(r *Record) { r.Location.GPS.Coordinates[1] = -181 }, ErrInvalidCoordinate},
		{"gps type not Point", func(r *Record) { r.Location.GPS.Type = "LineString" }, ErrInvalidCoordinate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)
			assert.ErrorIs(t, record.Validate(), tt.wantErr)
		})
	}

	t.Run("empty currency", func(t *testing.T) {
		record := validRecord()
		record.Price.Currency = " "
		assert.Error(t, record.Validate())
	})
}

func TestKnownCountry(t *testing.T) {
	assert.True(t, KnownCountry("sk"))
	assert.True(t, KnownCountry("SK"))
	assert.True(t, KnownCountry("fi"))
	assert.False(t, KnownCountry("zz"))
	assert.False(t, KnownCountry(""))
}

func TestDetailsEmpty(t *testing.T) {
	assert.True(t, Details{}.Empty())

	yes := true
	assert.False(t, Details{Balcony: &yes}.Empty())
	assert.False(t, Details{Parking: &yes}.Empty())
}

func TestRecordCreated(t *testing.T) {
	t.Run("derived from id", func(t *testing.T) {
		record := &Record{ID: NewID()}
		created := record.Created()

		assert.Equal(t, time.UTC, created.Location())
		assert.WithinDuration(t, time.Now().UTC(), created, 5*time.Second)
	})

	t.Run("zero id means zero time", func(t *testing.T) {
		record := &Record{}
		assert.True(t, record.Created().IsZero())
	})
}

func TestAppendChange(t *testing.T) {
	record := validRecord()
	local := time.Date(2024, 5, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	record.AppendChange(map[string]any{"price": 200000}, local)

	require.Len(t, record.History, 1)
	assert.Equal(t, map[string]any{"price": 200000}, record.History[0].What)
	assert.Equal(t, time.UTC, record.History[0].When.Location())
	assert.True(t, record.History[0].When.Equal(local))
}

func TestNewGeoPoint(t *testing.T) {
	point := NewGeoPoint(48.148, 17.107)

	assert.Equal(t, "Point", point.Type)
	assert.Equal(t, [2]float64{48.148, 17.107}, point.Coordinates)
}

func TestNewPhotoRef(t *testing.T) {
	id := NewID()
	ref := NewPhotoRef(id, "https://cdn.yit.sk/images/photo.jpg?w=1200")

	assert.Equal(t, "https://cdn.yit.sk/images/photo.jpg?w=1200", ref.SourceURL)
	assert.Equal(t, id.Hex()+"/photo.jpg", ref.Key)
}

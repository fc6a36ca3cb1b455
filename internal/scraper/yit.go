package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/listing-service/internal/entity"
	"github.com/user/listing-service/internal/repository"
	"github.com/user/listing-service/pkg/utils"
)

const (
	yitName    = "yit.sk"
	yitBaseURL = "https://www.yit.sk"
	yitAPIURL  = yitBaseURL + "/api/v1/productsearch/apartments"
)

// YitSource scrapes flats for sale from the yit.sk product search API.
// Result pages are JSON; photo links live only on the per-item HTML page.
type YitSource struct {
	geocoder repository.Geocoder
	base     *url.URL
}

func NewYitSource(geocoder repository.Geocoder) *YitSource {
	base, _ := url.Parse(yitBaseURL)
	return &YitSource{geocoder: geocoder, base: base}
}

func (s *YitSource) Name() string { return yitName }

func (s *YitSource) PageRequest(index, size int) repository.Request {
	return repository.Request{
		Method: http.MethodPost,
		URL:    yitAPIURL,
		Body: map[string]any{
			"StartPage": index,
			"PageSize":  size,
		},
	}
}

// yitPage mirrors the product search response envelope.
type yitPage struct {
	TotalHits       *int `json:"TotalHits"`
	IsMoreAvailable bool `json:"IsMoreAvailable"`
	Hits            []struct {
		Fields map[string]any `json:"Fields"`
	} `json:"Hits"`
}

func (s *YitSource) ParsePage(data []byte) (*Page, error) {
	var envelope yitPage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	page := &Page{Total: envelope.TotalHits, More: envelope.IsMoreAvailable}
	for _, hit := range envelope.Hits {
		if hit.Fields == nil {
			return nil, fmt.Errorf("hit without Fields")
		}
		page.Items = append(page.Items, RawItem(hit.Fields))
	}
	return page, nil
}

// Include keeps selling apartments only: an item flagged as not-for-sale or
// as a rental is excluded before any detail-page fetch.
func (s *YitSource) Include(item RawItem) bool {
	forSale, _ := item["ProductItemForSale"].(bool)
	forRent, _ := item["ProductItemForRent"].(bool)
	return forSale && !forRent
}

func (s *YitSource) DetailURL(item RawItem) (string, error) {
	rel, ok := item["_Url"].(string)
	if !ok || rel == "" {
		return "", &repository.FieldMappingError{Adapter: yitName, Field: "_Url", Reason: "missing or not a string"}
	}
	return utils.ToAbsoluteURL(s.base, rel)
}

func (s *YitSource) Adapter(raw RawPayload) SourceAdapter {
	return &yitAdapter{raw: raw, geocoder: s.geocoder, base: s.base}
}

// yitAdapter maps one yit.sk raw payload to the canonical record.
type yitAdapter struct {
	raw      RawPayload
	geocoder repository.Geocoder
	base     *url.URL
}

func (a *yitAdapter) Name() string { return yitName }

func (a *yitAdapter) URL() (string, error) {
	rel, err := a.requiredString("_Url")
	if err != nil {
		return "", err
	}
	return utils.ToAbsoluteURL(a.base, rel)
}

func (a *yitAdapter) Origin() entity.Source { return entity.SourceScraper }

func (a *yitAdapter) OfferType() entity.OfferType { return entity.OfferSell }

// Status matches the (reservation-state, project-state) flag pair against a
// fixed priority table.
func (a *yitAdapter) Status() entity.Status {
	reservation, hasReservation := a.raw.Fields["ReservationStatusKey"]
	project, _ := a.raw.Fields["WebProjectStatusKey"].(string)

	switch {
	case reservation == "Free" && project == "ReadyToMoveIn":
		return entity.StatusFree
	case reservation == "Free" && project == "ToBeReady":
		return entity.StatusInConstruction
	case hasReservation && reservation != nil:
		return entity.StatusReserved
	default:
		return entity.StatusUnknown
	}
}

func (a *yitAdapter) Price() (entity.Price, error) {
	amount, err := a.requiredNumber("SalesPrice")
	if err != nil {
		return entity.Price{}, err
	}
	// Currency is not part of the response; yit.sk sells in Slovakia, so EUR.
	return entity.Price{Amount: amount, Currency: "EUR"}, nil
}

func (a *yitAdapter) Size() (entity.Size, error) {
	usable, err := a.requiredNumber("ApartmentSize")
	if err != nil {
		return entity.Size{}, err
	}
	total, err := a.requiredNumber("TotalAreaSize")
	if err != nil {
		return entity.Size{}, err
	}
	return entity.Size{Usable: usable, Total: total}, nil
}

// Rooms normalizes locale-formatted counts: "1,5" means one and a half rooms
// upstream; the comma becomes a dot and the value is truncated toward zero.
// Deliberately lossy.
func (a *yitAdapter) Rooms() (entity.Rooms, error) {
	var text string
	switch v := a.raw.Fields["NumberOfRooms"].(type) {
	case string:
		text = strings.ReplaceAll(v, ",", ".")
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return entity.Rooms{}, &repository.FieldMappingError{
			Adapter: yitName, Field: "NumberOfRooms", Reason: "missing or not a string",
		}
	}

	amount, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return entity.Rooms{}, &repository.FieldMappingError{
			Adapter: yitName, Field: "NumberOfRooms", Reason: "not a number: " + text,
		}
	}
	return entity.Rooms{Amount: int(amount)}, nil
}

func (a *yitAdapter) Floor() *int {
	value, ok := a.raw.Fields["FloorNumberCorrectedFrom"].(float64)
	if !ok {
		return nil
	}
	floor := int(value)
	return &floor
}

// Location reverse-geocodes the project coordinates. A non-numeric coordinate
// or an empty geocoder answer resolves to no location, never to an error.
func (a *yitAdapter) Location(ctx context.Context) *entity.Location {
	lat, latOK := a.raw.Fields["ProjectCoordinatesLatitude"].(float64)
	lon, lonOK := a.raw.Fields["ProjectCoordinatesLongitude"].(float64)
	if !latOK || !lonOK {
		return nil
	}

	place, err := a.geocoder.Reverse(ctx, lat, lon)
	if err != nil || place == nil {
		return nil
	}

	point := entity.NewGeoPoint(lat, lon)
	address := place.Address
	return &entity.Location{
		CountryCode: place.CountryCode,
		GPS:         &point,
		Address:     &address,
	}
}

func (a *yitAdapter) Details() *entity.Details {
	details := entity.Details{
		Balcony: a.optionalBool("BalconyKey"),
		Terrace: a.optionalBool("TerraceKey"),
	}
	if details.Empty() {
		return nil
	}
	return &details
}

// Description is the trimmed concatenation of the project-level and
// listing-level texts; absent only when both are empty.
func (a *yitAdapter) Description() *string {
	project, _ := a.raw.Fields["ProjectMarketingDescription"].(string)
	listing, _ := a.raw.Fields["MarketingDescription"].(string)
	combined := strings.TrimSpace(project + "\n" + listing)
	if combined == "" {
		return nil
	}
	return &combined
}

// Photos pulls lazy-loaded image links off the fetched detail page.
// Without a page handle photos are simply unavailable.
func (a *yitAdapter) Photos() []string {
	if a.raw.Page == nil {
		return nil
	}

	var photos []string
	a.raw.Page.Find("img[data-src]").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("data-src")
		if !ok || src == "" {
			return
		}
		if absolute, err := utils.ToAbsoluteURL(a.base, src); err == nil {
			src = absolute
		}
		photos = append(photos, src)
	})
	return photos
}

// ToRecord combines all accessor outputs into one validated record.
func (a *yitAdapter) ToRecord(ctx context.Context) (*entity.Record, error) {
	recordURL, err := a.URL()
	if err != nil {
		return nil, err
	}
	price, err := a.Price()
	if err != nil {
		return nil, err
	}
	size, err := a.Size()
	if err != nil {
		return nil, err
	}
	rooms, err := a.Rooms()
	if err != nil {
		return nil, err
	}

	record := &entity.Record{
		ID:          entity.NewID(),
		URL:         recordURL,
		Source:      a.Origin(),
		OfferType:   a.OfferType(),
		Status:      a.Status(),
		Price:       price,
		Size:        size,
		Rooms:       rooms,
		Floor:       a.Floor(),
		Location:    a.Location(ctx),
		Details:     a.Details(),
		Description: a.Description(),
		Photos:      a.Photos(),
		History:     []entity.Change{},
	}
	if record.Photos == nil {
		record.Photos = []string{}
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%s record for %s: %w", yitName, recordURL, err)
	}
	return record, nil
}

func (a *yitAdapter) requiredString(field string) (string, error) {
	value, ok := a.raw.Fields[field].(string)
	if !ok || value == "" {
		return "", &repository.FieldMappingError{Adapter: yitName, Field: field, Reason: "missing or not a string"}
	}
	return value, nil
}

func (a *yitAdapter) requiredNumber(field string) (float64, error) {
	value, ok := a.raw.Fields[field].(float64)
	if !ok {
		return 0, &repository.FieldMappingError{Adapter: yitName, Field: field, Reason: "missing or not a number"}
	}
	return value, nil
}

func (a *yitAdapter) optionalBool(field string) *bool {
	value, ok := a.raw.Fields[field].(bool)
	if !ok {
		return nil
	}
	return &value
}

package models

import "errors"

// ErrSourceUnavailable is returned by a listing source when the marketplace
// page could not be fetched or parsed. The monitoring loop treats it as a
// skipped cycle, never as a fatal condition.
var ErrSourceUnavailable = errors.New("listing source unavailable")

// Brand is the coarse phone brand bucket used by the filter.
type Brand string

const (
	BrandIPhone  Brand = "iPhone"
	BrandSamsung Brand = "Samsung"
	BrandOther   Brand = "Other"
)

// RawListing is a single scraped marketplace result before normalization.
// Produced fresh each poll cycle and discarded once normalized.
type RawListing struct {
	Title       string
	PriceText   string
	Location    string
	URL         string
	Description string
}

// Listing is the normalized, structured form of a marketplace offer.
type Listing struct {
	ID          string `validate:"required"`
	Title       string `validate:"required"`
	Brand       Brand  `validate:"required"`
	Model       string
	Price       int    `validate:"gte=0"` // whole pounds
	Currency    string `validate:"required"`
	Location    string
	Storage     string
	Condition   string
	URL         string `validate:"omitempty,url"`
	Description string
}

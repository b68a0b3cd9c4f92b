package monitor

import (
	"context"

	"marketplace-phone-bot/internal/models"
)

// ListingSource abstracts the marketplace scraping layer.
type ListingSource interface {
	Fetch(ctx context.Context, terms []string, locations []string) ([]models.RawListing, error)
}

// Notifier abstracts the outbound notification layer.
type Notifier interface {
	Notify(ctx context.Context, listing models.Listing) error
}

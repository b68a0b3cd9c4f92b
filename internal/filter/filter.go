package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"marketplace-phone-bot/internal/config"
	"marketplace-phone-bot/internal/models"
	"marketplace-phone-bot/internal/util"
)

// Terms that mark a listing as an accessory rather than a phone.
var excludeTerms = []string{
	"case", "cover", "charger", "cable", "screen protector", "warranty", "accessories",
}

var (
	poundPriceRegex    = regexp.MustCompile(`£(\d+)`)
	fallbackPriceRegex = regexp.MustCompile(`[$€]?(\d+)`)
	storageRegex       = regexp.MustCompile(`(\d+)(gb|tb)`)
)

var iphoneModels = []string{"15", "14", "13", "12", "11", "xs", "xr", "x", "se"}

var samsungModels = []string{"s24", "s23", "s22", "s21", "note", "a54", "a34"}

var conditionTerms = []string{"new", "excellent", "good", "fair", "poor", "refurbished", "unlocked"}

// Fingerprint derives the stable deduplication id of a listing from its
// title, price text and URL. The same raw listing always hashes to the same
// id regardless of scrape order.
func Fingerprint(title, priceText, url string) string {
	hash := sha256.Sum256([]byte(title + "|" + priceText + "|" + url))
	return hex.EncodeToString(hash[:])
}

// Normalize maps a raw scraped listing to a structured Listing. It returns
// nil when the listing has no recognizable brand or no parseable price, or
// when it is an accessory rather than a phone. A nil result is an expected
// filtering outcome, not an error.
func Normalize(raw models.RawListing) *models.Listing {
	combined := strings.ToLower(raw.Title + " " + raw.Description)
	titleLower := strings.ToLower(raw.Title)

	for _, term := range excludeTerms {
		if strings.Contains(titleLower, term) {
			return nil
		}
	}

	brand, model := extractBrandModel(combined)
	if brand == models.BrandOther && !strings.Contains(combined, "phone") {
		return nil
	}

	price, ok := extractPrice(raw.PriceText)
	if !ok {
		return nil
	}

	listing := &models.Listing{
		ID:          Fingerprint(raw.Title, raw.PriceText, raw.URL),
		Title:       raw.Title,
		Brand:       brand,
		Model:       model,
		Price:       price,
		Currency:    "GBP",
		Location:    raw.Location,
		URL:         raw.URL,
		Description: raw.Description,
	}

	if m := storageRegex.FindStringSubmatch(combined); m != nil {
		listing.Storage = m[1] + strings.ToUpper(m[2])
	}
	for _, cond := range conditionTerms {
		if strings.Contains(combined, cond) {
			listing.Condition = strings.ToUpper(cond[:1]) + cond[1:]
			break
		}
	}

	return listing
}

// Matches reports whether a normalized listing satisfies the configured
// price range, brand set and location keywords. Pure predicate.
func Matches(l *models.Listing, cfg *config.Config) bool {
	if l.Price < cfg.MinPrice || l.Price > cfg.MaxPrice {
		return false
	}
	if !cfg.Brands()[l.Brand] {
		return false
	}
	location := strings.ToLower(l.Location)
	for _, keyword := range cfg.Locations {
		if strings.Contains(location, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func extractBrandModel(combined string) (models.Brand, string) {
	switch {
	case strings.Contains(combined, "iphone"):
		for _, m := range iphoneModels {
			if strings.Contains(combined, "iphone "+m) || strings.Contains(combined, "iphone"+m) {
				return models.BrandIPhone, strings.ToUpper(m)
			}
		}
		return models.BrandIPhone, ""
	case strings.Contains(combined, "samsung"), strings.Contains(combined, "galaxy"):
		for _, m := range samsungModels {
			if strings.Contains(combined, m) {
				return models.BrandSamsung, strings.ToUpper(m)
			}
		}
		return models.BrandSamsung, ""
	default:
		return models.BrandOther, ""
	}
}

// extractPrice prefers pound-denominated prices and falls back to bare or
// dollar/euro-marked numbers, mirroring the listing pages which mix formats.
func extractPrice(priceText string) (int, bool) {
	if m := poundPriceRegex.FindStringSubmatch(priceText); m != nil {
		return util.SafeAtoi(m[1]), true
	}
	if m := fallbackPriceRegex.FindStringSubmatch(priceText); m != nil && m[1] != "" {
		return util.SafeAtoi(m[1]), true
	}
	return 0, false
}

// FormatPrice renders a price in the canonical display form.
func FormatPrice(price int) string {
	return fmt.Sprintf("£%d", price)
}

package filter

import (
	"testing"

	"marketplace-phone-bot/internal/config"
	"marketplace-phone-bot/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		MinPrice:   0,
		MaxPrice:   200,
		BrandNames: []string{"iPhone", "Samsung"},
		Locations:  []string{"UK"},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawListing
		want *models.Listing
	}{
		{
			name: "iPhone with storage and condition",
			raw: models.RawListing{
				Title:     "iPhone 13 128GB Unlocked - Excellent Condition",
				PriceText: "£180",
				Location:  "London, UK",
				URL:       "https://facebook.com/marketplace/item/1",
			},
			want: &models.Listing{
				Brand:     models.BrandIPhone,
				Model:     "13",
				Price:     180,
				Currency:  "GBP",
				Storage:   "128GB",
				Condition: "Excellent",
			},
		},
		{
			name: "Samsung Galaxy",
			raw: models.RawListing{
				Title:     "Samsung Galaxy S22 256GB Black",
				PriceText: "£175",
				Location:  "Liverpool, Merseyside",
			},
			want: &models.Listing{
				Brand:    models.BrandSamsung,
				Model:    "S22",
				Price:    175,
				Currency: "GBP",
				Storage:  "256GB",
			},
		},
		{
			name: "galaxy keyword without samsung",
			raw: models.RawListing{
				Title:     "Galaxy A54 5G great battery",
				PriceText: "£130",
			},
			want: &models.Listing{
				Brand:    models.BrandSamsung,
				Model:    "A54",
				Price:    130,
				Currency: "GBP",
			},
		},
		{
			name: "fallback currency symbol",
			raw: models.RawListing{
				Title:     "iPhone 12 good condition",
				PriceText: "$150",
			},
			want: &models.Listing{
				Brand:     models.BrandIPhone,
				Model:     "12",
				Price:     150,
				Currency:  "GBP",
				Condition: "Good",
			},
		},
		{
			name: "accessory excluded",
			raw: models.RawListing{
				Title:     "iPhone 13 case - brand new",
				PriceText: "£10",
			},
			want: nil,
		},
		{
			name: "no parseable price",
			raw: models.RawListing{
				Title:     "iPhone 14 128GB",
				PriceText: "Price not available",
			},
			want: nil,
		},
		{
			name: "not a phone",
			raw: models.RawListing{
				Title:     "Wooden dining table",
				PriceText: "£80",
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Normalize() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Normalize() = nil, want listing")
			}
			if got.Brand != tt.want.Brand {
				t.Errorf("Brand = %q, want %q", got.Brand, tt.want.Brand)
			}
			if got.Model != tt.want.Model {
				t.Errorf("Model = %q, want %q", got.Model, tt.want.Model)
			}
			if got.Price != tt.want.Price {
				t.Errorf("Price = %d, want %d", got.Price, tt.want.Price)
			}
			if got.Currency != "GBP" {
				t.Errorf("Currency = %q, want GBP", got.Currency)
			}
			if got.Storage != tt.want.Storage {
				t.Errorf("Storage = %q, want %q", got.Storage, tt.want.Storage)
			}
			if got.Condition != tt.want.Condition {
				t.Errorf("Condition = %q, want %q", got.Condition, tt.want.Condition)
			}
			if got.ID == "" {
				t.Error("ID should be set by Normalize")
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := models.RawListing{
		Title:     "iPhone 12 64GB White - Good Condition",
		PriceText: "£140",
		Location:  "Manchester, Greater Manchester",
		URL:       "https://facebook.com/marketplace/item/iphone12white",
	}

	first := Normalize(raw)
	second := Normalize(raw)
	if first == nil || second == nil {
		t.Fatal("Normalize() returned nil for valid listing")
	}
	if *first != *second {
		t.Errorf("Normalize() is not deterministic: %+v vs %+v", first, second)
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint("iPhone 12, £150, London", "£150", "https://example.com/item")
	b := Fingerprint("iPhone 12, £150, London", "£150", "https://example.com/item")
	if a != b {
		t.Errorf("Fingerprint not stable: %s vs %s", a, b)
	}
	if a == Fingerprint("iPhone 12, £150, London", "£160", "https://example.com/item") {
		t.Error("Fingerprint should change when price changes")
	}
}

func TestMatches(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name    string
		listing models.Listing
		want    bool
	}{
		{
			name:    "in range iPhone in UK",
			listing: models.Listing{Brand: models.BrandIPhone, Price: 150, Location: "London, UK"},
			want:    true,
		},
		{
			name:    "price above max",
			listing: models.Listing{Brand: models.BrandIPhone, Price: 250, Location: "London, UK"},
			want:    false,
		},
		{
			name:    "price at max boundary",
			listing: models.Listing{Brand: models.BrandSamsung, Price: 200, Location: "Leeds, UK"},
			want:    true,
		},
		{
			name:    "price at min boundary",
			listing: models.Listing{Brand: models.BrandIPhone, Price: 0, Location: "Leeds, UK"},
			want:    true,
		},
		{
			name:    "brand not configured",
			listing: models.Listing{Brand: models.BrandOther, Price: 100, Location: "London, UK"},
			want:    false,
		},
		{
			name:    "location keyword case-insensitive",
			listing: models.Listing{Brand: models.BrandIPhone, Price: 100, Location: "somewhere, uk"},
			want:    true,
		},
		{
			name:    "location not matched",
			listing: models.Listing{Brand: models.BrandIPhone, Price: 100, Location: "Dublin, Ireland"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(&tt.listing, cfg); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(150); got != "£150" {
		t.Errorf("FormatPrice(150) = %q, want £150", got)
	}
}

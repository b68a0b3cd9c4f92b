package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"marketplace-phone-bot/internal/models"
)

// Config holds all runtime parameters. Loaded once at startup, immutable
// afterwards.
type Config struct {
	WebhookURL      string `validate:"required,url"`
	Interval        time.Duration
	IntervalSeconds int      `validate:"gt=0"`
	MinPrice        int      `validate:"gte=0,ltefield=MaxPrice"`
	MaxPrice        int      `validate:"gte=0"`
	Locations       []string `validate:"min=1"`
	BrandNames      []string `validate:"min=1"`
	MaxSeenListings int      `validate:"gt=0"`
	BaseURL         string   `validate:"omitempty,url"`
	BrowserFallback bool
}

func Load() (*Config, error) {
	webhookURL := os.Getenv("WEBHOOK_URL")

	intervalSeconds, err := intEnv("MONITOR_INTERVAL", 30)
	if err != nil {
		return nil, err
	}
	minPrice, err := intEnv("MIN_PRICE", 0)
	if err != nil {
		return nil, err
	}
	maxPrice, err := intEnv("MAX_PRICE", 200)
	if err != nil {
		return nil, err
	}
	maxSeen, err := intEnv("MAX_SEEN_LISTINGS", 1000)
	if err != nil {
		return nil, err
	}

	locationFilter := os.Getenv("LOCATION_FILTER")
	if locationFilter == "" {
		locationFilter = "UK"
	}

	brandFilter := os.Getenv("BRAND_FILTER")
	if brandFilter == "" {
		brandFilter = "iPhone,Samsung"
	}

	baseURL := os.Getenv("MARKETPLACE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.facebook.com/marketplace"
	}

	cfg := &Config{
		WebhookURL:      webhookURL,
		Interval:        time.Duration(intervalSeconds) * time.Second,
		IntervalSeconds: intervalSeconds,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		Locations:       splitList(locationFilter),
		BrandNames:      splitList(brandFilter),
		MaxSeenListings: maxSeen,
		BaseURL:         baseURL,
		BrowserFallback: os.Getenv("BROWSER_FALLBACK") != "",
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("Configuration loaded",
		"interval", cfg.Interval,
		"min_price", cfg.MinPrice,
		"max_price", cfg.MaxPrice,
		"brands", cfg.BrandNames,
		"locations", cfg.Locations)
	return cfg, nil
}

// Brands returns the configured brand names as a membership set keyed by
// models.Brand.
func (c *Config) Brands() map[models.Brand]bool {
	set := make(map[models.Brand]bool, len(c.BrandNames))
	for _, name := range c.BrandNames {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "iphone":
			set[models.BrandIPhone] = true
		case "samsung", "galaxy":
			set[models.BrandSamsung] = true
		default:
			set[models.BrandOther] = true
		}
	}
	return set
}

// SearchTerms expands the configured brands into the marketplace search
// keywords used by the listing source.
func (c *Config) SearchTerms() []string {
	var terms []string
	for _, name := range c.BrandNames {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "iphone":
			terms = append(terms,
				"iPhone 15", "iPhone 14", "iPhone 13", "iPhone 12",
				"iPhone 11", "iPhone XS", "iPhone XR", "iPhone X",
				"iPhone SE", "iPhone Pro", "iPhone Plus", "iPhone Mini")
		case "samsung", "galaxy":
			terms = append(terms,
				"Samsung Galaxy S24", "Samsung Galaxy S23", "Samsung Galaxy S22",
				"Samsung Galaxy S21", "Samsung Galaxy Note", "Samsung Galaxy A",
				"Samsung Galaxy Z", "Galaxy S24", "Galaxy S23", "Galaxy S22")
		default:
			terms = append(terms, strings.TrimSpace(name))
		}
	}
	return terms
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marketplace-phone-bot/internal/config"
	"marketplace-phone-bot/internal/models"
)

// Source produces one finite batch of raw candidate listings per call.
type Source interface {
	Fetch(ctx context.Context, terms []string, locations []string) ([]models.RawListing, error)
}

type Client struct {
	baseURL   string
	loaders   []PageLoader
	selectors SelectorConfig
}

// New builds a marketplace client with the plain HTTP strategy first and,
// when enabled, the headless-browser strategy as fallback.
func New(cfg *config.Config, selectors SelectorConfig) *Client {
	loaders := []PageLoader{newHTTPLoader()}
	if cfg.BrowserFallback {
		loaders = append(loaders, newBrowserLoader())
	}
	return NewWithLoaders(cfg.BaseURL, selectors, loaders...)
}

// NewWithLoaders builds a client with an explicit strategy order. Used by
// tests to inject fake loaders.
func NewWithLoaders(baseURL string, selectors SelectorConfig, loaders ...PageLoader) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		loaders:   loaders,
		selectors: selectors,
	}
}

// Fetch retrieves the search result pages for every term sequentially and
// returns the combined batch. It fails with models.ErrSourceUnavailable only
// when no term produced any listings.
func (c *Client) Fetch(ctx context.Context, terms []string, locations []string) ([]models.RawListing, error) {
	var all []models.RawListing
	var lastErr error

	for _, term := range terms {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		pageURL := c.searchURL(term, locations)
		doc, err := c.loadPage(ctx, pageURL)
		if err != nil {
			slog.Warn("Search page fetch failed", "term", term, "error", err)
			lastErr = err
			continue
		}
		listings, err := c.parseListings(doc)
		if err != nil {
			slog.Warn("Search page parse failed", "term", term, "error", err)
			lastErr = err
			continue
		}
		slog.Debug("Parsed search results", "term", term, "count", len(listings))
		all = append(all, listings...)
	}

	if len(all) == 0 && lastErr != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, lastErr)
	}
	return all, nil
}

// loadPage tries each page-load strategy in order; the first success wins.
func (c *Client) loadPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error
	for _, loader := range c.loaders {
		doc, err := loader.Load(ctx, pageURL)
		if err == nil {
			return doc, nil
		}
		slog.Debug("Page load strategy failed", "strategy", loader.Name(), "url", pageURL, "error", err)
		lastErr = err
	}
	return nil, fmt.Errorf("all page load strategies failed for %s: %w", pageURL, lastErr)
}

func (c *Client) searchURL(term string, locations []string) string {
	query := term
	if len(locations) > 0 {
		query = term + " " + locations[0]
	}
	return c.baseURL + "/search?query=" + url.QueryEscape(query)
}

func (c *Client) parseListings(doc *goquery.Document) ([]models.RawListing, error) {
	sel := c.selectors.ListingList

	if doc.Find(sel.Container.Item).Length() == 0 {
		return nil, fmt.Errorf("no %q elements found; potential block or page structure change", sel.Container.Item)
	}

	var listings []models.RawListing
	doc.Find(sel.Container.Item).Each(func(_ int, s *goquery.Selection) {
		if sel.Container.IgnoreModifier != "" && s.Is(sel.Container.IgnoreModifier) {
			return
		}

		var raw models.RawListing

		titleLink := s.Find(sel.Elements.TitleLink)
		if titleLink.Length() > 0 {
			raw.Title = strings.TrimSpace(titleLink.Text())
			if href, exists := titleLink.Attr("href"); exists {
				raw.URL = c.absoluteURL(href)
			}
		}
		raw.PriceText = strings.TrimSpace(s.Find(sel.Elements.Price).Text())
		raw.Location = strings.TrimSpace(s.Find(sel.Elements.Location).Text())
		raw.Description = strings.TrimSpace(s.Find(sel.Elements.Description).Text())

		if raw.Title == "" {
			return
		}
		listings = append(listings, raw)
	})

	return listings, nil
}

func (c *Client) absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		base, err := url.Parse(c.baseURL)
		if err == nil {
			return base.Scheme + "://" + base.Host + href
		}
	}
	return href
}

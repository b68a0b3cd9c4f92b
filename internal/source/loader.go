package source

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

//go:embed selectors.json
var embeddedSelectors embed.FS

// LoadConfig tries to load selectors in the following order:
// 1. Embedded selectors.json
// 2. External file defined by SELECTORS_CONFIG_PATH (or default "config/selectors.json")
// 3. Hardcoded defaults
func LoadConfig() SelectorConfig {
	data, err := embeddedSelectors.ReadFile("selectors.json")
	if err == nil {
		sel, parseErr := LoadSelectorsFromBytes(data)
		if parseErr == nil {
			slog.Info("Loaded selectors from embedded config.")
			return sel
		}
		slog.Warn("Embedded selectors failed to parse. Trying file fallback.", "error", parseErr)
	}

	configPath := os.Getenv("SELECTORS_CONFIG_PATH")
	if configPath == "" {
		configPath = "config/selectors.json"
	}
	if fileSel, err := LoadSelectors(configPath); err == nil {
		slog.Info("Loaded selectors from external file", "path", configPath)
		return fileSel
	}

	slog.Info("Using hardcoded default selectors")
	return DefaultSelectors()
}

// PageLoader fetches a marketplace page and returns it as a parsed document.
// Implementations are tried in order; the first success wins.
type PageLoader interface {
	Name() string
	Load(ctx context.Context, url string) (*goquery.Document, error)
}

// httpLoader is the primary strategy: a plain GET with browser-like headers.
type httpLoader struct {
	client *http.Client
}

func newHTTPLoader() *httpLoader {
	return &httpLoader{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (l *httpLoader) Name() string { return "http" }

func (l *httpLoader) Load(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")

	res, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL %s: status code %d", url, res.StatusCode)
	}
	return goquery.NewDocumentFromReader(res.Body)
}

// browserLoader is the fallback strategy: render the page in a headless
// browser so script-built listing markup is present in the document.
type browserLoader struct {
	timeout time.Duration
}

func newBrowserLoader() *browserLoader {
	return &browserLoader{timeout: 60 * time.Second}
}

func (l *browserLoader) Name() string { return "browser" }

func (l *browserLoader) Load(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("browser render of %s failed: %w", url, err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

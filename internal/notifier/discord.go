package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"marketplace-phone-bot/internal/filter"
	"marketplace-phone-bot/internal/models"
	"marketplace-phone-bot/internal/util"
)

const (
	colorBargain  = 0x00FF00 // <= £100
	colorMidRange = 0xFFFF00 // <= £150
	colorUpper    = 0xFF6600
	colorStatus   = 0x0099FF

	priceBandBargain  = 100
	priceBandMidRange = 150

	senderName      = "Marketplace Monitor"
	senderAvatarURL = "https://cdn.jsdelivr.net/npm/feather-icons@4.28.0/icons/smartphone.svg"
	footerText      = "Facebook Marketplace UK • Phone Monitor Bot"
)

type Client struct {
	webhookURL  string
	client      *http.Client
	rateLimiter *rate.Limiter
}

func New(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		// Discord webhooks tolerate roughly one message per second.
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Internal structures
type webhookPayload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Embeds    []embed `json:"embeds"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedFooter struct {
	Text string `json:"text,omitempty"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      embedFooter  `json:"footer,omitempty"`
}

// Notify renders a listing into a webhook embed and performs exactly one
// delivery attempt. A failed delivery is the caller's to log; there is no
// retry and no rollback of dedup state.
func (c *Client) Notify(ctx context.Context, listing models.Listing) error {
	return c.post(ctx, formatListingEmbed(listing))
}

// NotifyStatus sends an operator-facing status embed (startup, shutdown).
func (c *Client) NotifyStatus(ctx context.Context, message string, color int) error {
	if color == 0 {
		color = colorStatus
	}
	return c.post(ctx, embed{
		Title:       "📱 Marketplace Monitor Status",
		Description: message,
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      embedFooter{Text: footerText},
	})
}

func formatListingEmbed(listing models.Listing) embed {
	description := fmt.Sprintf("**%s**", filter.FormatPrice(listing.Price))
	if listing.Description != "" {
		desc := listing.Description
		if len(desc) > 200 {
			desc = desc[:200] + "..."
		}
		description += "\n\n" + desc
	}

	var fields []embedField
	if listing.Brand != models.BrandOther {
		fields = append(fields, embedField{Name: "📱 Brand", Value: string(listing.Brand), Inline: true})
	}
	if listing.Model != "" {
		fields = append(fields, embedField{Name: "📋 Model", Value: listing.Model, Inline: true})
	}
	if listing.Storage != "" {
		fields = append(fields, embedField{Name: "💾 Storage", Value: listing.Storage, Inline: true})
	}
	if listing.Condition != "" {
		fields = append(fields, embedField{Name: "✨ Condition", Value: listing.Condition, Inline: true})
	}
	location := listing.Location
	if location == "" {
		location = "UK"
	}
	fields = append(fields, embedField{Name: "📍 Location", Value: location, Inline: true})
	if listing.URL != "" {
		fields = append(fields, embedField{Name: "🔗 Source", Value: util.DisplayDomain(listing.URL), Inline: true})
	}

	return embed{
		Title:       "🔥 " + listing.Title,
		Description: description,
		URL:         listing.URL,
		Color:       priceColor(listing.Price),
		Fields:      fields,
		Footer:      embedFooter{Text: footerText},
	}
}

func priceColor(price int) int {
	switch {
	case price <= priceBandBargain:
		return colorBargain
	case price <= priceBandMidRange:
		return colorMidRange
	default:
		return colorUpper
	}
}

func (c *Client) post(ctx context.Context, e embed) error {
	payload := webhookPayload{
		Username:  senderName,
		AvatarURL: senderAvatarURL,
		Embeds:    []embed{e},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("webhook delivery failed: %s, body: %s", resp.Status, string(bodyBytes))
}

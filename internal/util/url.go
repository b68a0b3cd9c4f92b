package util

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DisplayDomain extracts the registrable domain of a URL for display
// purposes, e.g. "https://www.facebook.com/marketplace/item/1" -> "facebook.com".
// Returns "Link" when the URL is malformed or has no usable hostname.
func DisplayDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "Link"
	}
	hostname := parsed.Hostname()
	if hostname == "" {
		return "Link"
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		// Hosts like "localhost" have no public suffix; show them as-is.
		return strings.TrimPrefix(hostname, "www.")
	}
	return domain
}

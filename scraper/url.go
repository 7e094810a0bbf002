package scraper

import (
	"net/url"
	"strings"
)

// InvalidURL reports whether raw is unusable as a profile address: it must
// parse as an absolute http or https URL with a host.
func InvalidURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return true
	}
	return u.Host == ""
}

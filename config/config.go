package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Store     StoreConfig
	Mail      MailConfig
	Webhook   WebhookConfig
	Tracker   TrackerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP trigger server used by `solvetrack serve`.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls how headless Chromium is launched.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path in every runtime.
	BrowserBin string

	// ServerlessBin is the Chromium binary used when running on Lambda
	// and BrowserBin is unset.
	ServerlessBin string // default: "/opt/chromium"

	// UserAgent is the desktop user agent sent by every page.
	UserAgent string

	// ViewportWidth and ViewportHeight size every page.
	ViewportWidth  int // default: 1280
	ViewportHeight int // default: 720

	// LaunchTimeout bounds process start and CDP connect.
	LaunchTimeout time.Duration // default: 60s
}

// ScraperConfig controls navigation, retries and selector polling.
type ScraperConfig struct {
	// NavigationTimeout bounds navigation plus the network-idle wait.
	NavigationTimeout time.Duration // default: 45s

	// SettleDelay is waited after navigation for client-side rendering.
	SettleDelay time.Duration // default: 2s

	// LaunchRetries is the number of launch+navigate attempts.
	LaunchRetries int // default: 3

	// RetryBackoff is multiplied by the attempt number between attempts.
	RetryBackoff time.Duration // default: 3s

	// PollRetries is the number of selector checks before giving up.
	PollRetries int // default: 10

	// PollAttemptTimeout bounds a single selector check.
	PollAttemptTimeout time.Duration // default: 3s

	// PollInterval is slept between failed selector checks.
	PollInterval time.Duration // default: 1s

	// ListWaitTimeout bounds the explicit wait for the Codolio question list.
	ListWaitTimeout time.Duration // default: 30s
}

// StoreConfig selects the profile datastore.
type StoreConfig struct {
	// DSN is a sqlite path, ":memory:", or a libsql:// URL.
	DSN string // default: "solvetrack.db"

	// AuthToken is appended to libsql DSNs.
	AuthToken string
}

// MailConfig controls outbound SMTP delivery.
type MailConfig struct {
	Enabled  bool   // default: true
	Host     string // default: "smtp.gmail.com"
	Port     int    // default: 587
	Username string
	Password string
	From     string
	FromName string // default: "Profile Tracker"
}

// WebhookConfig enables an additional JSON notifier.
type WebhookConfig struct {
	URL    string
	Secret string
}

// TrackerConfig controls the orchestration loop.
type TrackerConfig struct {
	// DailyQuota is the number of problems expected per elapsed day.
	DailyQuota int // default: 3

	// ProfileDelay spaces consecutive profiles.
	ProfileDelay time.Duration // default: 2s

	// EmailDelay spaces consecutive emails.
	EmailDelay time.Duration // default: 1s
}

// AuthConfig controls API key authentication of the trigger endpoint.
type AuthConfig struct {
	Enabled bool // default: true
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting of the trigger endpoint.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 0.1
	Burst             int     // default: 1
}

// CacheConfig controls the single-site fetch cache of the API.
type CacheConfig struct {
	MaxEntries int           // default: 256
	TTL        time.Duration // default: 1h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent is a current desktop Chrome on Windows.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SOLVETRACK_HOST", "0.0.0.0"),
			Port: envIntOr("SOLVETRACK_PORT", 8080),
			Mode: envOr("SOLVETRACK_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("SOLVETRACK_HEADLESS", true),
			NoSandbox:      envBoolOr("SOLVETRACK_NO_SANDBOX", true),
			BrowserBin:     os.Getenv("SOLVETRACK_BROWSER_BIN"),
			ServerlessBin:  envOr("SOLVETRACK_SERVERLESS_BIN", "/opt/chromium"),
			UserAgent:      envOr("SOLVETRACK_USER_AGENT", DefaultUserAgent),
			ViewportWidth:  envIntOr("SOLVETRACK_VIEWPORT_WIDTH", 1280),
			ViewportHeight: envIntOr("SOLVETRACK_VIEWPORT_HEIGHT", 720),
			LaunchTimeout:  envDurationOr("SOLVETRACK_LAUNCH_TIMEOUT", 60*time.Second),
		},
		Scraper: ScraperConfig{
			NavigationTimeout:  envDurationOr("SOLVETRACK_NAV_TIMEOUT", 45*time.Second),
			SettleDelay:        envDurationOr("SOLVETRACK_SETTLE_DELAY", 2*time.Second),
			LaunchRetries:      envIntOr("SOLVETRACK_LAUNCH_RETRIES", 3),
			RetryBackoff:       envDurationOr("SOLVETRACK_RETRY_BACKOFF", 3*time.Second),
			PollRetries:        envIntOr("SOLVETRACK_POLL_RETRIES", 10),
			PollAttemptTimeout: envDurationOr("SOLVETRACK_POLL_TIMEOUT", 3*time.Second),
			PollInterval:       envDurationOr("SOLVETRACK_POLL_INTERVAL", time.Second),
			ListWaitTimeout:    envDurationOr("SOLVETRACK_LIST_WAIT_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			DSN:       envOr("SOLVETRACK_STORE_DSN", "solvetrack.db"),
			AuthToken: os.Getenv("SOLVETRACK_STORE_TOKEN"),
		},
		Mail: MailConfig{
			Enabled:  envBoolOr("SOLVETRACK_MAIL_ENABLED", true),
			Host:     envOr("SOLVETRACK_SMTP_HOST", "smtp.gmail.com"),
			Port:     envIntOr("SOLVETRACK_SMTP_PORT", 587),
			Username: envOr("SOLVETRACK_SMTP_USER", os.Getenv("EMAIL")),
			Password: envOr("SOLVETRACK_SMTP_PASSWORD", os.Getenv("PASSWORD")),
			From:     envOr("SOLVETRACK_MAIL_FROM", os.Getenv("EMAIL")),
			FromName: envOr("SOLVETRACK_MAIL_FROM_NAME", "Profile Tracker"),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("SOLVETRACK_WEBHOOK_URL"),
			Secret: os.Getenv("SOLVETRACK_WEBHOOK_SECRET"),
		},
		Tracker: TrackerConfig{
			DailyQuota:   envIntOr("SOLVETRACK_DAILY_QUOTA", 3),
			ProfileDelay: envDurationOr("SOLVETRACK_PROFILE_DELAY", 2*time.Second),
			EmailDelay:   envDurationOr("SOLVETRACK_EMAIL_DELAY", time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SOLVETRACK_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SOLVETRACK_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SOLVETRACK_RATE_RPS", 0.1),
			Burst:             envIntOr("SOLVETRACK_RATE_BURST", 1),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SOLVETRACK_CACHE_ENTRIES", 256),
			TTL:        envDurationOr("SOLVETRACK_CACHE_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("SOLVETRACK_LOG_LEVEL", "info"),
			Format: envOr("SOLVETRACK_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

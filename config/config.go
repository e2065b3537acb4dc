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
	Capture   CaptureConfig
	Analysis  AnalysisConfig
	Report    ReportConfig
	Regions   RegionsConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent region runs).
	MaxPages int // default: 4

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// CaptureConfig controls the capture engine.
type CaptureConfig struct {
	// OutputRoot is the base directory for run output.
	OutputRoot string // default: "out"

	// Profile is the default artifact-key profile: "details" or "sizefit".
	Profile string // default: "sizefit"

	// NavTimeout bounds page.Navigate plus the settle wait.
	NavTimeout time.Duration // default: 60s

	// RunTimeout bounds one region's entire capture session.
	RunTimeout time.Duration // default: 90s; max honored from clients: 300s

	// ClickTimeout bounds each overlay/section click attempt.
	ClickTimeout time.Duration // default: 2500ms

	// SettleDelay is the wait after expansion before the baseline shot.
	SettleDelay time.Duration // default: 400ms

	// SectionSettle is the wait after actuating a section trigger.
	SectionSettle time.Duration // default: 300ms

	// ModalSettle is the wait after opening a size-chart modal.
	ModalSettle time.Duration // default: 600ms

	// ViewportWidth and ViewportHeight set the emulated viewport.
	ViewportWidth  int // default: 1440
	ViewportHeight int // default: 900

	// ClipPadding expands a container's bounding box on all sides.
	ClipPadding float64 // default: 24

	// ClipMinHeight and ClipMaxHeight clamp clip rectangles. Accordion
	// triggers can be a few pixels tall before expansion and unbounded
	// after; the clamp keeps every clipped shot a legible rectangle.
	ClipMinHeight float64 // default: 240
	ClipMaxHeight float64 // default: 1800

	// MinContainerWidth rejects narrow label-only wrappers during the
	// ancestor walk for a section's clip container.
	MinContainerWidth float64 // default: 480

	// Preflight enables the utls reachability probe before opening a page.
	Preflight bool // default: true
}

// AnalysisConfig controls the findings call.
type AnalysisConfig struct {
	// APIKey authenticates against the OpenAI-compatible API. Required for
	// the analysis stage; capture-only use works without it.
	APIKey string

	// Model is the vision-capable model used for findings.
	Model string // default: "gpt-4o"

	// BaseURL overrides the API endpoint (any OpenAI-compatible API).
	BaseURL string

	// MaxTokens caps the completion size.
	MaxTokens int // default: 4096

	// Timeout bounds the analysis HTTP call.
	Timeout time.Duration // default: 120s
}

// ReportConfig controls PDF generation.
type ReportConfig struct {
	// Enabled toggles PDF generation after analysis.
	Enabled bool // default: true
}

// RegionsConfig controls region profile loading.
type RegionsConfig struct {
	// File is an optional YAML file overriding/extending built-in regions.
	File string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// CacheConfig controls the audit result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached region results.
	MaxEntries int // default: 500
}

// WebhookConfig controls server-level webhook delivery.
type WebhookConfig struct {
	// URL receives audit.completed / audit.failed events for every run.
	// Per-request webhook URLs are honored in addition.
	URL string

	// Secret signs webhook payloads with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PDPA_HOST", "0.0.0.0"),
			Port: envIntOr("PDPA_PORT", 8080),
			Mode: envOr("PDPA_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("PDPA_HEADLESS", true),
			MaxPages:     envIntOr("PDPA_MAX_PAGES", 4),
			DefaultProxy: os.Getenv("PDPA_PROXY"),
			NoSandbox:    envBoolOr("PDPA_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("PDPA_BROWSER_BIN"),
		},
		Capture: CaptureConfig{
			OutputRoot:        envOr("PDPA_OUTPUT_ROOT", "out"),
			Profile:           envOr("PDPA_CAPTURE_PROFILE", "sizefit"),
			NavTimeout:        envDurationOr("PDPA_NAV_TIMEOUT", 60*time.Second),
			RunTimeout:        envDurationOr("PDPA_RUN_TIMEOUT", 90*time.Second),
			ClickTimeout:      envDurationOr("PDPA_CLICK_TIMEOUT", 2500*time.Millisecond),
			SettleDelay:       envDurationOr("PDPA_SETTLE_DELAY", 400*time.Millisecond),
			SectionSettle:     envDurationOr("PDPA_SECTION_SETTLE", 300*time.Millisecond),
			ModalSettle:       envDurationOr("PDPA_MODAL_SETTLE", 600*time.Millisecond),
			ViewportWidth:     envIntOr("PDPA_VIEWPORT_WIDTH", 1440),
			ViewportHeight:    envIntOr("PDPA_VIEWPORT_HEIGHT", 900),
			ClipPadding:       envFloatOr("PDPA_CLIP_PADDING", 24),
			ClipMinHeight:     envFloatOr("PDPA_CLIP_MIN_HEIGHT", 240),
			ClipMaxHeight:     envFloatOr("PDPA_CLIP_MAX_HEIGHT", 1800),
			MinContainerWidth: envFloatOr("PDPA_MIN_CONTAINER_WIDTH", 480),
			Preflight:         envBoolOr("PDPA_PREFLIGHT", true),
		},
		Analysis: AnalysisConfig{
			APIKey:    os.Getenv("PDPA_OPENAI_API_KEY"),
			Model:     envOr("PDPA_ANALYSIS_MODEL", "gpt-4o"),
			BaseURL:   os.Getenv("PDPA_ANALYSIS_BASE_URL"),
			MaxTokens: envIntOr("PDPA_ANALYSIS_MAX_TOKENS", 4096),
			Timeout:   envDurationOr("PDPA_ANALYSIS_TIMEOUT", 120*time.Second),
		},
		Report: ReportConfig{
			Enabled: envBoolOr("PDPA_REPORT_ENABLED", true),
		},
		Regions: RegionsConfig{
			File: os.Getenv("PDPA_REGIONS_FILE"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PDPA_AUTH_ENABLED", true),
			APIKeys: envSliceOr("PDPA_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PDPA_RATE_RPS", 1.0),
			Burst:             envIntOr("PDPA_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("PDPA_CACHE_MAX_ENTRIES", 500),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("PDPA_WEBHOOK_URL"),
			Secret: os.Getenv("PDPA_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("PDPA_LOG_LEVEL", "info"),
			Format: envOr("PDPA_LOG_FORMAT", "json"),
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

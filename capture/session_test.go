package capture

import "testing"

func TestLocaleHeaders(t *testing.T) {
	headers := localeHeaders("en-GB")
	if got := headers["Accept-Language"].Str(); got != "en-GB,en;q=0.9" {
		t.Errorf("Accept-Language = %q, want %q", got, "en-GB,en;q=0.9")
	}

	headers = localeHeaders("de")
	if got := headers["Accept-Language"].Str(); got != "de" {
		t.Errorf("bare language tag = %q, want %q", got, "de")
	}
}

func TestLocaleHeaders_EmptyLocaleResets(t *testing.T) {
	// Pages are pooled across runs. A run without a locale must produce an
	// empty header map so setting it clears the previous run's headers
	// instead of inheriting them.
	headers := localeHeaders("")
	if len(headers) != 0 {
		t.Errorf("empty locale should yield no extra headers, got %v", headers)
	}
}

package capture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/launchlens/pdpaudit/models"
)

func productPageHTML() string {
	desc := strings.Repeat("Merino wool jumper in navy with ribbed cuffs and hem. ", 20)
	return `<html><head><script>var tracking = 1;</script><style>body{}</style></head>` +
		`<body><h1>Wool Jumper</h1><p>` + desc + `</p></body></html>`
}

func TestPreflight_ReachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPageHTML()))
	}))
	defer srv.Close()

	if err := preflight(context.Background(), srv.URL, ""); err != nil {
		t.Errorf("reachable host should pass preflight, got: %v", err)
	}
}

func TestPreflight_HTTPErrorIsNotFatal(t *testing.T) {
	// A 403 from a bare client often means bot detection; the browser with
	// stealth gets its chance.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if err := preflight(context.Background(), srv.URL, ""); err != nil {
		t.Errorf("HTTP error status should not fail preflight, got: %v", err)
	}
}

func TestPreflight_UnreachableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := preflight(ctx, "http://127.0.0.1:1", "")
	if err == nil {
		t.Fatal("unreachable host must fail preflight")
	}

	var auditErr *models.AuditError
	if !errors.As(err, &auditErr) {
		t.Fatalf("error type = %T, want *models.AuditError", err)
	}
	if auditErr.Code != models.ErrCodePreflight {
		t.Errorf("code = %q, want %q", auditErr.Code, models.ErrCodePreflight)
	}
}

func TestBotChallengeLikely(t *testing.T) {
	padding := strings.Repeat("plenty of ordinary product copy here ", 20)

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"normal page", "<html><body><p>" + padding + "</p></body></html>", false},
		{"near empty", "<html><body><p>loading</p></body></html>", true},
		{"captcha phrase", "<html><body><p>Please verify you are human. " + padding + "</p></body></html>", true},
		{"access denied", "<html><body><h1>Access Denied</h1><p>" + padding + "</p></body></html>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := botChallengeLikely([]byte(tt.body)); got != tt.want {
				t.Errorf("botChallengeLikely = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractVisibleText_SkipsScriptAndStyle(t *testing.T) {
	text := extractVisibleText([]byte(productPageHTML()))

	if !strings.Contains(text, "Wool Jumper") {
		t.Error("body text missing from extraction")
	}
	if strings.Contains(text, "tracking") {
		t.Error("script content leaked into visible text")
	}
	if strings.Contains(text, "body{}") {
		t.Error("style content leaked into visible text")
	}
}

func TestExtractVisibleText_IgnoresHead(t *testing.T) {
	html := `<html><head><title>Head Title</title></head><body><p>body text</p></body></html>`
	text := extractVisibleText([]byte(html))

	if strings.Contains(text, "Head Title") {
		t.Error("head content should not count as visible text")
	}
	if !strings.Contains(text, "body text") {
		t.Error("body text missing")
	}
}

package regions

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Builtins(t *testing.T) {
	reg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	uk, ok := reg.Get("UK")
	if !ok {
		t.Fatal("UK must be a built-in region")
	}
	if uk.Locale != "en-GB" {
		t.Errorf("UK locale = %q, want en-GB", uk.Locale)
	}
	if len(uk.Focus) == 0 {
		t.Error("UK must carry focus areas")
	}

	cafr, ok := reg.Get("CA_FR")
	if !ok {
		t.Fatal("CA_FR must be a built-in region")
	}
	if cafr.Locale != "fr-CA" {
		t.Errorf("CA_FR locale = %q, want fr-CA", cafr.Locale)
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	reg, _ := Load("")

	for _, code := range []string{"uk", "Uk", " UK "} {
		if _, ok := reg.Get(code); !ok {
			t.Errorf("Get(%q) should resolve to UK", code)
		}
	}
	if _, ok := reg.Get("XX"); ok {
		t.Error("unknown code must not resolve")
	}
}

func TestLoad_OverlayFile(t *testing.T) {
	overlay := `
UK:
  focus:
    - "custom focus bullet"
AU:
  label: "Australia"
  locale: "en-AU"
  analysis_language: "English (Australia)"
  focus:
    - "AU localization"
`
	path := filepath.Join(t.TempDir(), "regions.yaml")
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Partial override keeps built-in fields and replaces the listed ones.
	uk, _ := reg.Get("UK")
	if uk.Locale != "en-GB" {
		t.Errorf("overridden UK lost its built-in locale: %q", uk.Locale)
	}
	if len(uk.Focus) != 1 || uk.Focus[0] != "custom focus bullet" {
		t.Errorf("UK focus = %v, want the overlay's bullet", uk.Focus)
	}

	au, ok := reg.Get("AU")
	if !ok {
		t.Fatal("overlay should add AU")
	}
	if au.Code != "AU" || au.Locale != "en-AU" {
		t.Errorf("AU = %+v", au)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("a named but unreadable file must be an error, not silently ignored")
	}
}

func TestCodes_Sorted(t *testing.T) {
	reg, _ := Load("")
	codes := reg.Codes()

	if len(codes) < 5 {
		t.Fatalf("codes = %v, want at least the 5 built-ins", codes)
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %v", codes)
			break
		}
	}
}

package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchlens/pdpaudit/excerpt"
	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/regions"
)

func testRegion(t *testing.T, code string) regions.Region {
	t.Helper()
	reg, err := regions.Load("")
	if err != nil {
		t.Fatal(err)
	}
	r, ok := reg.Get(code)
	if !ok {
		t.Fatalf("region %s not found", code)
	}
	return r
}

func testBundle(t *testing.T, profile string) *models.EvidenceBundle {
	t.Helper()
	dir := t.TempDir()
	paths := map[string]string{}
	for _, key := range models.ProfileKeys(profile) {
		p := filepath.Join(dir, key+".png")
		if err := os.WriteFile(p, []byte("\x89PNG fake"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths[key] = p
	}
	return &models.EvidenceBundle{
		URL:           "https://shop.example.com/p/1",
		RunID:         "abc12345",
		OutputDir:     dir,
		ArtifactPaths: paths,
		VisibleText:   "visible page text",
	}
}

func TestSystemPrompt_RegionLanguage(t *testing.T) {
	de := testRegion(t, "DE")
	prompt := systemPrompt(de)

	if !strings.Contains(prompt, "Germany") {
		t.Error("system prompt should name the target market")
	}
	if !strings.Contains(prompt, "Deutsch") {
		t.Error("system prompt should pin the findings language")
	}
	if !strings.Contains(prompt, "Return valid JSON only") {
		t.Error("system prompt must demand JSON output")
	}
}

func TestUserPrompt_Contents(t *testing.T) {
	uk := testRegion(t, "UK")
	bundle := testBundle(t, models.ProfileSizeFit)
	ex := &excerpt.Excerpt{
		Markdown:    "# Wool Jumper\nNice jumper.",
		ProductName: "Wool Jumper",
		Price:       "£89.00",
		Breadcrumbs: []string{"Home", "Knitwear"},
	}

	prompt := userPrompt(bundle, uk, ex, models.ProfileSizeFit)

	for _, focus := range uk.Focus {
		if !strings.Contains(prompt, focus) {
			t.Errorf("focus area missing from prompt: %q", focus)
		}
	}
	for _, key := range models.ProfileKeys(models.ProfileSizeFit) {
		if !strings.Contains(prompt, key) {
			t.Errorf("screenshot legend missing key %q", key)
		}
	}
	if !strings.Contains(prompt, `"why_it_matters"`) {
		t.Error("schema block missing from prompt")
	}
	if !strings.Contains(prompt, "£89.00") {
		t.Error("price signal missing from prompt")
	}
	if !strings.Contains(prompt, "Nice jumper.") {
		t.Error("markdown excerpt missing from prompt")
	}
}

func TestUserPrompt_FallsBackToVisibleText(t *testing.T) {
	uk := testRegion(t, "UK")
	bundle := testBundle(t, models.ProfileSizeFit)

	prompt := userPrompt(bundle, uk, nil, models.ProfileSizeFit)
	if !strings.Contains(prompt, "visible page text") {
		t.Error("prompt should fall back to the bundle's visible text when no excerpt exists")
	}
}

func TestSchemaBlock_RestrictsEvidenceKeys(t *testing.T) {
	block := schemaBlock(models.ProfileDetails)
	if !strings.Contains(block, models.KeyDetailsView) {
		t.Error("details profile schema should allow details_view")
	}
	if strings.Contains(block, models.KeySizeFitView) {
		t.Error("details profile schema should not allow size_fit_view")
	}
}

func TestImageParts_OrderAndSkips(t *testing.T) {
	bundle := testBundle(t, models.ProfileSizeFit)
	// Remove one artifact: the part list must skip it, not fail.
	os.Remove(bundle.ArtifactPaths[models.KeyCareView])

	parts := imageParts(bundle, models.ProfileSizeFit)
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want 3 (one screenshot missing)", len(parts))
	}
	for _, p := range parts {
		if p.ImageURL == nil || !strings.HasPrefix(p.ImageURL.URL, "data:image/png;base64,") {
			t.Errorf("part is not an inline PNG data URL: %+v", p)
		}
	}
}

func TestDataURLPNG_MissingFile(t *testing.T) {
	if _, err := dataURLPNG(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("missing file must surface an error")
	}
}

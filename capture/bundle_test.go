package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchlens/pdpaudit/models"
)

func TestRunID_Deterministic(t *testing.T) {
	url := "https://shop.example.com/products/wool-jumper"
	if RunID(url) != RunID(url) {
		t.Error("same URL must always map to the same run ID")
	}
	if len(RunID(url)) != 8 {
		t.Errorf("run ID length = %d, want 8", len(RunID(url)))
	}
}

func TestRunID_DistinctURLs(t *testing.T) {
	a := RunID("https://shop.example.com/products/wool-jumper")
	b := RunID("https://shop.example.com/products/wool-jumper?color=navy")
	if a == b {
		t.Error("distinct URLs should map to distinct run IDs")
	}
}

func TestNewBundle_Layout(t *testing.T) {
	root := t.TempDir()
	url := "https://shop.example.com/products/wool-jumper"

	bundle, err := newBundle(url, "UK", root, models.ProfileSizeFit)
	if err != nil {
		t.Fatalf("newBundle: %v", err)
	}

	if bundle.RunID != RunID(url) {
		t.Errorf("RunID = %q, want %q", bundle.RunID, RunID(url))
	}
	if info, err := os.Stat(bundle.ScreenshotsDir); err != nil || !info.IsDir() {
		t.Fatalf("screenshots dir not created: %v", err)
	}
	if !filepath.IsAbs(bundle.OutputDir) {
		t.Errorf("OutputDir %q is not absolute", bundle.OutputDir)
	}

	keys := models.ProfileKeys(models.ProfileSizeFit)
	if len(bundle.ArtifactPaths) != len(keys) {
		t.Fatalf("artifact paths = %d, want %d", len(bundle.ArtifactPaths), len(keys))
	}
	if got := filepath.Base(bundle.ArtifactPaths[models.KeyFullPage]); got != "01_full_page.png" {
		t.Errorf("full_page file = %q, want 01_full_page.png", got)
	}
	if got := filepath.Base(bundle.ArtifactPaths[models.KeySizeChartView]); got != "04_size_chart_view.png" {
		t.Errorf("size_chart_view file = %q, want 04_size_chart_view.png", got)
	}
}

func TestNewBundle_DetailsProfile(t *testing.T) {
	bundle, err := newBundle("https://example.com/p/1", "UK", t.TempDir(), models.ProfileDetails)
	if err != nil {
		t.Fatalf("newBundle: %v", err)
	}

	if _, ok := bundle.ArtifactPaths[models.KeyDetailsView]; !ok {
		t.Error("details profile must include details_view")
	}
	if _, ok := bundle.ArtifactPaths[models.KeySizeFitView]; ok {
		t.Error("details profile must not include size_fit_view")
	}
}

func TestNewBundle_RegionsNeverShareArtifacts(t *testing.T) {
	root := t.TempDir()
	url := "https://shop.example.com/products/wool-jumper"

	uk, err := newBundle(url, "UK", root, models.ProfileSizeFit)
	if err != nil {
		t.Fatalf("newBundle UK: %v", err)
	}
	de, err := newBundle(url, "DE", root, models.ProfileSizeFit)
	if err != nil {
		t.Fatalf("newBundle DE: %v", err)
	}

	// The two regions render different pages concurrently; any shared path
	// would let one region's screenshots overwrite the other's.
	for key, ukPath := range uk.ArtifactPaths {
		if dePath := de.ArtifactPaths[key]; dePath == ukPath {
			t.Errorf("region UK and DE share artifact path for %s: %s", key, ukPath)
		}
	}
	if uk.OutputDir == de.OutputDir {
		t.Errorf("regions share output dir %s", uk.OutputDir)
	}
	if uk.RunID != de.RunID {
		t.Errorf("run ID should stay URL-derived: %q vs %q", uk.RunID, de.RunID)
	}
}

func TestNewBundle_RepeatRunsNeverShareArtifacts(t *testing.T) {
	root := t.TempDir()
	url := "https://shop.example.com/products/wool-jumper"

	first, err := newBundle(url, "UK", root, models.ProfileSizeFit)
	if err != nil {
		t.Fatalf("newBundle: %v", err)
	}
	second, err := newBundle(url, "UK", root, models.ProfileSizeFit)
	if err != nil {
		t.Fatalf("newBundle: %v", err)
	}

	if first.OutputDir == second.OutputDir {
		t.Errorf("concurrent runs of one URL+region share output dir %s", first.OutputDir)
	}
	for key, p := range first.ArtifactPaths {
		if second.ArtifactPaths[key] == p {
			t.Errorf("repeat runs share artifact path for %s: %s", key, p)
		}
	}
}

func TestCapText(t *testing.T) {
	if got := capText("hello", 10); got != "hello" {
		t.Errorf("under cap = %q, want unchanged", got)
	}
	if got := capText("hello world", 5); got != "hello" {
		t.Errorf("over cap = %q, want %q", got, "hello")
	}
	// Cap counts runes, not bytes: no split inside a multibyte char.
	got := capText("tailleré", 8)
	if got != "tailleré" {
		t.Errorf("rune cap = %q, want full string", got)
	}
	if got := capText("éééé", 2); got != "éé" {
		t.Errorf("rune cap = %q, want %q", got, "éé")
	}
	if got := capText("anything", 0); got != "" {
		t.Errorf("zero cap = %q, want empty", got)
	}
}

func TestFingerprint_CapsAndHashes(t *testing.T) {
	bundle := &models.EvidenceBundle{}
	long := strings.Repeat("word ", models.VisibleTextCap)

	fingerprint(bundle, long)
	if len([]rune(bundle.VisibleText)) != models.VisibleTextCap {
		t.Errorf("visible text length = %d, want cap %d", len([]rune(bundle.VisibleText)), models.VisibleTextCap)
	}
	if bundle.ContentFingerprint == 0 {
		t.Error("non-empty text should produce a non-zero fingerprint")
	}

	empty := &models.EvidenceBundle{}
	fingerprint(empty, "")
	if empty.ContentFingerprint != 0 {
		t.Error("empty text should produce fingerprint 0")
	}
}

package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/simhash"
)

// RunID returns the stable run identifier for a URL: the first 8 hex chars
// of its SHA-256. Identical URLs always map to the same ID, so repeat runs
// of one page share an output namespace and can be de-duplicated.
func RunID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:8]
}

var runSeq atomic.Uint64

// runToken returns a short identifier unique to one capture run: run start
// time plus a process-wide sequence number. Two runs started in the same
// second still get distinct tokens.
func runToken() string {
	return fmt.Sprintf("%x-%04x", time.Now().Unix(), runSeq.Add(1)&0xffff)
}

// newBundle allocates the evidence bundle for one run: run ID, output
// directories and every artifact path. Allocation happens before any
// navigation so a mid-run failure still has a deterministic directory and
// no artifact key ever points at an unplanned location.
//
// The per-run segment carries the region and a run token because regions of
// one URL run concurrently and render different pages; sharing the URL-hash
// directory alone would let one region overwrite another's screenshots.
func newBundle(url, region, outRoot, profile string) (*models.EvidenceBundle, error) {
	runID := RunID(url)
	seg := runToken()
	if region != "" {
		seg = region + "_" + seg
	}
	outDir := filepath.Join(outRoot, runID, seg)
	shotsDir := filepath.Join(outDir, "screenshots")
	if err := os.MkdirAll(shotsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dirs: %w", err)
	}

	if abs, err := filepath.Abs(outDir); err == nil {
		outDir = abs
	}
	if abs, err := filepath.Abs(shotsDir); err == nil {
		shotsDir = abs
	}

	keys := models.ProfileKeys(profile)
	paths := make(map[string]string, len(keys))
	for i, key := range keys {
		paths[key] = filepath.Join(shotsDir, fmt.Sprintf("%02d_%s.png", i+1, key))
	}

	return &models.EvidenceBundle{
		URL:            url,
		RunID:          runID,
		Region:         region,
		OutputDir:      outDir,
		ScreenshotsDir: shotsDir,
		ArtifactPaths:  paths,
	}, nil
}

// capText truncates text to at most max runes without splitting a rune.
func capText(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// fingerprint records the bundle's visible text and its SimHash.
func fingerprint(bundle *models.EvidenceBundle, text string) {
	bundle.VisibleText = capText(text, models.VisibleTextCap)
	bundle.ContentFingerprint = simhash.Fingerprint(bundle.VisibleText)
}

package models

// Artifact keys identify the fixed screenshot slots every capture run fills.
const (
	KeyFullPage      = "full_page"
	KeyDetailsView   = "details_view"
	KeyCareView      = "care_view"
	KeySizeFitView   = "size_fit_view"
	KeySizeChartView = "size_chart_view"
)

// Capture profile names. A deployment uses exactly one profile; the two are
// alternative key sets, not combined.
const (
	ProfileDetails = "details"
	ProfileSizeFit = "sizefit"
)

// ProfileKeys returns the ordered artifact-key set for a capture profile.
// Unknown profile names fall back to the sizefit profile. Order matters:
// it fixes the NN_ prefix of screenshot filenames and the order screenshots
// are attached to the analysis prompt and the report.
func ProfileKeys(profile string) []string {
	if profile == ProfileDetails {
		return []string{KeyFullPage, KeyDetailsView, KeyCareView, KeySizeChartView}
	}
	return []string{KeyFullPage, KeyCareView, KeySizeFitView, KeySizeChartView}
}

// VisibleTextCap is the maximum length of EvidenceBundle.VisibleText.
const VisibleTextCap = 12000

// EvidenceBundle is the complete output of one capture run: screenshot paths
// plus the extracted text excerpt. It is owned exclusively by the capture
// session until returned, then read-only for the analysis and report stages.
type EvidenceBundle struct {
	// URL is the audited page.
	URL string `json:"url"`

	// RunID is the first 8 hex chars of SHA-256(URL). Stable across
	// invocations so runs of the same URL share an output namespace.
	RunID string `json:"run_id"`

	// Region is caller-supplied region metadata (e.g. "UK"), threaded
	// through but never interpreted by the capture core.
	Region string `json:"region,omitempty"`

	// OutputDir is the per-run output directory.
	OutputDir string `json:"output_dir"`

	// ScreenshotsDir is OutputDir/screenshots.
	ScreenshotsDir string `json:"screenshots_dir"`

	// ArtifactPaths maps every key of the configured profile to an absolute
	// PNG path. After a successful run every path exists on disk: capture
	// always falls back to a viewport shot rather than omitting a key.
	ArtifactPaths map[string]string `json:"artifact_paths"`

	// VisibleText is document.body.innerText capped at VisibleTextCap.
	// Empty string (never absent) when extraction fails.
	VisibleText string `json:"visible_text"`

	// ContentFingerprint is the 64-bit SimHash of VisibleText, used to spot
	// unchanged page content across runs of the same URL.
	ContentFingerprint uint64 `json:"content_fingerprint"`

	// DOMFingerprint is the SimHash of the rendered DOM's tag structure.
	// Identical copy with a rearranged layout still matters to a visual
	// audit, so change detection consults both fingerprints.
	DOMFingerprint uint64 `json:"dom_fingerprint"`
}

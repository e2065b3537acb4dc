package models

// AuditResponse is the response for POST /api/v1/audit.
type AuditResponse struct {
	// Success indicates whether every requested region completed.
	Success bool `json:"success"`

	// Results holds one entry per requested region, in request order.
	// Regions that failed carry their own Error and a nil Bundle.
	Results []*RegionResult `json:"results"`

	// Timing provides duration breakdowns for the whole request.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when the request failed before any region ran.
	Error *ErrorDetail `json:"error,omitempty"`
}

// RegionResult is the outcome of one region's audit pipeline.
type RegionResult struct {
	// Region is the requested region code; RegionLabel its display name.
	Region      string `json:"region"`
	RegionLabel string `json:"region_label"`

	// Bundle is the capture output. Nil when capture failed.
	Bundle *EvidenceBundle `json:"bundle,omitempty"`

	// Analysis holds the findings. Nil when analysis failed or was skipped.
	Analysis *Analysis `json:"analysis,omitempty"`

	// ReportPath is the generated PDF, empty when skipped or failed.
	ReportPath string `json:"report_path,omitempty"`

	// CacheStatus is "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// ContentUnchanged is true when the page's text fingerprint matches the
	// previous run of the same URL within the SimHash threshold.
	ContentUnchanged bool `json:"content_unchanged,omitempty"`

	// Error is populated only for a failed region.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// CaptureMs is the time spent rendering and screenshotting.
	CaptureMs int64 `json:"capture_ms"`

	// AnalysisMs is the time spent in the findings call.
	AnalysisMs int64 `json:"analysis_ms"`

	// ReportMs is the time spent building the PDF.
	ReportMs int64 `json:"report_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}

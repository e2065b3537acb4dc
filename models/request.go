package models

// AuditRequest is the payload for POST /api/v1/audit.
type AuditRequest struct {
	// URL is the product detail page to audit. Required.
	URL string `json:"url" binding:"required,url"`

	// Regions lists the region codes to audit against (e.g. ["UK", "DE"]).
	// Each region runs its own capture session. Default: ["UK"].
	Regions []string `json:"regions,omitempty"`

	// Profile selects the artifact-key set: "details" or "sizefit".
	// Default: the server's configured profile.
	Profile string `json:"profile,omitempty" binding:"omitempty,oneof=details sizefit"`

	// Timeout is the maximum duration in seconds for one region's capture
	// (navigation + interaction + screenshots). Default: 90. Max: 300.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=300"`

	// MaxAge enables cache lookup: a completed audit for the same URL,
	// region and profile younger than MaxAge milliseconds is returned as-is.
	// 0 (default) bypasses the cache.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`

	// SkipReport skips PDF generation and returns findings only.
	SkipReport bool `json:"skip_report,omitempty"`

	// WebhookURL, if set, receives audit.completed / audit.failed events.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`
}

// Defaults applies default values to unset fields.
func (r *AuditRequest) Defaults(defaultProfile string) {
	if len(r.Regions) == 0 {
		r.Regions = []string{"UK"}
	}
	if r.Profile == "" {
		r.Profile = defaultProfile
	}
	if r.Timeout == 0 {
		r.Timeout = 90
	}
}

// Package audit orchestrates the pipeline for one request: capture the page
// per region, build the text excerpt, run the findings analysis, render the
// PDF. The HTTP handler and the one-shot CLI both drive this runner.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/launchlens/pdpaudit/analysis"
	"github.com/launchlens/pdpaudit/cache"
	"github.com/launchlens/pdpaudit/capture"
	"github.com/launchlens/pdpaudit/config"
	"github.com/launchlens/pdpaudit/excerpt"
	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/regions"
	"github.com/launchlens/pdpaudit/report"
	"github.com/launchlens/pdpaudit/simhash"
	"github.com/launchlens/pdpaudit/webhook"
)

// Hamming distance thresholds at or below which two captures of the same
// page count as unchanged. Structural shingles are noisier than word tokens,
// so the DOM threshold is looser.
const (
	textSimhashThreshold = 3
	domSimhashThreshold  = 5
)

// Runner executes audit requests against a shared capture engine.
type Runner struct {
	engine   *capture.Engine
	excerpts *excerpt.Builder
	analyzer *analysis.Client
	reporter *report.Generator
	cache    *cache.Cache
	regions  *regions.Registry
	cfg      *config.Config
}

// NewRunner wires the pipeline stages around the given engine and region
// registry. The analyzer is nil when no API key is configured; the runner
// then produces capture-only results.
func NewRunner(cfg *config.Config, engine *capture.Engine, registry *regions.Registry) *Runner {
	var analyzer *analysis.Client
	if cfg.Analysis.APIKey != "" {
		analyzer = analysis.NewClient(cfg.Analysis)
	} else {
		slog.Warn("no analysis API key configured, running capture-only")
	}

	return &Runner{
		engine:   engine,
		excerpts: excerpt.NewBuilder(),
		analyzer: analyzer,
		reporter: report.NewGenerator(),
		cache:    cache.New(cfg.Cache.MaxEntries),
		regions:  registry,
		cfg:      cfg,
	}
}

// Run executes one audit request: every requested region concurrently, each
// on its own browser page. Results keep request order. Success means every
// region completed; partial failure still returns the successful regions.
func (r *Runner) Run(ctx context.Context, req *models.AuditRequest) *models.AuditResponse {
	start := time.Now()
	req.Defaults(r.cfg.Capture.Profile)

	results := make([]*models.RegionResult, len(req.Regions))
	timings := make([]models.TimingInfo, len(req.Regions))

	var wg sync.WaitGroup
	for i, code := range req.Regions {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			results[i], timings[i] = r.runRegion(ctx, req, code)
		}(i, code)
	}
	wg.Wait()

	resp := &models.AuditResponse{
		Success: true,
		Results: results,
		Timing:  models.TimingInfo{TotalMs: time.Since(start).Milliseconds()},
	}
	for i := range results {
		if results[i].Error != nil {
			resp.Success = false
		}
		resp.Timing.CaptureMs += timings[i].CaptureMs
		resp.Timing.AnalysisMs += timings[i].AnalysisMs
		resp.Timing.ReportMs += timings[i].ReportMs
	}

	r.notify(req, resp)
	return resp
}

// runRegion executes the full pipeline for one region.
func (r *Runner) runRegion(ctx context.Context, req *models.AuditRequest, code string) (*models.RegionResult, models.TimingInfo) {
	var timing models.TimingInfo

	region, ok := r.regions.Get(code)
	if !ok {
		return &models.RegionResult{
			Region: code,
			Error:  &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: "unknown region code"},
		}, timing
	}

	result := &models.RegionResult{Region: region.Code, RegionLabel: region.Label}

	key := cache.Key(req.URL, region.Code, req.Profile)
	if req.MaxAge > 0 {
		if cached, hit := r.cache.Get(key, req.MaxAge); hit {
			slog.Info("audit served from cache", "url", req.URL, "region", region.Code)
			served := *cached
			served.CacheStatus = "hit"
			return &served, timing
		}
		result.CacheStatus = "miss"
	}

	captureStart := time.Now()
	capRes, err := r.engine.Run(ctx, capture.RunRequest{
		URL:     req.URL,
		Region:  region.Code,
		Locale:  region.Locale,
		Profile: req.Profile,
		Timeout: time.Duration(req.Timeout) * time.Second,
	})
	timing.CaptureMs = time.Since(captureStart).Milliseconds()
	if err != nil {
		result.Error = toDetail(err)
		return result, timing
	}
	result.Bundle = capRes.Bundle

	if prevText, prevDOM, ok := r.cache.Fingerprints(key); ok {
		result.ContentUnchanged = simhash.Similar(prevText, capRes.Bundle.ContentFingerprint, textSimhashThreshold) &&
			simhash.Similar(prevDOM, capRes.Bundle.DOMFingerprint, domSimhashThreshold)
	}

	ex := r.excerpts.Build(capRes.RawHTML, req.URL)

	if r.analyzer != nil {
		analysisStart := time.Now()
		found, err := r.analyzer.Analyze(ctx, capRes.Bundle, region, ex, req.Profile)
		timing.AnalysisMs = time.Since(analysisStart).Milliseconds()
		if err != nil {
			// No findings means no report; the evidence bundle still comes
			// back so the caller can inspect what was captured.
			result.Error = toDetail(err)
			return result, timing
		}
		result.Analysis = found
	}

	if result.Analysis != nil && r.cfg.Report.Enabled && !req.SkipReport {
		reportStart := time.Now()
		path, err := r.reporter.Generate(capRes.Bundle, result.Analysis, region, req.Profile)
		timing.ReportMs = time.Since(reportStart).Milliseconds()
		if err != nil {
			result.Error = toDetail(err)
			return result, timing
		}
		result.ReportPath = path
	}

	r.cache.Set(key, result)
	return result, timing
}

// notify delivers completion events to the per-request webhook and the
// server-level webhook, if configured.
func (r *Runner) notify(req *models.AuditRequest, resp *models.AuditResponse) {
	urls := make([]string, 0, 2)
	if req.WebhookURL != "" {
		urls = append(urls, req.WebhookURL)
	}
	if r.cfg.Webhook.URL != "" && r.cfg.Webhook.URL != req.WebhookURL {
		urls = append(urls, r.cfg.Webhook.URL)
	}
	if len(urls) == 0 {
		return
	}

	eventType := webhook.EventAuditCompleted
	if !resp.Success {
		eventType = webhook.EventAuditFailed
	}
	event := &webhook.Event{
		Type:      eventType,
		RunID:     capture.RunID(req.URL),
		URL:       req.URL,
		Timestamp: time.Now().Unix(),
		Data:      resp,
	}
	for _, url := range urls {
		webhook.DeliverAsync(url, r.cfg.Webhook.Secret, event)
	}
}

// toDetail converts any pipeline error into the API error shape.
func toDetail(err error) *models.ErrorDetail {
	var auditErr *models.AuditError
	if errors.As(err, &auditErr) {
		return auditErr.ToDetail()
	}
	return &models.ErrorDetail{Code: models.ErrCodeInternal, Message: err.Error()}
}

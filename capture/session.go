package capture

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/launchlens/pdpaudit/config"
	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/simhash"
)

// RunRequest describes one capture run.
type RunRequest struct {
	// URL is the product page to capture. Required.
	URL string

	// Region is caller-supplied metadata recorded on the bundle,
	// never interpreted here.
	Region string

	// Locale, when set, is sent as the Accept-Language header so the page
	// renders for the target market.
	Locale string

	// Profile selects the artifact-key set ("details" or "sizefit").
	Profile string

	// Timeout bounds the whole run. Zero uses the configured default.
	Timeout time.Duration
}

// Result is the output of one capture run: the evidence bundle plus the
// rendered DOM snapshot the excerpt stage works from.
type Result struct {
	Bundle  *models.EvidenceBundle
	RawHTML string
}

// session owns one page for the duration of one run. All operations against
// the page are strictly sequential: the page is an external mutable resource
// and the session is its only mutator.
type session struct {
	page   *rod.Page
	cfg    config.CaptureConfig
	bundle *models.EvidenceBundle

	// expanded records artifact keys whose section was already expanded
	// during the baseline, so the per-section pass does not click the
	// trigger a second time and collapse a toggle accordion.
	expanded map[string]bool
}

// sectionSpec names one section artifact and how to reach it.
type sectionSpec struct {
	key   string
	names []string
	modal bool // content presented as an overlay dialog, not inline
}

// sectionSpecs maps artifact keys to their on-page section semantics.
var sectionSpecs = map[string]sectionSpec{
	models.KeyDetailsView: {
		key:   models.KeyDetailsView,
		names: []string{"Details", "Product Details"},
	},
	models.KeyCareView: {
		key:   models.KeyCareView,
		names: []string{"Care", "Care Instructions"},
	},
	models.KeySizeFitView: {
		key:   models.KeySizeFitView,
		names: []string{"Size & Fit", "Size and Fit", "Sizing"},
	},
	models.KeySizeChartView: {
		key:   models.KeySizeChartView,
		names: []string{"Size Chart", "Size Guide"},
		modal: true,
	},
}

// showMoreAffordances expand truncated description copy before the baseline
// shot, so the full-page artifact reflects maximally-expanded content.
var showMoreAffordances = []affordance{
	{selector: "button", pattern: `/^\s*(show|read)\s+more\s*$/i`},
	{selector: "button", pattern: `/more details/i`},
	{selector: "a", pattern: `/^\s*(show|read)\s+more\s*$/i`},
}

// Run executes one capture run: navigate, suppress overlays, expand the
// baseline, then locate/expand/capture each configured section. Navigation
// failure is fatal; every later step degrades to a best-effort fallback so
// a successful run always returns a complete bundle.
func (e *Engine) Run(ctx context.Context, req RunRequest) (*Result, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = e.captureCfg.RunTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	profile := req.Profile
	if profile == "" {
		profile = e.captureCfg.Profile
	}

	// Paths are allocated before navigation: a mid-run failure still has a
	// deterministic output directory with nothing dangling.
	bundle, err := newBundle(req.URL, req.Region, e.captureCfg.OutputRoot, profile)
	if err != nil {
		return nil, models.NewAuditError(models.ErrCodeInternal, "failed to allocate run output", err)
	}

	if e.captureCfg.Preflight {
		if err := preflight(ctx, req.URL, e.browserCfg.DefaultProxy); err != nil {
			return nil, err
		}
	}

	e.activePages.Add(1)
	defer e.activePages.Add(-1)

	page, acquireErr := e.pagePool.Get(func() (*rod.Page, error) {
		return e.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewAuditError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// The about:blank navigation uses the original page reference (without
	// the run context) so cleanup succeeds even after the deadline fires.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		e.pagePool.Put(page)
	}()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             e.captureCfg.ViewportWidth,
		Height:            e.captureCfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		slog.Warn("viewport override failed, using browser default", "error", err)
	}

	installStealth(page)

	// Always set, never conditionally: pooled pages keep extra headers
	// across runs, so an empty locale must clear the previous region's
	// Accept-Language rather than inherit it.
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: localeHeaders(req.Locale),
	}.Call(page)

	p := page.Context(ctx)

	// ── Navigate (the only fatal step) ──────────────────────────────
	nav := p.Timeout(e.captureCfg.NavTimeout)
	if navErr := nav.Navigate(req.URL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}
	if stableErr := nav.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"url", req.URL, "error", stableErr)
	}

	s := &session{page: p, cfg: e.captureCfg, bundle: bundle, expanded: map[string]bool{}}
	rawHTML := s.run(profile)

	if ctxErr := ctx.Err(); ctxErr != nil {
		// The deadline fired mid-capture; whatever was written is not a
		// trustworthy bundle.
		return nil, categorizeError(ctxErr, "capture run timed out")
	}

	return &Result{Bundle: bundle, RawHTML: rawHTML}, nil
}

// run performs the capture sequence against an already-navigated page and
// returns the rendered HTML snapshot. Linear, no branching back:
// overlays → baseline expansion → baseline shot → text → per-section shots.
func (s *session) run(profile string) string {
	s.suppress()

	// Expand description copy and the Details accordion before the
	// baseline so the full-page artifact shows maximal content.
	s.clickAffordance(showMoreAffordances)
	if tgt := s.locateSection(sectionSpecs[models.KeyDetailsView].names); tgt != nil && tgt.Trigger != nil {
		s.expandTrigger(tgt.Trigger, s.cfg.SectionSettle)
		s.expanded[models.KeyDetailsView] = true
	}

	// Interaction can trigger fresh popups; suppress again before shooting.
	s.suppress()
	s.settle(s.cfg.SettleDelay)

	if err := s.shootFullPage(s.bundle.ArtifactPaths[models.KeyFullPage]); err != nil {
		slog.Warn("capture: full-page screenshot failed, falling back to viewport",
			"url", s.bundle.URL, "error", err)
		s.shootViewport(s.bundle.ArtifactPaths[models.KeyFullPage])
	}

	fingerprint(s.bundle, s.visibleText())
	rawHTML := s.pageHTML()
	s.bundle.DOMFingerprint = simhash.FingerprintDOM(rawHTML)

	for _, key := range models.ProfileKeys(profile) {
		if key == models.KeyFullPage {
			continue
		}
		spec, ok := sectionSpecs[key]
		if !ok {
			continue
		}
		s.captureSectionArtifact(spec, s.bundle.ArtifactPaths[key])
	}

	return rawHTML
}

// captureSectionArtifact produces one section's screenshot. Overlays are
// re-suppressed around every interaction because popups can reappear after
// clicks, and the shot itself runs the container→modal→viewport chain so
// the key is always produced.
func (s *session) captureSectionArtifact(spec sectionSpec, path string) {
	if spec.modal {
		// Size-chart style modals anchor near the buy box; open from the top.
		s.scrollTop()
	}
	s.suppress()

	tgt := s.locateSection(spec.names)
	settle := s.cfg.SectionSettle
	if spec.modal {
		settle = s.cfg.ModalSettle
	}
	switch sectionActionFor(tgt, spec.modal, s.expanded[spec.key]) {
	case actionClickTrigger:
		s.expandTrigger(tgt.Trigger, settle)
	case actionScrollTrigger:
		s.scrollToAnchor(tgt.Trigger)
	case actionClickAnchor:
		s.expandTrigger(tgt.Anchor, settle)
	case actionScrollAnchor:
		s.scrollToAnchor(tgt.Anchor)
	case actionScrollPast:
		s.scrollViewports(1.5)
	}

	s.suppress()
	s.shootSection(tgt, spec.modal, path)
}

// suppress runs the overlay dismissal loop with this session's timing.
func (s *session) suppress() {
	suppressOverlays(rodOverlayPage{
		page:         s.page,
		clickTimeout: s.cfg.ClickTimeout,
		settleDelay:  250 * time.Millisecond,
	})
}

// clickAffordance actuates the first matching page-level affordance,
// best-effort.
func (s *session) clickAffordance(affs []affordance) bool {
	return rodOverlayPage{
		page:         s.page,
		clickTimeout: s.cfg.ClickTimeout,
	}.clickFirst(affs)
}

// visibleText extracts document.body.innerText. Empty string (never absent)
// on failure.
func (s *session) visibleText() string {
	res, err := s.page.Eval(`() => document.body.innerText`)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(res.Value.Str())
}

// pageHTML snapshots the rendered DOM for the excerpt stage, best-effort.
func (s *session) pageHTML() string {
	html, err := s.page.HTML()
	if err != nil {
		slog.Debug("capture: HTML snapshot failed", "error", err)
		return ""
	}
	return html
}

func (s *session) scrollTop() {
	_, _ = s.page.Eval(`() => window.scrollTo(0, 0)`)
}

// scrollViewports wheels the page down by a multiple of the viewport height.
func (s *session) scrollViewports(n float64) {
	res, err := s.page.Eval(`() => window.innerHeight`)
	if err != nil {
		return
	}
	_ = s.page.Mouse.Scroll(0, float64(res.Value.Int())*n, 0)
}

// settle waits for layout/animation to finish, bounded by the page context.
func (s *session) settle(d time.Duration) {
	select {
	case <-time.After(d):
	case <-s.page.GetContext().Done():
	}
}

// localeHeaders builds the Accept-Language header map for a locale tag.
// An empty locale yields an empty map, which resets the page's extra headers.
func localeHeaders(locale string) proto.NetworkHeaders {
	if locale == "" {
		return proto.NetworkHeaders{}
	}
	lang := locale
	if idx := strings.IndexByte(locale, '-'); idx > 0 {
		lang = locale[:idx]
	}
	value := locale
	if lang != locale {
		value = locale + "," + lang + ";q=0.9"
	}
	return proto.NetworkHeaders{
		"Accept-Language": gson.New(value),
	}
}

// categorizeError wraps raw errors into typed AuditErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.AuditError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAuditError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewAuditError(models.ErrCodeTimeout, "run canceled", err)
	default:
		return models.NewAuditError(models.ErrCodeNavigation, msg, err)
	}
}

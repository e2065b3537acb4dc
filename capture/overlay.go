package capture

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// maxOverlayPasses bounds the dismissal loop; stacked overlays (cookie banner
// under an email-capture modal) need more than one pass.
const maxOverlayPasses = 3

// affordance is one candidate close/consent control: a CSS selector scope
// plus an optional visible-text pattern (rod js-regex form, e.g. "/close/i").
type affordance struct {
	selector string
	pattern  string
}

// dialogCloses are close affordances scoped to dialog-like containers, in
// priority order. Tried before the page-level CTAs so a promo modal's own
// close button wins over an unrelated consent button underneath it.
var dialogCloses = []affordance{
	{selector: "[role='dialog'] button[aria-label='Close']"},
	{selector: "[role='dialog'] [aria-label='Close']"},
	{selector: "[role='dialog'] button", pattern: `/^\s*(close|no thanks|not now|dismiss)\s*$/i`},
	{selector: ".modal button[aria-label='Close']"},
	{selector: ".modal [aria-label='Close']"},
	{selector: ".modal button", pattern: `/^\s*close\s*$/i`},
	{selector: "button[aria-label='Close']"},
	{selector: "[aria-label='Close']"},
	{selector: "button[title='Close']"},
	{selector: "[title='Close']"},
}

// consentCTAs are page-level consent/marketing dismissals. Refusals come
// before acceptances so the audit evidence reflects the page without
// opted-in tracking where the site offers the choice.
var consentCTAs = []affordance{
	{selector: "button", pattern: `/^\s*no thanks\s*$/i`},
	{selector: "button", pattern: `/^\s*not now\s*$/i`},
	{selector: "button", pattern: `/^\s*continue without\b/i`},
	{selector: "button", pattern: `/^\s*reject all\s*$/i`},
	{selector: "button", pattern: `/^\s*decline\s*$/i`},
	{selector: "button", pattern: `/^\s*got it\s*$/i`},
	{selector: "button", pattern: `/^\s*accept all\s*$/i`},
	{selector: "button", pattern: `/^\s*accept\s*$/i`},
}

// removeOverlaysJS force-removes known overlay containers from the DOM.
// Last resort when no close affordance matched: this only affects the
// rendered evidence, never any server-side state.
const removeOverlaysJS = `() => {
	const selectors = [
		'[role="dialog"]',
		'[aria-modal="true"]',
		'.modal',
		'.Modal',
		'.overlay',
		'.Overlay',
		'#attentive_overlay',
		'#attentive_creative',
		'iframe[title*="Attentive"]',
	];
	for (const sel of selectors) {
		document.querySelectorAll(sel).forEach(el => el.remove());
	}
	// Modals often pin the page; restore scrolling for later captures.
	document.documentElement.style.overflow = '';
	document.body.style.overflow = '';
}`

// overlayPage is the page surface the dismissal loop drives. Every method is
// best-effort: failures inside an implementation read as "did not match".
type overlayPage interface {
	// clickFirst clicks the first affordance that exists, is visible and
	// accepts a click; reports whether anything was actuated.
	clickFirst(affs []affordance) bool

	// hasDialog reports whether a dialog-role element is still present.
	hasDialog() bool

	// pressEscape sends a cancel key signal.
	pressEscape()

	// removeOverlayNodes force-removes known overlay containers.
	removeOverlayNodes()

	// settle waits briefly for the UI to react.
	settle()
}

// suppressOverlays dismisses foreground overlays (consent banners, promo
// modals, generic dialogs) so later steps see the clean page. Advisory:
// it returns without raising regardless of page state.
func suppressOverlays(p overlayPage) {
	for pass := 0; pass < maxOverlayPasses; pass++ {
		actuated := p.clickFirst(dialogCloses)
		if p.clickFirst(consentCTAs) {
			actuated = true
		}
		p.pressEscape()
		p.settle()

		// Something closed; loop again for stacked overlays.
		if actuated {
			continue
		}

		if p.hasDialog() {
			p.removeOverlayNodes()
		}
		return
	}
}

// rodOverlayPage adapts a rod page to the overlayPage surface.
type rodOverlayPage struct {
	page         *rod.Page
	clickTimeout time.Duration
	settleDelay  time.Duration
}

func (o rodOverlayPage) clickFirst(affs []affordance) bool {
	// NotFoundSleeper makes lookups return immediately instead of polling:
	// most affordances will not be on any given page.
	p := o.page.Sleeper(rod.NotFoundSleeper)
	for _, a := range affs {
		var el *rod.Element
		var err error
		if a.pattern != "" {
			el, err = p.ElementR(a.selector, a.pattern)
		} else {
			el, err = p.Element(a.selector)
		}
		if err != nil || el == nil {
			continue
		}
		if visible, verr := el.Visible(); verr != nil || !visible {
			continue
		}
		el = el.Timeout(o.clickTimeout)
		if cerr := el.Click(proto.InputMouseButtonLeft, 1); cerr != nil {
			continue
		}
		return true
	}
	return false
}

func (o rodOverlayPage) hasDialog() bool {
	el, err := o.page.Sleeper(rod.NotFoundSleeper).Element("[role='dialog']")
	if err != nil || el == nil {
		return false
	}
	visible, err := el.Visible()
	return err == nil && visible
}

func (o rodOverlayPage) pressEscape() {
	_ = o.page.Keyboard.Press(input.Escape)
}

func (o rodOverlayPage) removeOverlayNodes() {
	_, _ = o.page.Eval(removeOverlaysJS)
}

func (o rodOverlayPage) settle() {
	select {
	case <-time.After(o.settleDelay):
	case <-o.page.GetContext().Done():
	}
}

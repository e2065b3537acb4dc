package capture

import (
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// expandTrigger scrolls a resolved trigger into view and actuates it once.
// Expansion is opportunistic: already-expanded sections, non-interactive
// anchors and mid-animation elements all fail harmlessly. The settle delay
// after actuation lets the collapse/expand animation and layout reflow
// finish before anything measures or screenshots the same element.
func (s *session) expandTrigger(trigger *rod.Element, settle time.Duration) {
	el := trigger.Timeout(s.cfg.ClickTimeout)
	if err := el.ScrollIntoView(); err != nil {
		slog.Debug("expand: scroll into view failed", "error", err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		slog.Debug("expand: click failed", "error", err)
	}
	s.settle(settle)
}

// scrollToAnchor brings a text anchor into the viewport. Used when a section
// has no trigger: the content is already visible, it just needs scrolling to.
func (s *session) scrollToAnchor(anchor *rod.Element) {
	if err := anchor.Timeout(s.cfg.ClickTimeout).ScrollIntoView(); err != nil {
		slog.Debug("expand: anchor scroll failed", "error", err)
	}
}

// sectionAction is what a capture step does with a located section.
type sectionAction int

const (
	// actionScrollPast scrolls past the hero so the fallback viewport shot
	// shows mid-page content instead of a duplicate top-of-page shot.
	actionScrollPast sectionAction = iota

	// actionClickTrigger actuates the trigger to expand the section.
	actionClickTrigger

	// actionScrollTrigger scrolls the trigger into view without clicking.
	// Toggle accordions collapse on a second click, so a section already
	// expanded during the baseline must not be actuated again.
	actionScrollTrigger

	// actionClickAnchor actuates a text anchor. Modal content has no inline
	// rendering, so even an anchor must be clicked to open it.
	actionClickAnchor

	// actionScrollAnchor scrolls a text anchor into view.
	actionScrollAnchor

	// actionNone leaves the viewport where it is.
	actionNone
)

// sectionActionFor decides how to actuate one located section target.
func sectionActionFor(tgt *SectionTarget, modal, expanded bool) sectionAction {
	switch {
	case tgt != nil && tgt.Trigger != nil:
		if expanded {
			return actionScrollTrigger
		}
		return actionClickTrigger
	case tgt != nil && tgt.Anchor != nil:
		if modal {
			return actionClickAnchor
		}
		return actionScrollAnchor
	case modal:
		return actionNone
	default:
		return actionScrollPast
	}
}

package capture

import (
	"fmt"
	"regexp"

	"github.com/go-rod/rod"
)

// SectionTarget is a resolved reference to a region of the live page: a
// trigger that can be clicked and/or a text anchor that can be scrolled to.
// It is a capability over live elements, valid only while the page is, and
// never persisted.
type SectionTarget struct {
	// Trigger is an interactive element expected to expand the section.
	Trigger *rod.Element

	// Anchor is a plain text node used purely for scrolling when no
	// trigger exists.
	Anchor *rod.Element
}

// Resolved reports whether the locator found anything at all.
func (t *SectionTarget) Resolved() bool {
	return t != nil && (t.Trigger != nil || t.Anchor != nil)
}

// triggerRoles are the selectors searched for an interactive trigger, in
// priority order: real buttons, disclosure summaries, generic clickable-role
// elements, then plain links. Links come last but must be present: size-chart
// affordances are often an <a> that opens the modal.
var triggerRoles = []string{"button", "summary", "[role='button']", "a"}

// anchorRoles are the text-bearing elements considered as scroll anchors.
const anchorRoles = "h1,h2,h3,h4,summary,p,span,div,a"

// locateFunc is one resolution strategy: a section name in, a target or nil
// out. Strategies never error; a miss is nil.
type locateFunc func(name string) *SectionTarget

// firstResolved evaluates strategies lazily in order and returns the first
// resolved target, or nil when the section is absent from the page. Absence
// is an expected outcome, not an error (not every PDP has every section).
func firstResolved(name string, strategies []locateFunc) *SectionTarget {
	for _, try := range strategies {
		if tgt := try(name); tgt.Resolved() {
			return tgt
		}
	}
	return nil
}

// containsPattern builds a rod js-regex matching the name as a whole word,
// case-insensitive, anywhere in the element's text.
func containsPattern(name string) string {
	return fmt.Sprintf(`/(^|[^\w])%s([^\w]|$)/i`, regexp.QuoteMeta(name))
}

// exactPattern builds a rod js-regex matching an element whose entire text
// is the name (modulo surrounding whitespace).
func exactPattern(name string) string {
	return fmt.Sprintf(`/^\s*%s\s*$/i`, regexp.QuoteMeta(name))
}

// locateSection resolves a semantic section name against the live page.
// Resolution order: interactive trigger across triggerRoles, then a plain
// text anchor. Returns nil when neither matches.
func (s *session) locateSection(names []string) *SectionTarget {
	p := s.page.Sleeper(rod.NotFoundSleeper)

	trigger := func(name string) *SectionTarget {
		for _, role := range triggerRoles {
			el, err := p.ElementR(role, containsPattern(name))
			if err != nil || el == nil {
				continue
			}
			if visible, verr := el.Visible(); verr != nil || !visible {
				continue
			}
			return &SectionTarget{Trigger: el}
		}
		return nil
	}

	anchor := func(name string) *SectionTarget {
		el, err := p.ElementR(anchorRoles, exactPattern(name))
		if err != nil || el == nil {
			return nil
		}
		return &SectionTarget{Anchor: el}
	}

	for _, name := range names {
		if tgt := firstResolved(name, []locateFunc{trigger, anchor}); tgt != nil {
			return tgt
		}
	}
	return nil
}

package capture

import (
	"testing"

	"github.com/go-rod/rod"
)

func TestFirstResolved_Order(t *testing.T) {
	var order []string
	miss := func(id string) locateFunc {
		return func(name string) *SectionTarget {
			order = append(order, id)
			return nil
		}
	}
	hit := func(id string) locateFunc {
		return func(name string) *SectionTarget {
			order = append(order, id)
			return &SectionTarget{Trigger: &rod.Element{}}
		}
	}

	tgt := firstResolved("Care", []locateFunc{miss("a"), hit("b"), hit("c")})
	if tgt == nil {
		t.Fatal("expected a resolved target")
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("evaluation order = %v, want [a b] (lazy, stops at first hit)", order)
	}
}

func TestFirstResolved_AllMiss(t *testing.T) {
	missing := func(name string) *SectionTarget { return nil }
	empty := func(name string) *SectionTarget { return &SectionTarget{} }

	if tgt := firstResolved("Care", []locateFunc{missing, empty}); tgt != nil {
		t.Errorf("expected nil for a section absent from the page, got %+v", tgt)
	}
}

func TestSectionTarget_Resolved(t *testing.T) {
	var nilTarget *SectionTarget
	if nilTarget.Resolved() {
		t.Error("nil target must report unresolved")
	}
	if (&SectionTarget{}).Resolved() {
		t.Error("empty target must report unresolved")
	}
	if !(&SectionTarget{Trigger: &rod.Element{}}).Resolved() {
		t.Error("trigger-only target must report resolved")
	}
	if !(&SectionTarget{Anchor: &rod.Element{}}).Resolved() {
		t.Error("anchor-only target must report resolved")
	}
}

func TestContainsPattern_EscapesMeta(t *testing.T) {
	got := containsPattern("Size & Fit")
	want := `/(^|[^\w])Size & Fit([^\w]|$)/i`
	if got != want {
		t.Errorf("containsPattern = %q, want %q", got, want)
	}

	// Regex metacharacters in a section name must be treated literally.
	got = containsPattern("Q+A")
	want = `/(^|[^\w])Q\+A([^\w]|$)/i`
	if got != want {
		t.Errorf("containsPattern = %q, want %q", got, want)
	}
}

func TestExactPattern(t *testing.T) {
	got := exactPattern("Care")
	want := `/^\s*Care\s*$/i`
	if got != want {
		t.Errorf("exactPattern = %q, want %q", got, want)
	}
}

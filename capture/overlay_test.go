package capture

import "testing"

// fakeOverlayPage scripts clickFirst outcomes per call and records what the
// dismissal loop did.
type fakeOverlayPage struct {
	clickScript []bool // consumed one per clickFirst call; default false
	dialog      bool

	clickCalls  int
	escapes     int
	settles     int
	removals    int
	dialogPolls int
}

func (f *fakeOverlayPage) clickFirst(affs []affordance) bool {
	f.clickCalls++
	if len(f.clickScript) == 0 {
		return false
	}
	next := f.clickScript[0]
	f.clickScript = f.clickScript[1:]
	return next
}

func (f *fakeOverlayPage) hasDialog() bool {
	f.dialogPolls++
	return f.dialog
}

func (f *fakeOverlayPage) pressEscape() { f.escapes++ }

func (f *fakeOverlayPage) removeOverlayNodes() {
	f.removals++
	f.dialog = false
}

func (f *fakeOverlayPage) settle() { f.settles++ }

func TestSuppressOverlays_CleanPage(t *testing.T) {
	p := &fakeOverlayPage{}
	suppressOverlays(p)

	// One pass: dialog closes + consent CTAs, nothing matched, no dialog left.
	if p.clickCalls != 2 {
		t.Errorf("clickFirst calls = %d, want 2", p.clickCalls)
	}
	if p.removals != 0 {
		t.Errorf("removals = %d, want 0 on a clean page", p.removals)
	}
	if p.escapes != 1 {
		t.Errorf("escapes = %d, want 1", p.escapes)
	}
}

func TestSuppressOverlays_StackedOverlays(t *testing.T) {
	// Pass 1 closes a promo modal, pass 2 closes the consent banner under
	// it, pass 3 finds nothing.
	p := &fakeOverlayPage{clickScript: []bool{true, false, false, true, false, false}}
	suppressOverlays(p)

	if p.clickCalls != 6 {
		t.Errorf("clickFirst calls = %d, want 6 (three passes)", p.clickCalls)
	}
	if p.removals != 0 {
		t.Errorf("removals = %d, want 0 when affordances worked", p.removals)
	}
}

func TestSuppressOverlays_StubbornDialog(t *testing.T) {
	// No affordance matches but a dialog is still visible: force removal.
	p := &fakeOverlayPage{dialog: true}
	suppressOverlays(p)

	if p.removals != 1 {
		t.Errorf("removals = %d, want 1", p.removals)
	}
}

func TestSuppressOverlays_PassBound(t *testing.T) {
	// A page whose overlays reappear forever must not loop forever.
	p := &fakeOverlayPage{clickScript: []bool{true, true, true, true, true, true, true, true}}
	suppressOverlays(p)

	if p.clickCalls > 2*maxOverlayPasses {
		t.Errorf("clickFirst calls = %d, want at most %d", p.clickCalls, 2*maxOverlayPasses)
	}
	if p.settles != maxOverlayPasses {
		t.Errorf("settles = %d, want %d", p.settles, maxOverlayPasses)
	}
}

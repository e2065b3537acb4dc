package capture

import (
	"log/slog"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// ancestorMaxHops bounds the container walk above a trigger.
const ancestorMaxHops = 8

// rodNode adapts a rod element to the domNode measurement capability.
type rodNode struct {
	el *rod.Element
}

func (n rodNode) Box() (Rect, bool) {
	shape, err := n.el.Shape()
	if err != nil || len(shape.Quads) == 0 {
		return Rect{}, false
	}
	box := shape.Box()
	return Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, true
}

func (n rodNode) Parent() (domNode, bool) {
	parent, err := n.el.Parent()
	if err != nil || parent == nil {
		return nil, false
	}
	return rodNode{el: parent}, true
}

// shootFullPage captures the full document at path. Used once per run for
// the baseline artifact; errors propagate so the session can log them, but
// the caller still falls back to a viewport shot on failure.
func (s *session) shootFullPage(path string) error {
	bin, err := s.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, bin, 0o644)
}

// shootViewport captures the current viewport at path. This is the
// guaranteed last resort: it succeeds as long as the page is alive, so every
// artifact key always gets a file.
func (s *session) shootViewport(path string) {
	bin, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		slog.Warn("capture: viewport screenshot failed", "path", path, "error", err)
		return
	}
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		slog.Warn("capture: write screenshot failed", "path", path, "error", err)
	}
}

// shootClip captures exactly the given page-coordinate rectangle.
// CaptureBeyondViewport lets a clip taller than the viewport (an expanded
// accordion) come out whole without scrolling.
func (s *session) shootClip(clip ClipRegion, path string) error {
	bin, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      clip.X,
			Y:      clip.Y,
			Width:  clip.Width,
			Height: clip.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, bin, 0o644)
}

// shootContainerClip resolves the clip container for a trigger by walking
// ancestors outward until one is at least MinContainerWidth wide, then
// captures the padded, clamped rectangle around it. Reports success.
func (s *session) shootContainerClip(trigger *rod.Element, path string) bool {
	_, box, ok := ancestorContainer(rodNode{el: trigger}, s.cfg.MinContainerWidth, ancestorMaxHops)
	if !ok {
		return false
	}
	clip := clipFor(box, clipBounds{
		Padding:   s.cfg.ClipPadding,
		MinHeight: s.cfg.ClipMinHeight,
		MaxHeight: s.cfg.ClipMaxHeight,
	})
	if err := s.shootClip(clip, path); err != nil {
		slog.Debug("capture: container clip failed", "path", path, "error", err)
		return false
	}
	return true
}

// shootDialogClip clips directly to a visible dialog element's bounding box.
// Used for sections presented as overlays (size-chart modals) instead of
// inline content.
func (s *session) shootDialogClip(path string) bool {
	el, err := s.page.Sleeper(rod.NotFoundSleeper).Element("[role='dialog']")
	if err != nil || el == nil {
		return false
	}
	if visible, verr := el.Visible(); verr != nil || !visible {
		return false
	}
	box, ok := rodNode{el: el}.Box()
	if !ok {
		return false
	}
	clip := clipFor(box, clipBounds{
		Padding:   s.cfg.ClipPadding,
		MinHeight: s.cfg.ClipMinHeight,
		MaxHeight: s.cfg.ClipMaxHeight,
	})
	if err := s.shootClip(clip, path); err != nil {
		slog.Debug("capture: dialog clip failed", "path", path, "error", err)
		return false
	}
	return true
}

// shootSection emits one section artifact via the fallback chain:
// container clip → modal clip → viewport. Modal-first sections (size chart)
// try the dialog clip before the ancestor walk since their content lives in
// an overlay, not inline. The chain never leaves the key unproduced.
func (s *session) shootSection(tgt *SectionTarget, modalFirst bool, path string) {
	if modalFirst && s.shootDialogClip(path) {
		return
	}
	if tgt != nil && tgt.Trigger != nil && s.shootContainerClip(tgt.Trigger, path) {
		return
	}
	if !modalFirst && s.shootDialogClip(path) {
		return
	}
	s.shootViewport(path)
}

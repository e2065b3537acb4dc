package capture

// Rect is an element bounding box in page pixel coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ClipRegion is the rectangle handed to the screenshot call. Invariants:
// X, Y >= 0 and Width/Height clamped into the configured bounds, for any
// input box including degenerate ones (zero-height collapsed triggers,
// off-screen negative origins).
type ClipRegion struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// clipBounds carries the clamp constants for clip computation.
type clipBounds struct {
	Padding   float64
	MinHeight float64
	MaxHeight float64
}

// clipFor derives a ClipRegion from a container bounding box. The box is
// padded on all sides, the origin is clamped to the page's top-left, and
// width/height are clamped into [MinHeight, MaxHeight]: accordion triggers
// can be a few pixels tall before expansion and unbounded after, and a
// screenshot must always be a legible, bounded rectangle.
func clipFor(box Rect, b clipBounds) ClipRegion {
	x := box.X - b.Padding
	y := box.Y - b.Padding
	w := box.Width + 2*b.Padding
	h := box.Height + 2*b.Padding

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	w = clamp(w, b.MinHeight, b.MaxHeight)
	h = clamp(h, b.MinHeight, b.MaxHeight)

	return ClipRegion{X: x, Y: y, Width: w, Height: h}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// domNode is the minimal DOM-measurement capability the ancestor walk needs.
// The rod adapter lives in shots.go; tests use fakes.
type domNode interface {
	// Box returns the node's bounding box, or false when the node has no
	// rendered geometry (display:none, detached).
	Box() (Rect, bool)

	// Parent returns the parent node, or false at the document root.
	Parent() (domNode, bool)
}

// ancestorContainer walks outward from the trigger's parent and returns the
// first ancestor whose rendered width is at least minWidth, rejecting narrow
// label-only wrappers. The walk is bounded by maxHops so a page with
// unusual nesting cannot stall a capture.
func ancestorContainer(trigger domNode, minWidth float64, maxHops int) (domNode, Rect, bool) {
	node, ok := trigger.Parent()
	for hop := 0; ok && hop < maxHops; hop++ {
		if box, measurable := node.Box(); measurable && box.Width >= minWidth {
			return node, box, true
		}
		node, ok = node.Parent()
	}
	return nil, Rect{}, false
}

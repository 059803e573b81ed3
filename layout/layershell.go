package layout

import "github.com/ktcwm/ktc/geometry"

// Anchor is the zwlr_layer_shell_v1 anchor bitmask: edges the surface
// is pinned to within its usable area.
type Anchor uint32

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

// Margin is the zwlr_layer_shell_v1 margin quad, in pixels, applied
// from the anchored edge(s).
type Margin struct {
	Top, Right, Bottom, Left int
}

// LayerGeometry computes the rectangle a layer surface should be
// configured with, given the usable screen area (after
// other surfaces' exclusive zones have reduced it), its anchors,
// desired size, and margins. desired dimensions of 0 mean "fill the
// margin-shrunken screen along that axis".
func LayerGeometry(usable geometry.Rect, anchors Anchor, desiredW, desiredH int, m Margin) geometry.Rect {
	x, w := horizontal(usable.W, anchors, desiredW, m)
	y, h := vertical(usable.H, anchors, desiredH, m)
	return geometry.Rect{X: usable.X + x, Y: usable.Y + y, W: w, H: h}
}

func horizontal(screenW int, anchors Anchor, dw int, m Margin) (x, w int) {
	if dw == 0 {
		return m.Left, screenW - m.Left - m.Right
	}
	anchoredLeft := anchors&AnchorLeft != 0
	anchoredRight := anchors&AnchorRight != 0
	switch {
	case anchoredLeft && anchoredRight:
		return (screenW - dw) / 2, dw
	case anchoredLeft:
		return m.Left, dw
	case anchoredRight:
		return screenW - dw - m.Right, dw
	default:
		return (screenW - dw) / 2, dw
	}
}

func vertical(screenH int, anchors Anchor, dh int, m Margin) (y, h int) {
	if dh == 0 {
		return m.Top, screenH - m.Top - m.Bottom
	}
	anchoredTop := anchors&AnchorTop != 0
	anchoredBottom := anchors&AnchorBottom != 0
	switch {
	case anchoredTop && anchoredBottom:
		return (screenH - dh) / 2, dh
	case anchoredTop:
		return m.Top, dh
	case anchoredBottom:
		return screenH - dh - m.Bottom, dh
	default:
		return (screenH - dh) / 2, dh
	}
}

// ExclusiveReservation returns how many pixels an anchored layer
// surface with the given exclusive zone reserves from the usable area,
// and along which single edge. A zone <= 0 reserves nothing: zero
// means no reservation, negative opts the surface out of respecting
// others' reservations without itself expanding the usable area.
func ExclusiveReservation(anchors Anchor, zone int) (edge Anchor, pixels int) {
	if zone <= 0 {
		return 0, 0
	}
	switch {
	case anchors == AnchorTop, anchors == AnchorTop|AnchorLeft, anchors == AnchorTop|AnchorRight, anchors == AnchorTop|AnchorLeft|AnchorRight:
		return AnchorTop, zone
	case anchors == AnchorBottom, anchors == AnchorBottom|AnchorLeft, anchors == AnchorBottom|AnchorRight, anchors == AnchorBottom|AnchorLeft|AnchorRight:
		return AnchorBottom, zone
	case anchors == AnchorLeft, anchors == AnchorLeft|AnchorTop, anchors == AnchorLeft|AnchorBottom, anchors == AnchorLeft|AnchorTop|AnchorBottom:
		return AnchorLeft, zone
	case anchors == AnchorRight, anchors == AnchorRight|AnchorTop, anchors == AnchorRight|AnchorBottom, anchors == AnchorRight|AnchorTop|AnchorBottom:
		return AnchorRight, zone
	default:
		return 0, 0
	}
}

// ShrinkUsable applies a single-edge reservation to a usable rect.
func ShrinkUsable(usable geometry.Rect, edge Anchor, pixels int) geometry.Rect {
	switch edge {
	case AnchorTop:
		return geometry.Rect{X: usable.X, Y: usable.Y + pixels, W: usable.W, H: usable.H - pixels}
	case AnchorBottom:
		return geometry.Rect{X: usable.X, Y: usable.Y, W: usable.W, H: usable.H - pixels}
	case AnchorLeft:
		return geometry.Rect{X: usable.X + pixels, Y: usable.Y, W: usable.W - pixels, H: usable.H}
	case AnchorRight:
		return geometry.Rect{X: usable.X, Y: usable.Y, W: usable.W - pixels, H: usable.H}
	default:
		return usable
	}
}

package geometry

// DamageState is the DamageTracker's coarse state.
type DamageState int

const (
	DamageClean DamageState = iota
	DamagePartial
	DamageFull
)

// MaxPartialRects is the number of disjoint rectangles a partial
// damage accumulation can hold before escalating to full.
const MaxPartialRects = 16

// DamageTracker accumulates screen-space damage between frames.
type DamageTracker struct {
	state      DamageState
	rects      []Rect
	cursorOnly bool
	frame      uint64
	screen     Rect
}

// NewDamageTracker creates a tracker bound to a screen rectangle, used
// to compute the full-damage rectangle on escalation.
func NewDamageTracker(screen Rect) *DamageTracker {
	return &DamageTracker{screen: screen}
}

// SetScreen updates the screen rectangle used by Full/escalation.
func (d *DamageTracker) SetScreen(screen Rect) { d.screen = screen }

// State reports the tracker's current coarse state.
func (d *DamageTracker) State() DamageState { return d.state }

// CursorOnly reports whether the only accumulated change is a cursor
// move, consumed by the renderer's cursor-only fast path.
func (d *DamageTracker) CursorOnly() bool { return d.state == DamagePartial && d.cursorOnly }

// Frame returns the number of times Clear has been called.
func (d *DamageTracker) Frame() uint64 { return d.frame }

// Add appends a damage rectangle. Adding more than MaxPartialRects
// disjoint rectangles escalates to full damage; an empty rectangle is
// ignored. Adding damage clears any pending cursor-only flag, since a
// non-cursor change has now occurred.
func (d *DamageTracker) Add(r Rect) {
	if r.IsEmpty() || d.state == DamageFull {
		return
	}
	d.cursorOnly = false
	if len(d.rects) >= MaxPartialRects {
		d.escalate()
		return
	}
	d.rects = append(d.rects, r)
	d.state = DamagePartial
}

// AddCursor records a cursor-only move: the union of the cursor's old
// and new bounds. It only sets the cursor-only flag when the tracker
// was clean beforehand; damage already pending from content changes is
// not downgraded to cursor-only.
func (d *DamageTracker) AddCursor(oldBounds, newBounds Rect) {
	wasClean := d.state == DamageClean
	d.Add(oldBounds.Union(newBounds))
	if wasClean && d.state == DamagePartial {
		d.cursorOnly = true
	}
}

func (d *DamageTracker) escalate() {
	d.state = DamageFull
	d.rects = nil
}

// Full forces full-screen damage, e.g. on workspace switch or mode
// change.
func (d *DamageTracker) Full() {
	d.escalate()
}

// Merged returns the rectangle the renderer should restrict drawing
// to: the full screen when DamageFull, the union of all partial
// rectangles when DamagePartial, or an empty rect when clean.
func (d *DamageTracker) Merged() Rect {
	switch d.state {
	case DamageFull:
		return d.screen
	case DamagePartial:
		var out Rect
		for _, r := range d.rects {
			out = out.Union(r)
		}
		return out
	default:
		return Rect{}
	}
}

// Rects returns the disjoint partial rectangles, valid only when
// State() == DamagePartial.
func (d *DamageTracker) Rects() []Rect {
	return append([]Rect(nil), d.rects...)
}

// Clear resets the tracker to clean and advances the frame counter.
func (d *DamageTracker) Clear() {
	d.state = DamageClean
	d.rects = nil
	d.cursorOnly = false
	d.frame++
}

package compositor

import "github.com/ktcwm/ktc/geometry"

// FocusState tracks which window currently owns keyboard and pointer
// focus plus the last known cursor position.
type FocusState struct {
	Keyboard *WindowID
	Pointer  *WindowID
	CursorX  int
	CursorY  int
}

// KeyboardEvent is the leave/enter pair a focus change must send, in
// order, with strictly increasing serials.
type KeyboardEvent struct {
	Kind    KeyboardEventKind
	Serial  uint32
	Window  WindowID
}

type KeyboardEventKind int

const (
	KeyboardLeave KeyboardEventKind = iota
	KeyboardEnter
)

// SetKeyboardFocus transitions keyboard focus to newFocus (nil clears
// it), returning the leave/enter events to dispatch in order. The
// leave event (if any) always carries a strictly smaller serial than
// the enter event. Focusing the already-focused window
// is a no-op producing no events.
func (f *FocusState) SetKeyboardFocus(newFocus *WindowID, serials *SerialCounter) []KeyboardEvent {
	if samePtr(f.Keyboard, newFocus) {
		return nil
	}
	var events []KeyboardEvent
	if f.Keyboard != nil {
		events = append(events, KeyboardEvent{Kind: KeyboardLeave, Serial: serials.Next(), Window: *f.Keyboard})
	}
	if newFocus != nil {
		events = append(events, KeyboardEvent{Kind: KeyboardEnter, Serial: serials.Next(), Window: *newFocus})
	}
	f.Keyboard = newFocus
	return events
}

func samePtr(a, b *WindowID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// PointerEvent mirrors KeyboardEvent for pointer enter/leave.
type PointerEvent struct {
	Kind   KeyboardEventKind
	Serial uint32
	Window WindowID
}

// SetPointerFocus transitions pointer focus on motion, following the
// same ordering contract as keyboard focus.
func (f *FocusState) SetPointerFocus(newFocus *WindowID, serials *SerialCounter) []PointerEvent {
	if samePtr(f.Pointer, newFocus) {
		return nil
	}
	var events []PointerEvent
	if f.Pointer != nil {
		events = append(events, PointerEvent{Kind: KeyboardLeave, Serial: serials.Next(), Window: *f.Pointer})
	}
	if newFocus != nil {
		events = append(events, PointerEvent{Kind: KeyboardEnter, Serial: serials.Next(), Window: *newFocus})
	}
	f.Pointer = newFocus
	return events
}

// Motion updates the cursor position and returns the old and new
// cursor rectangles, which together cover the damaged area. w and h
// are the cursor's current width/height.
func (f *FocusState) Motion(x, y, w, h int) (old, cur geometry.Rect) {
	old = geometry.Rect{X: f.CursorX, Y: f.CursorY, W: w, H: h}
	f.CursorX, f.CursorY = x, y
	cur = geometry.Rect{X: x, Y: y, W: w, H: h}
	return old, cur
}

// HitTest finds the topmost mapped window under (x, y), walking in
// reverse z-order: callers pass windows already sorted back-to-front
// as drawn, and HitTest walks the slice in reverse to find the
// frontmost hit.
func HitTest(windows []*Window, x, y int) (WindowID, bool) {
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if !w.Mapped {
			continue
		}
		r := w.Geometry
		if x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H {
			return w.ID, true
		}
	}
	return 0, false
}

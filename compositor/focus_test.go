package compositor

import (
	"testing"

	"github.com/ktcwm/ktc/geometry"
)

func TestSetKeyboardFocusNoopWhenUnchanged(t *testing.T) {
	var f FocusState
	var s SerialCounter
	id := WindowID(1)
	f.SetKeyboardFocus(&id, &s)
	events := f.SetKeyboardFocus(&id, &s)
	if events != nil {
		t.Errorf("expected no events refocusing the same window, got %v", events)
	}
}

func TestSetKeyboardFocusLeaveBeforeEnterWithIncreasingSerials(t *testing.T) {
	var f FocusState
	var s SerialCounter
	a := WindowID(1)
	b := WindowID(2)
	f.SetKeyboardFocus(&a, &s)

	events := f.SetKeyboardFocus(&b, &s)
	if len(events) != 2 {
		t.Fatalf("expected leave+enter, got %v", events)
	}
	if events[0].Kind != KeyboardLeave || events[0].Window != a {
		t.Errorf("first event = %+v, want leave(A)", events[0])
	}
	if events[1].Kind != KeyboardEnter || events[1].Window != b {
		t.Errorf("second event = %+v, want enter(B)", events[1])
	}
	if events[1].Serial <= events[0].Serial {
		t.Errorf("enter serial %d should exceed leave serial %d", events[1].Serial, events[0].Serial)
	}
}

func TestSetKeyboardFocusClear(t *testing.T) {
	var f FocusState
	var s SerialCounter
	a := WindowID(1)
	f.SetKeyboardFocus(&a, &s)
	events := f.SetKeyboardFocus(nil, &s)
	if len(events) != 1 || events[0].Kind != KeyboardLeave {
		t.Errorf("expected a single leave event clearing focus, got %v", events)
	}
	if f.Keyboard != nil {
		t.Error("expected focus cleared")
	}
}

func TestMotionTracksCursorAndReturnsDamageBounds(t *testing.T) {
	var f FocusState
	old, cur := f.Motion(100, 100, 16, 16)
	if old.X != 0 || old.Y != 0 {
		t.Errorf("old = %+v, want origin", old)
	}
	if cur.X != 100 || cur.Y != 100 {
		t.Errorf("cur = %+v", cur)
	}
	if f.CursorX != 100 || f.CursorY != 100 {
		t.Errorf("cursor not updated: %d,%d", f.CursorX, f.CursorY)
	}
}

func TestHitTestReverseZOrder(t *testing.T) {
	a := &Window{ID: 1, Mapped: true, Geometry: geometry.Rect{X: 0, Y: 0, W: 100, H: 100}}
	b := &Window{ID: 2, Mapped: true, Geometry: geometry.Rect{X: 50, Y: 50, W: 100, H: 100}}
	windows := []*Window{a, b}

	id, ok := HitTest(windows, 75, 75)
	if !ok || id != 2 {
		t.Errorf("expected topmost window 2 in overlap region, got %d, %v", id, ok)
	}

	id, ok = HitTest(windows, 10, 10)
	if !ok || id != 1 {
		t.Errorf("expected window 1 outside overlap, got %d, %v", id, ok)
	}

	if _, ok := HitTest(windows, 500, 500); ok {
		t.Error("expected no hit outside any window")
	}
}

func TestHitTestSkipsUnmapped(t *testing.T) {
	a := &Window{ID: 1, Mapped: false, Geometry: geometry.Rect{X: 0, Y: 0, W: 100, H: 100}}
	if _, ok := HitTest([]*Window{a}, 10, 10); ok {
		t.Error("unmapped window should never be hit")
	}
}

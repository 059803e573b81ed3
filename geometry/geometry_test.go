package geometry

import "testing"

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 5, W: 10, H: 10}
	got := a.Union(b)
	want := Rect{X: 0, Y: 0, W: 15, H: 15}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRectUnionWithEmpty(t *testing.T) {
	a := Rect{X: 1, Y: 2, W: 3, H: 4}
	empty := Rect{}
	if got := a.Union(empty); got != a {
		t.Errorf("union with empty changed rect: %+v", got)
	}
	if got := empty.Union(a); got != a {
		t.Errorf("union with empty changed rect: %+v", got)
	}
}

func TestRectIsEmpty(t *testing.T) {
	cases := []struct {
		r     Rect
		empty bool
	}{
		{Rect{0, 0, 0, 5}, true},
		{Rect{0, 0, 5, 0}, true},
		{Rect{0, 0, -1, 5}, true},
		{Rect{0, 0, 5, 5}, false},
	}
	for _, c := range cases {
		if got := c.r.IsEmpty(); got != c.empty {
			t.Errorf("%+v.IsEmpty() = %v, want %v", c.r, got, c.empty)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 10, 10}
	got := a.Intersect(b)
	want := Rect{5, 5, 5, 5}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	disjoint := Rect{20, 20, 5, 5}
	if got := a.Intersect(disjoint); !got.IsEmpty() {
		t.Errorf("expected empty intersection, got %+v", got)
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{0, 0, 50, 30}
	got := r.Clamp(100, 100)
	if got.W != 100 || got.H != 100 {
		t.Errorf("got %+v", got)
	}
}

func TestDamageTrackerCleanByDefault(t *testing.T) {
	d := NewDamageTracker(Rect{0, 0, 1920, 1080})
	if d.State() != DamageClean {
		t.Fatal("new tracker should be clean")
	}
	if got := d.Merged(); !got.IsEmpty() {
		t.Errorf("clean merged should be empty, got %+v", got)
	}
}

func TestDamageTrackerPartialMerges(t *testing.T) {
	d := NewDamageTracker(Rect{0, 0, 1920, 1080})
	d.Add(Rect{0, 0, 10, 10})
	d.Add(Rect{100, 100, 10, 10})
	if d.State() != DamagePartial {
		t.Fatalf("state = %v", d.State())
	}
	if len(d.Rects()) != 2 {
		t.Fatalf("rects = %v", d.Rects())
	}
	want := Rect{0, 0, 110, 110}
	if got := d.Merged(); got != want {
		t.Errorf("merged = %+v, want %+v", got, want)
	}
}

func TestDamageTrackerEscalatesPastSixteen(t *testing.T) {
	screen := Rect{0, 0, 800, 600}
	d := NewDamageTracker(screen)
	for i := 0; i < MaxPartialRects; i++ {
		d.Add(Rect{X: i, Y: i, W: 1, H: 1})
	}
	if d.State() != DamagePartial {
		t.Fatalf("expected still partial at %d rects, got %v", MaxPartialRects, d.State())
	}
	d.Add(Rect{X: 999, Y: 999, W: 1, H: 1})
	if d.State() != DamageFull {
		t.Fatalf("expected escalation to full, got %v", d.State())
	}
	if got := d.Merged(); got != screen {
		t.Errorf("full damage should merge to screen rect, got %+v", got)
	}
}

func TestDamageTrackerCursorOnly(t *testing.T) {
	d := NewDamageTracker(Rect{0, 0, 1920, 1080})
	d.AddCursor(Rect{0, 0, 16, 16}, Rect{10, 10, 16, 16})
	if !d.CursorOnly() {
		t.Fatal("expected cursor-only damage")
	}
	d.Add(Rect{500, 500, 20, 20})
	if d.CursorOnly() {
		t.Fatal("content damage should clear cursor-only flag")
	}
}

func TestDamageTrackerClearResetsAndAdvancesFrame(t *testing.T) {
	d := NewDamageTracker(Rect{0, 0, 100, 100})
	d.Add(Rect{0, 0, 10, 10})
	if d.Frame() != 0 {
		t.Fatalf("frame = %d before first clear", d.Frame())
	}
	d.Clear()
	if d.State() != DamageClean {
		t.Fatal("expected clean after clear")
	}
	if d.Frame() != 1 {
		t.Fatalf("frame = %d, want 1", d.Frame())
	}
}

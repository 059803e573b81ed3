package layout

import (
	"testing"

	"github.com/ktcwm/ktc/geometry"
)

func TestTileOneWindow(t *testing.T) {
	got := Tile(0, 1, 1920, 1080)
	want := geometry.Rect{X: 0, Y: 0, W: 1920, H: 1080}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestTileTwoWindows(t *testing.T) {
	left := Tile(0, 2, 1920, 1080)
	right := Tile(1, 2, 1920, 1080)
	if want := (geometry.Rect{0, 0, 960, 1080}); left != want {
		t.Errorf("left = %+v, want %+v", left, want)
	}
	if want := (geometry.Rect{960, 0, 960, 1080}); right != want {
		t.Errorf("right = %+v, want %+v", right, want)
	}
}

func TestTileOddWidthTwoWindows(t *testing.T) {
	left := Tile(0, 2, 1001, 500)
	right := Tile(1, 2, 1001, 500)
	if left.W+right.W != 1001 {
		t.Errorf("widths %d + %d != 1001", left.W, right.W)
	}
}

func TestTileGridCoversScreenExactly(t *testing.T) {
	for _, n := range []int{3, 4, 5, 7, 9, 10} {
		rects := TileAll(n, 1920, 1080)
		if len(rects) != n {
			t.Fatalf("n=%d: got %d rects", n, len(rects))
		}
		// Column totals must sum to the screen width along row 0, and
		// every cell must be within the screen bounds.
		var totalArea, row0W int
		for _, r := range rects {
			if r.X < 0 || r.Y < 0 || r.X+r.W > 1920 || r.Y+r.H > 1080 {
				t.Errorf("n=%d: rect %+v out of bounds", n, r)
			}
			if r.Y == 0 {
				row0W += r.W
			}
			totalArea += r.W * r.H
		}
		if row0W != 1920 {
			t.Errorf("n=%d: row 0 widths sum to %d, want 1920", n, row0W)
		}
		_ = totalArea
	}
}

func TestTileGridPartitionsExactlyForThree(t *testing.T) {
	// cols = ceil(sqrt(3)) = 2, rows = ceil(3/2) = 2
	rects := TileAll(3, 100, 100)
	// row 0: two cells side by side, each clamped up to 100 wide
	if rects[0].X+rects[0].W != rects[1].X {
		t.Errorf("row0 cells not adjacent: %+v %+v", rects[0], rects[1])
	}
	if rects[0].Y != 0 || rects[1].Y != 0 {
		t.Errorf("expected row 0 cells at y=0")
	}
	// row 1: single cell (index 2) at y = row0 height
	if rects[2].Y != rects[0].H {
		t.Errorf("row1 y = %d, want %d", rects[2].Y, rects[0].H)
	}
}

func TestTileClampsMinimumSize(t *testing.T) {
	rects := TileAll(9, 50, 50)
	for _, r := range rects {
		if r.W < MinCellWidth || r.H < MinCellHeight {
			t.Errorf("cell %+v below minimum", r)
		}
	}
}

func TestTileZeroWindowsUndefinedReturnsEmpty(t *testing.T) {
	if got := Tile(0, 0, 1920, 1080); !got.IsEmpty() {
		t.Errorf("n=0 should yield empty rect, got %+v", got)
	}
	if got := TileAll(0, 1920, 1080); got != nil {
		t.Errorf("n=0 TileAll should be nil, got %v", got)
	}
}

func TestTileIdempotent(t *testing.T) {
	a := TileAll(5, 1920, 1080)
	b := TileAll(5, 1920, 1080)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("relayout not idempotent at %d: %+v != %+v", i, a[i], b[i])
		}
	}
}

func TestTileFlagsFor(t *testing.T) {
	f := TileFlagsFor(0, 2, 1920, 1080, true)
	if !f.TiledLeft || f.TiledRight {
		t.Errorf("left window flags: %+v", f)
	}
	if !f.Activated {
		t.Error("expected activated")
	}
	f2 := TileFlagsFor(1, 2, 1920, 1080, false)
	if !f2.TiledRight || f2.TiledLeft {
		t.Errorf("right window flags: %+v", f2)
	}
}

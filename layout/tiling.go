// Package layout implements the pure-function tiling grid and
// layer-shell anchored geometry. Neither function touches compositor
// state; they take a window count/screen or a layer surface's
// anchor/size/margins and return rectangles.
package layout

import (
	"math"

	"github.com/ktcwm/ktc/geometry"
)

// MinCellWidth and MinCellHeight are the floor every tiled cell is
// clamped to.
const (
	MinCellWidth  = 100
	MinCellHeight = 100
)

// Tile computes the rectangle for window index `idx` (0-based) out of
// n windows on a W x H screen.
//
//   - n == 0 is undefined; callers must not call Tile with n == 0.
//   - n == 1 gives the full screen.
//   - n == 2 splits left/right.
//   - n >= 3 lays out a cols = ceil(sqrt(n)), rows = ceil(n/cols) grid,
//     with the remainder columns/rows widened by one pixel so the
//     screen is covered exactly. Each cell is clamped to at least
//     MinCellWidth x MinCellHeight and placed after the clamped cells
//     before it, so on a screen too small for the grid the cells run
//     past its edge instead of overlapping.
func Tile(idx, n, w, h int) geometry.Rect {
	switch {
	case n <= 0:
		return geometry.Rect{}
	case n == 1:
		return geometry.Rect{X: 0, Y: 0, W: w, H: h}.Clamp(MinCellWidth, MinCellHeight)
	case n == 2:
		if idx == 0 {
			return geometry.Rect{X: 0, Y: 0, W: w / 2, H: h}.Clamp(MinCellWidth, MinCellHeight)
		}
		return geometry.Rect{X: w / 2, Y: 0, W: w - w/2, H: h}.Clamp(MinCellWidth, MinCellHeight)
	default:
		return tileGrid(idx, n, w, h)
	}
}

func tileGrid(idx, n, w, h int) geometry.Rect {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	col := idx % cols
	row := idx / cols

	baseW, remW := w/cols, w%cols
	baseH, remH := h/rows, h%rows

	cellW := func(c int) int {
		if c < remW {
			return max(baseW+1, MinCellWidth)
		}
		return max(baseW, MinCellWidth)
	}
	cellH := func(r int) int {
		if r < remH {
			return max(baseH+1, MinCellHeight)
		}
		return max(baseH, MinCellHeight)
	}

	x := 0
	for c := 0; c < col; c++ {
		x += cellW(c)
	}
	y := 0
	for r := 0; r < row; r++ {
		y += cellH(r)
	}

	return geometry.Rect{X: x, Y: y, W: cellW(col), H: cellH(row)}.Clamp(MinCellWidth, MinCellHeight)
}

// TileAll returns the rectangle for every one of n windows on a W x H
// screen, in index order.
func TileAll(n, w, h int) []geometry.Rect {
	if n <= 0 {
		return nil
	}
	out := make([]geometry.Rect, n)
	for i := range out {
		out[i] = Tile(i, n, w, h)
	}
	return out
}

// TileStateFlags describes the configure flags a tiled window's
// client should receive: which edges it is tiled against, and whether
// it is the focused window.
type TileStateFlags struct {
	TiledLeft, TiledRight, TiledTop, TiledBottom bool
	Activated                                    bool
}

// TileFlagsFor derives the tiled-edge flags for window idx of n on a
// W x H screen from its own computed rectangle.
func TileFlagsFor(idx, n, w, h int, activated bool) TileStateFlags {
	r := Tile(idx, n, w, h)
	return TileStateFlags{
		TiledLeft:   r.X == 0,
		TiledTop:    r.Y == 0,
		TiledRight:  r.X+r.W >= w,
		TiledBottom: r.Y+r.H >= h,
		Activated:   activated,
	}
}

package layout

import (
	"testing"

	"github.com/ktcwm/ktc/geometry"
)

func TestLayerGeometryFillsOnZeroSize(t *testing.T) {
	usable := geometry.Rect{X: 0, Y: 0, W: 1920, H: 1080}
	m := Margin{Top: 5, Right: 5, Bottom: 5, Left: 5}
	got := LayerGeometry(usable, AnchorTop|AnchorLeft|AnchorRight, 0, 0, m)
	if got.X != 5 || got.W != 1920-10 {
		t.Errorf("got %+v", got)
	}
}

func TestLayerGeometryAnchoredBothSidesCenters(t *testing.T) {
	usable := geometry.Rect{X: 0, Y: 0, W: 1000, H: 500}
	got := LayerGeometry(usable, AnchorLeft|AnchorRight|AnchorTop, 200, 100, Margin{})
	if got.X != 400 {
		t.Errorf("x = %d, want 400", got.X)
	}
}

func TestLayerGeometryAnchoredLeftOnly(t *testing.T) {
	usable := geometry.Rect{X: 0, Y: 0, W: 1000, H: 500}
	got := LayerGeometry(usable, AnchorLeft|AnchorTop, 200, 100, Margin{Left: 10})
	if got.X != 10 {
		t.Errorf("x = %d, want 10", got.X)
	}
}

func TestLayerGeometryAnchoredRightOnly(t *testing.T) {
	usable := geometry.Rect{X: 0, Y: 0, W: 1000, H: 500}
	got := LayerGeometry(usable, AnchorRight|AnchorTop, 200, 100, Margin{Right: 10})
	if got.X != 1000-200-10 {
		t.Errorf("x = %d, want %d", got.X, 1000-200-10)
	}
}

func TestLayerGeometryUnanchoredHorizontalCenters(t *testing.T) {
	usable := geometry.Rect{X: 0, Y: 0, W: 1000, H: 500}
	got := LayerGeometry(usable, AnchorTop, 200, 100, Margin{})
	if got.X != 400 {
		t.Errorf("x = %d, want 400", got.X)
	}
}

func TestExclusiveReservationZeroMeansNone(t *testing.T) {
	edge, px := ExclusiveReservation(AnchorTop, 0)
	if edge != 0 || px != 0 {
		t.Errorf("got %v/%d", edge, px)
	}
}

func TestExclusiveReservationNegativeOptsOut(t *testing.T) {
	edge, px := ExclusiveReservation(AnchorTop, -1)
	if edge != 0 || px != 0 {
		t.Errorf("negative zone should reserve nothing, got %v/%d", edge, px)
	}
}

func TestExclusiveReservationPositiveReservesEdge(t *testing.T) {
	edge, px := ExclusiveReservation(AnchorTop|AnchorLeft|AnchorRight, 30)
	if edge != AnchorTop || px != 30 {
		t.Errorf("got %v/%d", edge, px)
	}
}

func TestShrinkUsableTop(t *testing.T) {
	usable := geometry.Rect{X: 0, Y: 0, W: 1920, H: 1080}
	got := ShrinkUsable(usable, AnchorTop, 30)
	want := geometry.Rect{X: 0, Y: 30, W: 1920, H: 1050}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

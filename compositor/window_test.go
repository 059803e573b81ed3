package compositor

import (
	"testing"

	"github.com/ktcwm/ktc/geometry"
)

func TestWindowCommitMapsOnBuffer(t *testing.T) {
	w := &Window{Geometry: geometry.Rect{X: 10, Y: 20, W: 100, H: 100}}
	w.Attach(5)
	w.AddDamage(geometry.Rect{X: 0, Y: 0, W: 10, H: 10})
	w.QueueFrameCallback(99)

	released, damage, callbacks := w.Commit(24)
	if released != 0 {
		t.Errorf("expected no prior buffer released, got %d", released)
	}
	if !w.Mapped {
		t.Error("expected mapped after commit with a buffer")
	}
	if len(damage) != 1 || damage[0].X != 10 || damage[0].Y != 44 {
		t.Errorf("damage not translated to screen coords: %+v", damage)
	}
	if len(callbacks) != 1 || callbacks[0] != 99 {
		t.Errorf("callbacks = %v", callbacks)
	}
}

func TestWindowCommitUnmapsOnNullBuffer(t *testing.T) {
	w := &Window{}
	w.Attach(5)
	w.Commit(0)
	if !w.Mapped {
		t.Fatal("expected mapped after first buffer commit")
	}
	w.Attach(0)
	w.Commit(0)
	if w.Mapped {
		t.Error("expected unmapped after null-buffer commit")
	}
}

func TestWindowCommitReleasesPreviousBufferExactlyOnce(t *testing.T) {
	w := &Window{}
	w.Attach(1)
	w.Commit(0)
	w.Attach(2)
	released, _, _ := w.Commit(0)
	if released != 1 {
		t.Errorf("expected previous buffer id 1 released, got %d", released)
	}
}

func TestWindowCommitWithoutAttachIsNoop(t *testing.T) {
	w := &Window{}
	released, _, _ := w.Commit(0)
	if released != 0 || w.Mapped {
		t.Error("commit without any attach should leave the surface unmapped")
	}
}

func TestLayerSurfaceCommitMapping(t *testing.T) {
	l := &LayerSurface{}
	l.Attach(7)
	_, mapped, _, _ := l.Commit()
	if !mapped {
		t.Error("expected layer surface mapped after buffer commit")
	}
}

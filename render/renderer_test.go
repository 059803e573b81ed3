package render

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/texture"
)

type fakeDRM struct {
	flips      int
	setCrtcs   int
	flipErr    error
	vblankDone bool
}

func (f *fakeDRM) Fd() int               { return -1 }
func (f *fakeDRM) Modes() ([]Mode, error) { return []Mode{{Width: 1920, Height: 1080, RefreshMHz: 60000}}, nil }
func (f *fakeDRM) SetCrtc(fb FB, mode Mode) error {
	f.setCrtcs++
	return nil
}
func (f *fakeDRM) PageFlip(fb FB) error {
	f.flips++
	return f.flipErr
}
func (f *fakeDRM) PollVblank(budget time.Duration) (bool, error) {
	return f.vblankDone, nil
}

type fakeBO struct{ handle uint32 }

func (b *fakeBO) Handle() uint32 { return b.handle }
func (b *fakeBO) Stride() uint32 { return 4096 }

type fakeGBM struct {
	locked   int
	released int
}

func (g *fakeGBM) LockFrontBuffer() (GBMBuffer, error) {
	g.locked++
	return &fakeBO{handle: uint32(g.locked)}, nil
}
func (g *fakeGBM) ReleaseBuffer(b GBMBuffer) error {
	g.released++
	return nil
}

type fakeFramebuffer struct {
	added   int
	removed int
}

func (f *fakeFramebuffer) AddFB(bo GBMBuffer, w, h int) (FB, error) {
	f.added++
	return FB(bo.Handle()), nil
}
func (f *fakeFramebuffer) RemoveFB(fb FB) error {
	f.removed++
	return nil
}

type fakeGPU struct{ swaps int }

func (g *fakeGPU) MakeCurrent() error { return nil }
func (g *fakeGPU) SwapBuffers() error { g.swaps++; return nil }

type fakeBackend struct {
	began, cleared, ended int
}

func (b *fakeBackend) BeginFrame() error { b.began++; return nil }
func (b *fakeBackend) Clear(rgba uint32) { b.cleared++ }
func (b *fakeBackend) DrawRect(r geometry.Rect, rgba uint32) {}
func (b *fakeBackend) DrawTexture(h texture.Handle, r geometry.Rect, external bool) {}
func (b *fakeBackend) DrawText(x, y int, s string, rgba uint32) {}
func (b *fakeBackend) EndFrame() error { b.ended++; return nil }

func TestRunFrameSkipsWhenNotDirty(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPresenter(&fakeDRM{}, &fakeFramebuffer{}, &fakeGBM{}, &fakeGPU{}, backend, Mode{Width: 100, Height: 100})
	if err := p.RunFrame(0, false, func(Backend) {}); err != nil {
		t.Fatal(err)
	}
	if backend.began != 0 {
		t.Error("expected no drawing when not dirty")
	}
}

func TestRunFrameFirstFrameDoesModeSet(t *testing.T) {
	drm := &fakeDRM{}
	gbm := &fakeGBM{}
	fb := &fakeFramebuffer{}
	gpu := &fakeGPU{}
	backend := &fakeBackend{}
	p := NewPresenter(drm, fb, gbm, gpu, backend, Mode{Width: 100, Height: 100})

	drew := false
	if err := p.RunFrame(0xff000000, true, func(Backend) { drew = true }); err != nil {
		t.Fatal(err)
	}
	if !drew {
		t.Error("expected draw callback invoked")
	}
	if drm.setCrtcs != 1 {
		t.Errorf("expected mode-set on first frame, got %d set_crtc calls", drm.setCrtcs)
	}
	if drm.flips != 0 {
		t.Errorf("expected no page-flip attempt on first frame, got %d", drm.flips)
	}
}

func TestRunFrameSubsequentFramesPageFlip(t *testing.T) {
	drm := &fakeDRM{}
	gbm := &fakeGBM{}
	fb := &fakeFramebuffer{}
	gpu := &fakeGPU{}
	backend := &fakeBackend{}
	p := NewPresenter(drm, fb, gbm, gpu, backend, Mode{Width: 100, Height: 100})

	p.RunFrame(0, true, func(Backend) {})
	if err := p.RunFrame(0, true, func(Backend) {}); err != nil {
		t.Fatal(err)
	}
	if drm.flips != 1 {
		t.Errorf("expected one page-flip on second frame, got %d", drm.flips)
	}
}

func TestRunFramePageFlipEBUSYFallsBackToSetCrtc(t *testing.T) {
	drm := &fakeDRM{flipErr: unix.EBUSY}
	gbm := &fakeGBM{}
	fb := &fakeFramebuffer{}
	gpu := &fakeGPU{}
	backend := &fakeBackend{}
	p := NewPresenter(drm, fb, gbm, gpu, backend, Mode{Width: 100, Height: 100})

	p.RunFrame(0, true, func(Backend) {}) // first frame: mode-set, no flip attempted
	if err := p.RunFrame(0, true, func(Backend) {}); err != nil {
		t.Fatal(err)
	}
	if drm.flips != 1 {
		t.Errorf("expected a page-flip attempt, got %d", drm.flips)
	}
	if drm.setCrtcs != 2 {
		t.Errorf("expected fallback set_crtc on EBUSY, got %d total set_crtc calls", drm.setCrtcs)
	}
}

func TestQueueCallbackFiresOnVblankCompletion(t *testing.T) {
	drm := &fakeDRM{}
	gbm := &fakeGBM{}
	fb := &fakeFramebuffer{}
	gpu := &fakeGPU{}
	backend := &fakeBackend{}
	p := NewPresenter(drm, fb, gbm, gpu, backend, Mode{Width: 100, Height: 100})

	// Force the "not first frame" path so a page-flip (not a mode-set) is
	// submitted and a callback waits on vblank completion.
	p.firstFrame = false
	p.curBO = &fakeBO{handle: 1}

	fired := false
	p.QueueCallback(func(ms int64) { fired = true })
	if err := p.RunFrame(0, true, func(Backend) {}); err != nil {
		t.Fatal(err)
	}
	if fired {
		t.Fatal("callback should not fire before vblank completion")
	}

	drm.vblankDone = true
	if err := p.PollCompletion(1000); err != nil {
		t.Fatal(err)
	}
	if !fired {
		t.Error("expected callback to fire after vblank completion")
	}
}

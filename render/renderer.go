package render

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/texture"
)

// Backend draws primitives into the currently bound GPU context.
// Each of the gl/vulkan/software packages implements this with the
// same renderer contract, and one is selected by name at startup;
// software additionally
// satisfies texture.Uploader
// so it can stand in for a full backend in tests without a real GPU.
type Backend interface {
	BeginFrame() error
	Clear(rgba uint32)
	DrawRect(r geometry.Rect, rgba uint32)
	DrawTexture(h texture.Handle, r geometry.Rect, external bool)
	DrawText(x, y int, s string, rgba uint32)
	EndFrame() error
}

// FrameCallback is a client's wl_callback, queued by a commit and
// fired once its buffer's frame has been presented.
type FrameCallback func(timestampMs int64)

// VblankBudget bounds how long a frame waits for the previous
// page-flip to retire before giving up this iteration.
const VblankBudget = 16 * time.Millisecond

// Presenter drives the KMS/GPU frame protocol: begin frame, draw,
// end frame, swap, lock the front buffer, and submit it for scanout.
// It owns no window/layer model; the caller supplies a draw
// closure invoked between BeginFrame/EndFrame that walks the
// compositor's own window list in z-order.
type Presenter struct {
	drm     DRMDevice
	fbs     Framebuffer
	gbm     GBMSurface
	gpu     GPUContext
	backend Backend
	mode    Mode

	pendingFlip bool
	curFB       FB
	curBO       GBMBuffer
	firstFrame  bool

	callbacks []FrameCallback
}

func NewPresenter(drm DRMDevice, fbs Framebuffer, gbm GBMSurface, gpu GPUContext, backend Backend, mode Mode) *Presenter {
	return &Presenter{drm: drm, fbs: fbs, gbm: gbm, gpu: gpu, backend: backend, mode: mode, firstFrame: true}
}

// QueueCallback registers a frame callback to fire once the in-progress
// frame reaches scanout.
func (p *Presenter) QueueCallback(cb FrameCallback) {
	p.callbacks = append(p.callbacks, cb)
}

// PollCompletion checks for an outstanding page-flip's vblank event,
// firing the queued frame callbacks on completion. Safe to call
// every loop iteration regardless of damage state, including idle
// iterations where there is nothing to compose.
func (p *Presenter) PollCompletion(nowMs int64) error {
	if !p.pendingFlip {
		return nil
	}
	done, err := p.drm.PollVblank(VblankBudget)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}
	p.pendingFlip = false
	cbs := p.callbacks
	p.callbacks = nil
	for _, cb := range cbs {
		cb(nowMs)
	}
	return nil
}

// RunFrame executes one composition+present cycle. dirty
// distinguishes clean (skip drawing, still polled by the caller via
// PollCompletion) from partial/full damage; draw is invoked with the backend
// only when there is something to paint.
func (p *Presenter) RunFrame(bgRGBA uint32, dirty bool, draw func(b Backend)) error {
	if !dirty {
		return nil
	}

	if err := p.backend.BeginFrame(); err != nil {
		return err
	}
	p.backend.Clear(bgRGBA)
	draw(p.backend)
	if err := p.backend.EndFrame(); err != nil {
		return err
	}

	if err := p.gpu.SwapBuffers(); err != nil {
		return err
	}
	bo, err := p.gbm.LockFrontBuffer()
	if err != nil {
		return err
	}
	fb, err := p.fbs.AddFB(bo, p.mode.Width, p.mode.Height)
	if err != nil {
		p.gbm.ReleaseBuffer(bo)
		return err
	}

	if p.firstFrame {
		if err := p.drm.SetCrtc(fb, p.mode); err != nil {
			p.fbs.RemoveFB(fb)
			p.gbm.ReleaseBuffer(bo)
			return err
		}
		p.firstFrame = false
	} else if err := p.drm.PageFlip(fb); err != nil {
		// Page-flip fallback: retry via a blocking mode-set within the
		// same frame.
		if !errors.Is(err, unix.EBUSY) {
			p.fbs.RemoveFB(fb)
			p.gbm.ReleaseBuffer(bo)
			return err
		}
		if err := p.drm.SetCrtc(fb, p.mode); err != nil {
			p.fbs.RemoveFB(fb)
			p.gbm.ReleaseBuffer(bo)
			return err
		}
	} else {
		p.pendingFlip = true
	}

	if prev := p.curBO; prev != nil {
		p.fbs.RemoveFB(p.curFB)
		p.gbm.ReleaseBuffer(prev)
	}
	p.curFB = fb
	p.curBO = bo

	// A blocking mode-set (first frame, or the EBUSY fallback) completes
	// synchronously: there is no vblank event to wait for, so fire
	// callbacks immediately rather than waiting on PollCompletion.
	if !p.pendingFlip {
		cbs := p.callbacks
		p.callbacks = nil
		for _, cb := range cbs {
			cb(nowMsPlaceholder())
		}
	}
	return nil
}

// nowMsPlaceholder isolates the one wall-clock read the render package
// needs; callers that care about exact timestamps use QueueCallback's
// nowMs argument path via PollCompletion instead. Kept monotonic-only.
func nowMsPlaceholder() int64 {
	var ts unix.Timespec
	unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	return ts.Nano() / int64(time.Millisecond)
}

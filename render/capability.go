// Package render owns the DRM device, GBM scanout surface and GPU
// context as external capabilities: this package never calls into
// libdrm/libgbm/EGL/Vulkan itself via cgo; it
// defines the interfaces a real backend implements and drives the
// frame protocol against them.
package render

import "time"

// Mode is a probed DRM connector mode.
type Mode struct {
	Width, Height int
	RefreshMHz    int // refresh rate in milli-hertz, e.g. 60000 for 60Hz
}

// FB is an opaque DRM framebuffer handle created from a GBM buffer
// object's handle+stride.
type FB uint32

// DRMDevice is the capability surface over a probed DRM/KMS card: mode
// setting and page-flip submission plus non-blocking vblank completion
// polling.
type DRMDevice interface {
	Fd() int
	Modes() ([]Mode, error)
	// SetCrtc performs a blocking mode-set, used on the first frame and
	// as the page-flip-failure fallback.
	SetCrtc(fb FB, mode Mode) error
	// PageFlip requests an atomic scanout switch at the next vblank. It
	// must not block; completion is observed via PollVblank.
	PageFlip(fb FB) error
	// PollVblank polls the DRM fd for a pending page-flip's completion
	// event, waiting at most budget.
	// done is true only when a completion event was consumed.
	PollVblank(budget time.Duration) (done bool, err error)
}

// GBMBuffer is one scanout-capable buffer object.
type GBMBuffer interface {
	Handle() uint32
	Stride() uint32
}

// GBMSurface allocates and cycles the scanout buffer objects backing
// the GPU context's swapchain.
type GBMSurface interface {
	LockFrontBuffer() (GBMBuffer, error)
	ReleaseBuffer(GBMBuffer) error
}

// GPUContext is the rendering context (GL ES2/EGL or Vulkan) bound to
// the GBM surface. SwapBuffers publishes the just-drawn frame so it can
// be locked via GBMSurface.LockFrontBuffer.
type GPUContext interface {
	MakeCurrent() error
	SwapBuffers() error
}

// Framebuffer's AddFB wraps a GBM buffer object's handle+stride into a
// DRM framebuffer, ready for SetCrtc/PageFlip. Kept as a capability
// method on DRMDevice's owner rather than a free function so a fake
// implementation in tests can hand out predictable FB values.
type Framebuffer interface {
	AddFB(bo GBMBuffer, width, height int) (FB, error)
	RemoveFB(fb FB) error
}

// Package gl wires the renderer contract to an OpenGL ES 2 context
// obtained via EGL on GBM. EGL/GL context setup itself is an external
// capability this package consumes rather than implements (no cgo):
// Configure is called once at startup by the code that actually probed
// and created the context, and every Backend method is a pass-through
// to that Driver.
package gl

import (
	"errors"

	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/render"
	"github.com/ktcwm/ktc/texture"
)

// Driver is the capability surface a real EGL/GLES2 context provides:
// shader-backed quad/texture/text drawing and texture upload/import.
// A production build supplies this from its cgo bindings; it is not
// implemented in this package.
type Driver interface {
	BeginFrame() error
	Clear(rgba uint32)
	DrawRect(r geometry.Rect, rgba uint32)
	DrawTexture(h texture.Handle, r geometry.Rect, external bool)
	DrawText(x, y int, s string, rgba uint32)
	EndFrame() error
	UploadRGBA(width, height, stride int, pixels []byte) (texture.Handle, error)
	ReuploadRGBA(h texture.Handle, width, height, stride int, pixels []byte) error
	ImportDmaBuf(width, height int, fourcc uint32, planes []buffer.Plane, modifier uint64) (texture.Handle, bool, error)
	Destroy(h texture.Handle) error
}

// Backend adapts a Driver to render.Backend and texture.Uploader.
type Backend struct {
	driver Driver
}

// New wraps an already-initialized GLES2/EGL driver.
func New(driver Driver) *Backend {
	return &Backend{driver: driver}
}

func (b *Backend) BeginFrame() error { return b.driver.BeginFrame() }
func (b *Backend) Clear(rgba uint32) { b.driver.Clear(rgba) }
func (b *Backend) DrawRect(r geometry.Rect, rgba uint32) {
	b.driver.DrawRect(r, rgba)
}
func (b *Backend) DrawTexture(h texture.Handle, r geometry.Rect, external bool) {
	b.driver.DrawTexture(h, r, external)
}
func (b *Backend) DrawText(x, y int, s string, rgba uint32) {
	b.driver.DrawText(x, y, s, rgba)
}
func (b *Backend) EndFrame() error { return b.driver.EndFrame() }

func (b *Backend) UploadRGBA(width, height, stride int, pixels []byte) (texture.Handle, error) {
	return b.driver.UploadRGBA(width, height, stride, pixels)
}
func (b *Backend) ReuploadRGBA(h texture.Handle, width, height, stride int, pixels []byte) error {
	return b.driver.ReuploadRGBA(h, width, height, stride, pixels)
}
func (b *Backend) ImportDmaBuf(width, height int, fourcc uint32, planes []buffer.Plane, modifier uint64) (texture.Handle, bool, error) {
	return b.driver.ImportDmaBuf(width, height, fourcc, planes, modifier)
}
func (b *Backend) Destroy(h texture.Handle) error { return b.driver.Destroy(h) }

var configured Driver

// Configure installs the process-wide GLES2 driver, probed and
// created once at startup; there is no runtime swap.
func Configure(d Driver) { configured = d }

func init() {
	render.RegisterBackend("gles2", func() (render.Backend, error) {
		if configured == nil {
			return nil, errors.New("gl: backend selected but Configure was never called with a probed EGL/GLES2 context")
		}
		return New(configured), nil
	})
}

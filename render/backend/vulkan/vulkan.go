// Package vulkan wires the renderer contract to a Vulkan context using
// external-memory + VK_EXT_image_drm_format_modifier for DMA-BUF
// import. As with the gl package, Vulkan instance/device/swapchain
// setup is an external capability: Configure installs a Driver built
// elsewhere; this package only adapts it.
package vulkan

import (
	"errors"

	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/render"
	"github.com/ktcwm/ktc/texture"
)

// Driver mirrors gl.Driver's shape; kept as a separate type so the two
// backends can diverge (e.g. Vulkan's import path additionally needs
// the modifier's hi/lo split) without coupling the packages together.
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

type Backend struct {
	driver Driver
}

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

func Configure(d Driver) { configured = d }

func init() {
	render.RegisterBackend("vulkan", func() (render.Backend, error) {
		if configured == nil {
			return nil, errors.New("vulkan: backend selected but Configure was never called with a probed Vulkan context")
		}
		return New(configured), nil
	})
}

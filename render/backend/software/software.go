// Package software implements a CPU rasterizer satisfying both
// render.Backend and texture.Uploader. It stands in for a real GL/Vulkan
// backend in tests, where no DRM device or GPU context is available,
// drawing directly into an image.RGBA frame buffer.
package software

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/KononK/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/internal/config"
	"github.com/ktcwm/ktc/render"
	"github.com/ktcwm/ktc/texture"
)

type entry struct {
	img *image.RGBA
}

// Backend rasterizes into an in-memory RGBA canvas instead of a GBM
// scanout surface.
type Backend struct {
	canvas    *image.RGBA
	textures  map[texture.Handle]*entry
	nextToken texture.Handle
}

// New allocates a width x height canvas.
func New(width, height int) *Backend {
	return &Backend{
		canvas:   image.NewRGBA(image.Rect(0, 0, width, height)),
		textures: make(map[texture.Handle]*entry),
	}
}

// Canvas exposes the current frame buffer, mainly for tests asserting
// on drawn pixels.
func (b *Backend) Canvas() *image.RGBA { return b.canvas }

func argb(v uint32) color.RGBA {
	return color.RGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

func toRect(r geometry.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (b *Backend) BeginFrame() error { return nil }

func (b *Backend) Clear(rgba uint32) {
	draw.Draw(b.canvas, b.canvas.Bounds(), &image.Uniform{C: argb(rgba)}, image.Point{}, draw.Src)
}

func (b *Backend) DrawRect(r geometry.Rect, rgba uint32) {
	dst := toRect(r).Intersect(b.canvas.Bounds())
	if dst.Empty() {
		return
	}
	draw.Draw(b.canvas, dst, &image.Uniform{C: argb(rgba)}, image.Point{}, draw.Src)
}

func (b *Backend) DrawTexture(h texture.Handle, r geometry.Rect, external bool) {
	e, ok := b.textures[h]
	if !ok {
		return
	}
	src := e.img
	dst := toRect(r)
	if src.Bounds().Dx() != dst.Dx() || src.Bounds().Dy() != dst.Dy() {
		resized := resize.Resize(uint(dst.Dx()), uint(dst.Dy()), src, resize.Bilinear)
		draw.Draw(b.canvas, dst.Intersect(b.canvas.Bounds()), resized, image.Point{}, draw.Over)
		return
	}
	draw.Draw(b.canvas, dst.Intersect(b.canvas.Bounds()), src, image.Point{}, draw.Over)
}

func (b *Backend) DrawText(x, y int, s string, rgba uint32) {
	d := &font.Drawer{
		Dst:  b.canvas,
		Src:  &image.Uniform{C: argb(rgba)},
		Face: activeFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (b *Backend) EndFrame() error { return nil }

// UploadRGBA satisfies texture.Uploader by copying pixels into a fresh
// image.RGBA keyed under a new handle.
func (b *Backend) UploadRGBA(width, height, stride int, pixels []byte) (texture.Handle, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcOff := y * stride
		dstOff := y * img.Stride
		n := width * 4
		if srcOff+n > len(pixels) {
			return 0, texture.ErrInvalidBuffer
		}
		copy(img.Pix[dstOff:dstOff+n], pixels[srcOff:srcOff+n])
	}
	b.nextToken++
	tok := b.nextToken
	b.textures[tok] = &entry{img: img}
	return tok, nil
}

func (b *Backend) ReuploadRGBA(h texture.Handle, width, height, stride int, pixels []byte) error {
	e, ok := b.textures[h]
	if !ok {
		return texture.ErrInvalidBuffer
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcOff := y * stride
		dstOff := y * img.Stride
		n := width * 4
		if srcOff+n > len(pixels) {
			return texture.ErrInvalidBuffer
		}
		copy(img.Pix[dstOff:dstOff+n], pixels[srcOff:srcOff+n])
	}
	e.img = img
	return nil
}

// ImportDmaBuf is unsupported on the software backend: there is no GPU
// to import into.
func (b *Backend) ImportDmaBuf(width, height int, fourcc uint32, planes []buffer.Plane, modifier uint64) (texture.Handle, bool, error) {
	return 0, false, texture.ErrImportUnsupported
}

func (b *Backend) Destroy(h texture.Handle) error {
	delete(b.textures, h)
	return nil
}

var defaultWidth, defaultHeight = 1920, 1080

// activeFace is the glyph face DrawText rasterizes with, selected by
// ConfigureFont from appearance.font's parsed size. Neither basicfont
// nor inconsolata can load an arbitrary family from disk (no cgo
// freetype in this build), so the family name only selects between
// these two bundled faces by the size it was asked for; resolution
// failure (an unparsable size) falls back to basicfont.Face7x13.
var activeFace font.Face = basicfont.Face7x13

// ConfigureFont resolves appearance.font's "family:size=N" spec to one
// of the bundled faces this backend ships: basicfont's 7x13 glyphs for
// requested sizes below 14, inconsolata's 8x16 Regular face at or
// above it. There is no attempt to honor family beyond this, only
// size.
func ConfigureFont(spec string) {
	_, size := config.ParseFont(spec)
	if size >= 14 {
		activeFace = inconsolata.Regular8x16
		return
	}
	activeFace = basicfont.Face7x13
}

// Configure sets the canvas size the registry-selected "software"
// backend is constructed with; used by tests and by ktc when run
// with no DRM device to drive a headless/offscreen session.
func Configure(width, height int) { defaultWidth, defaultHeight = width, height }

func init() {
	render.RegisterBackend("software", func() (render.Backend, error) {
		return New(defaultWidth, defaultHeight), nil
	})
}

// Package texture implements the GPU texture cache sitting between the
// buffer registry and the renderer: it uploads shm pixel data, imports
// DMA-BUF descriptors, and evicts entries when their source buffer is
// destroyed.
package texture

import (
	"errors"
	"fmt"

	"github.com/daaku/swizzle"

	"github.com/ktcwm/ktc/buffer"
)

// Handle is an opaque GPU-side texture reference minted by an Uploader
// implementation (the GL or Vulkan renderer backend).
type Handle uint64

// UploadError classifies transient, best-effort upload failures: the
// surface is skipped this frame, the client is never torn down for
// these.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string { return "texture: " + e.Reason }

var (
	ErrOutOfResources    = &UploadError{"out of resources"}
	ErrInvalidBuffer     = &UploadError{"invalid buffer"}
	ErrImportUnsupported = &UploadError{"import unsupported"}
)

// Uploader is the capability the renderer backend exposes to this
// package: it knows how to put pixels or an imported DMA-BUF image on
// the GPU, but nothing about Wayland buffers.
type Uploader interface {
	// UploadRGBA uploads CPU pixel data (already byte-order-corrected to
	// RGBA) as a 2D texture with nearest filtering, returning a handle.
	UploadRGBA(width, height, stride int, pixels []byte) (Handle, error)

	// ReuploadRGBA replaces the pixel contents of an existing texture in
	// place, avoiding a fresh GPU allocation on every client commit.
	ReuploadRGBA(h Handle, width, height, stride int, pixels []byte) error

	// ImportDmaBuf attempts a zero-copy import of a DMA-BUF-backed
	// image. external reports whether the driver required the external-
	// image sampler rather than a standard 2D sampler.
	ImportDmaBuf(width, height int, fourcc uint32, planes []buffer.Plane, modifier uint64) (h Handle, external bool, err error)

	// Destroy releases GPU-side resources for a handle.
	Destroy(h Handle) error
}

// Entry is one texture cache record, keyed by the source wl_buffer's
// protocol object id.
type Entry struct {
	Handle   Handle
	External bool // true if the sampler must be the external-image variant
	Width    int
	Height   int
}

// Cache maps buffer object id -> uploaded/imported texture. One Cache
// is owned by the compositor root state.
type Cache struct {
	uploader Uploader
	entries  map[uint32]Entry
}

func NewCache(u Uploader) *Cache {
	return &Cache{uploader: u, entries: make(map[uint32]Entry)}
}

// Lookup returns the cached entry for a buffer id without touching the GPU.
func (c *Cache) Lookup(bufferID uint32) (Entry, bool) {
	e, ok := c.entries[bufferID]
	return e, ok
}

// UploadShm uploads (or re-uploads, if bufferID is already cached and
// same-sized) the pixels backing an shm buffer. pixels are raw
// wl_shm-format bytes (BGRA in memory for both ARGB8888 and XRGB8888);
// they are swizzled to RGBA in place before handing off to the GPU
// uploader.
func (c *Cache) UploadShm(bufferID uint32, b *buffer.Buffer, pixels []byte) error {
	if b.Kind != buffer.KindShm {
		return fmt.Errorf("texture: UploadShm called on non-shm buffer %d", bufferID)
	}
	w, h, stride := b.Shm.Width, b.Shm.Height, b.Shm.Stride
	if w <= 0 || h <= 0 || stride*h > len(pixels) {
		return ErrInvalidBuffer
	}

	rgba := make([]byte, len(pixels))
	copy(rgba, pixels)
	swizzle.BGRA(rgba)

	if existing, ok := c.entries[bufferID]; ok && existing.Width == w && existing.Height == h {
		if err := c.uploader.ReuploadRGBA(existing.Handle, w, h, stride, rgba); err != nil {
			return fmt.Errorf("%w: %v", ErrOutOfResources, err)
		}
		return nil
	}

	if existing, ok := c.entries[bufferID]; ok {
		c.uploader.Destroy(existing.Handle)
		delete(c.entries, bufferID)
	}

	handle, err := c.uploader.UploadRGBA(w, h, stride, rgba)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfResources, err)
	}
	c.entries[bufferID] = Entry{Handle: handle, Width: w, Height: h}
	return nil
}

// ImportDmaBuf imports a DMA-BUF-backed buffer into the cache. Plane
// fds are duplicated before the import call so the client's own close
// of its fd never invalidates the compositor's reference.
func (c *Cache) ImportDmaBuf(bufferID uint32, d buffer.DmaBuf) error {
	if len(d.Planes) == 0 || len(d.Planes) > 4 {
		return ErrInvalidBuffer
	}
	dup := make([]buffer.Plane, len(d.Planes))
	for i, p := range d.Planes {
		fd, err := buffer.DupFd(p.Fd)
		if err != nil {
			return fmt.Errorf("%w: dup plane fd: %v", ErrOutOfResources, err)
		}
		dup[i] = buffer.Plane{Fd: fd, Offset: p.Offset, Stride: p.Stride}
	}

	handle, external, err := c.uploader.ImportDmaBuf(d.Width, d.Height, d.Fourcc, dup, d.Modifier)
	if err != nil {
		rollback := buffer.DmaBuf{Planes: dup}
		rollback.Close()
		if errors.Is(err, ErrImportUnsupported) {
			return ErrImportUnsupported
		}
		return fmt.Errorf("%w: %v", ErrOutOfResources, err)
	}

	if existing, ok := c.entries[bufferID]; ok {
		c.uploader.Destroy(existing.Handle)
	}
	c.entries[bufferID] = Entry{Handle: handle, External: external, Width: d.Width, Height: d.Height}
	return nil
}

// Evict releases and removes the texture for a destroyed buffer.
// Eviction must be deferred until any pending flip that could still be
// scanning out this texture has completed; callers are
// expected to only call Evict once the renderer confirms no in-flight
// frame references bufferID.
func (c *Cache) Evict(bufferID uint32) error {
	e, ok := c.entries[bufferID]
	if !ok {
		return nil
	}
	delete(c.entries, bufferID)
	return c.uploader.Destroy(e.Handle)
}

// Len reports how many textures are currently cached, used by tests
// checking for leaks across destroy cycles.
func (c *Cache) Len() int { return len(c.entries) }

package main

import (
	"fmt"
	"image"

	"golang.org/x/sys/unix"

	"github.com/ktcwm/ktc/wire"
)

// Anchor bits, matching zwlr_layer_shell_v1's anchor enum
// (top=1, bottom=2, left=4, right=8).
const (
	anchorTop    = 1
	anchorBottom = 2
	anchorLeft   = 4
	anchorRight  = 8
)

// barSurface owns the layer-shell wl_surface, its backing shm pool, and
// the object ids every subsequent request is addressed to.
type barSurface struct {
	wl *waylandConn

	surfaceID      uint32
	layerSurfaceID uint32
	poolID         uint32
	bufferID       uint32

	width, height int
	canvas        *image.RGBA
	memFd         int
	mapped        []byte

	configured bool
}

// newBarSurface performs the full client handshake: registry discovery,
// binding wl_compositor/wl_shm/zwlr_layer_shell_v1, creating the
// surface and its shm-backed buffer, and blocking until the
// compositor's first configure event acks a size.
func newBarSurface(wl *waylandConn, width, height int) (*barSurface, error) {
	b := &barSurface{wl: wl, width: width, height: height}

	regID := wl.newID()
	getRegistry := &wire.Writer{}
	getRegistry.PutObject(regID)
	if err := wl.request(1, 1, getRegistry); err != nil {
		return nil, err
	}

	var compositorID, shmID, layerShellID uint32
	for compositorID == 0 || shmID == 0 || layerShellID == 0 {
		h, r, err := wl.readMessage()
		if err != nil {
			return nil, err
		}
		if h.ObjectID != regID || h.Opcode != 0 {
			continue // discard anything not wl_registry.global while binding
		}
		name, err := r.Uint()
		if err != nil {
			return nil, err
		}
		iface, err := r.String()
		if err != nil {
			return nil, err
		}
		version, err := r.Uint()
		if err != nil {
			return nil, err
		}
		switch iface {
		case "wl_compositor":
			compositorID = wl.newID()
			if err := bindGlobal(wl, regID, name, iface, version, compositorID); err != nil {
				return nil, err
			}
		case "wl_shm":
			shmID = wl.newID()
			if err := bindGlobal(wl, regID, name, iface, version, shmID); err != nil {
				return nil, err
			}
		case "zwlr_layer_shell_v1":
			layerShellID = wl.newID()
			if err := bindGlobal(wl, regID, name, iface, version, layerShellID); err != nil {
				return nil, err
			}
		}
	}

	if compositorID == 0 || shmID == 0 || layerShellID == 0 {
		return nil, fmt.Errorf("compositor does not advertise wl_compositor/wl_shm/zwlr_layer_shell_v1")
	}

	b.surfaceID = wl.newID()
	createSurface := &wire.Writer{}
	createSurface.PutObject(b.surfaceID)
	if err := wl.request(compositorID, 0, createSurface); err != nil {
		return nil, err
	}

	b.layerSurfaceID = wl.newID()
	getLayerSurface := &wire.Writer{}
	getLayerSurface.PutObject(b.layerSurfaceID)
	getLayerSurface.PutObject(b.surfaceID)
	getLayerSurface.PutObject(0) // output: let the compositor pick the only one
	getLayerSurface.PutUint(2)   // layer: top
	getLayerSurface.PutString("ktcbar")
	if err := wl.request(layerShellID, 0, getLayerSurface); err != nil {
		return nil, err
	}

	setSize := &wire.Writer{}
	setSize.PutUint(uint32(width))
	setSize.PutUint(uint32(height))
	if err := wl.request(b.layerSurfaceID, 0, setSize); err != nil {
		return nil, err
	}
	setAnchor := &wire.Writer{}
	setAnchor.PutUint(anchorBottom | anchorLeft | anchorRight)
	if err := wl.request(b.layerSurfaceID, 1, setAnchor); err != nil {
		return nil, err
	}
	setExclusive := &wire.Writer{}
	setExclusive.PutInt(int32(height))
	if err := wl.request(b.layerSurfaceID, 2, setExclusive); err != nil {
		return nil, err
	}
	setKeyboard := &wire.Writer{}
	setKeyboard.PutUint(0) // none: the bar never takes keyboard focus
	if err := wl.request(b.layerSurfaceID, 4, setKeyboard); err != nil {
		return nil, err
	}
	if err := wl.request(b.surfaceID, 6, nil); err != nil { // wl_surface.commit
		return nil, err
	}

	if err := b.allocateBuffer(shmID, width, height); err != nil {
		return nil, err
	}

	for !b.configured {
		h, r, err := wl.readMessage()
		if err != nil {
			return nil, err
		}
		if h.ObjectID == b.layerSurfaceID && h.Opcode == 0 { // configure
			serial, err := r.Uint()
			if err != nil {
				return nil, err
			}
			if _, err := r.Uint(); err != nil { // width
				return nil, err
			}
			if _, err := r.Uint(); err != nil { // height
				return nil, err
			}
			ack := &wire.Writer{}
			ack.PutUint(serial)
			if err := wl.request(b.layerSurfaceID, 6, ack); err != nil {
				return nil, err
			}
			b.configured = true
		}
	}

	b.canvas = image.NewRGBA(image.Rect(0, 0, width, height))
	return b, nil
}

func bindGlobal(wl *waylandConn, regID, name uint32, iface string, version, newID uint32) error {
	w := &wire.Writer{}
	w.PutUint(name)
	w.PutString(iface)
	w.PutUint(version)
	w.PutObject(newID)
	return wl.request(regID, 0, w)
}

// allocateBuffer creates a memfd-backed wl_shm_pool and a single
// ARGB8888 wl_buffer covering the whole bar, mapped so redraw can write
// straight into compositor-visible memory.
func (b *barSurface) allocateBuffer(shmID uint32, width, height int) error {
	stride := width * 4
	size := stride * height

	fd, err := unix.MemfdCreate("ktcbar", 0)
	if err != nil {
		return fmt.Errorf("memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return fmt.Errorf("ftruncate: %w", err)
	}
	mapped, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return fmt.Errorf("mmap: %w", err)
	}
	b.memFd = fd
	b.mapped = mapped

	b.poolID = b.wl.newID()
	createPool := &wire.Writer{}
	createPool.PutObject(b.poolID)
	createPool.PutFd(fd)
	createPool.PutInt(int32(size))
	if err := b.wl.request(shmID, 0, createPool); err != nil {
		return err
	}

	b.bufferID = b.wl.newID()
	createBuffer := &wire.Writer{}
	createBuffer.PutObject(b.bufferID)
	createBuffer.PutInt(0) // offset
	createBuffer.PutInt(int32(width))
	createBuffer.PutInt(int32(height))
	createBuffer.PutInt(int32(stride))
	createBuffer.PutUint(0) // wl_shm.format.argb8888
	return b.wl.request(b.poolID, 0, createBuffer)
}

// redraw paints s into the canvas, copies it into the mapped shm
// buffer in the BGRA-in-memory layout the compositor's texture cache
// expects, and attaches/damages/commits the surface.
func (b *barSurface) redraw(s barState) error {
	render(b.canvas, s)
	copy(b.mapped, bgraBytes(b.canvas))

	attach := &wire.Writer{}
	attach.PutObject(b.bufferID)
	attach.PutInt(0)
	attach.PutInt(0)
	if err := b.wl.request(b.surfaceID, 1, attach); err != nil {
		return err
	}
	damage := &wire.Writer{}
	damage.PutInt(0)
	damage.PutInt(0)
	damage.PutInt(int32(b.width))
	damage.PutInt(int32(b.height))
	if err := b.wl.request(b.surfaceID, 2, damage); err != nil {
		return err
	}
	return b.wl.request(b.surfaceID, 6, nil) // commit
}

// close releases the memfd mapping; the Wayland connection itself is
// closed by the caller.
func (b *barSurface) close() {
	if b.mapped != nil {
		_ = unix.Munmap(b.mapped)
	}
	if b.memFd != 0 {
		_ = unix.Close(b.memFd)
	}
}

package protocol

import (
	"image"

	"golang.org/x/sys/unix"

	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/wire"
)

// canvasProvider is implemented by the software backend only: it
// exposes the raw composed frame for a zero-GPU-round-trip screen
// capture. gl and vulkan backends never satisfy this.
type canvasProvider interface {
	Canvas() *image.RGBA
}

// zwlr_screencopy_manager_v1 request opcodes.
const (
	opScreencopyManagerCaptureOutput       = 0
	opScreencopyManagerCaptureOutputRegion = 1
)

// ScreencopyManager implements zwlr_screencopy_manager_v1.
type ScreencopyManager struct {
	client *Client
}

func NewScreencopyManager(c *Client) *ScreencopyManager { return &ScreencopyManager{client: c} }

func (m *ScreencopyManager) Interface() string { return "zwlr_screencopy_manager_v1" }

func (m *ScreencopyManager) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opScreencopyManagerCaptureOutput:
		id, err := r.Object()
		if err != nil {
			return err
		}
		if _, err := r.Int(); err != nil { // overlay_cursor
			return err
		}
		if _, err := r.Object(); err != nil { // output
			return err
		}
		m.client.Objects.Insert(id, &ScreencopyFrame{id: id, client: m.client, region: m.client.State.Screen})
	case opScreencopyManagerCaptureOutputRegion:
		id, err := r.Object()
		if err != nil {
			return err
		}
		if _, err := r.Int(); err != nil { // overlay_cursor
			return err
		}
		if _, err := r.Object(); err != nil { // output
			return err
		}
		x, err := r.Int()
		if err != nil {
			return err
		}
		y, err := r.Int()
		if err != nil {
			return err
		}
		w, err := r.Int()
		if err != nil {
			return err
		}
		h, err := r.Int()
		if err != nil {
			return err
		}
		region := m.client.State.Screen
		region.X, region.Y, region.W, region.H = int(x), int(y), int(w), int(h)
		m.client.Objects.Insert(id, &ScreencopyFrame{id: id, client: m.client, region: region})
	}
	return nil
}

// zwlr_screencopy_frame_v1 request opcodes.
const (
	opScreencopyFrameCopy    = 0
	opScreencopyFrameDestroy = 1
)

const (
	evFrameBuffer = 0
	evFrameFlags  = 1
	evFrameReady  = 2
	evFrameFailed = 3
)

// ScreencopyFrame implements zwlr_screencopy_frame_v1: one capture
// request against either the whole output or a sub-region.
type ScreencopyFrame struct {
	id     uint32
	client *Client
	region geometry.Rect
}

func (f *ScreencopyFrame) Interface() string { return "zwlr_screencopy_frame_v1" }

func (f *ScreencopyFrame) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opScreencopyFrameCopy:
		bufferID, err := r.Object()
		if err != nil {
			return err
		}
		f.copyInto(bufferID)
	case opScreencopyFrameDestroy:
		f.client.Objects.Delete(f.id)
	}
	return nil
}

func (f *ScreencopyFrame) copyInto(bufferID uint32) {
	provider, ok := f.client.Backend.(canvasProvider)
	if !ok {
		f.client.SendEvent(f.id, evFrameFailed, nil)
		return
	}
	canvas := provider.Canvas()
	bounds := canvas.Bounds().Intersect(image.Rect(f.region.X, f.region.Y, f.region.X+f.region.W, f.region.Y+f.region.H))
	if bounds.Empty() {
		f.client.SendEvent(f.id, evFrameFailed, nil)
		return
	}

	b, ok := f.client.Buffers.Buffer(bufferID)
	if !ok {
		f.client.SendEvent(f.id, evFrameFailed, nil)
		return
	}
	pixels, err := f.client.Buffers.ReadShmPixels(b)
	if err != nil {
		f.client.SendEvent(f.id, evFrameFailed, nil)
		return
	}
	f.writeShmBGRA(pixels, canvas, bounds)

	f.client.SendEvent(f.id, evFrameBuffer, func(w *wire.Writer) {
		w.PutUint(0) // format: WL_SHM_FORMAT_ARGB8888
		w.PutUint(uint32(bounds.Dx()))
		w.PutUint(uint32(bounds.Dy()))
		w.PutUint(uint32(bounds.Dx() * 4))
	})
	f.client.SendEvent(f.id, evFrameFlags, func(w *wire.Writer) { w.PutUint(0) })
	f.client.SendEvent(f.id, evFrameReady, func(w *wire.Writer) {
		var ts unix.Timespec
		unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
		w.PutUint(uint32(ts.Sec >> 32))
		w.PutUint(uint32(ts.Sec))
		w.PutUint(uint32(ts.Nsec))
	})
}

// writeShmBGRA copies the captured region from an RGBA canvas back into
// a client-supplied shm buffer's memory-mapped region, swizzling to the
// BGRA-in-memory layout wl_shm ARGB8888 expects. It writes through the
// view ReadShmPixels returns, which aliases the pool's shared
// PROT_READ|PROT_WRITE mapping.
func (f *ScreencopyFrame) writeShmBGRA(dst []byte, src *image.RGBA, bounds image.Rectangle) {
	stride := bounds.Dx() * 4
	for y := 0; y < bounds.Dy(); y++ {
		srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		dstOff := y * stride
		if dstOff+stride > len(dst) {
			return
		}
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, a := src.Pix[srcOff+x*4+0], src.Pix[srcOff+x*4+1], src.Pix[srcOff+x*4+2], src.Pix[srcOff+x*4+3]
			o := dstOff + x*4
			dst[o+0], dst[o+1], dst[o+2], dst[o+3] = b, g, r, a
		}
	}
}

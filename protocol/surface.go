package protocol

import (
	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/wire"
)

// wl_surface request opcodes.
const (
	opSurfaceDestroy          = 0
	opSurfaceAttach           = 1
	opSurfaceDamage           = 2
	opSurfaceFrame            = 3
	opSurfaceSetOpaqueRegion  = 4
	opSurfaceSetInputRegion   = 5
	opSurfaceCommit           = 6
	opSurfaceSetBufferTransform = 7
	opSurfaceSetBufferScale   = 8
	opSurfaceDamageBuffer     = 9
)

// role is implemented by the shell wrapper (Toplevel or LayerSurface)
// a wl_surface has been given a role by. A bare surface with no role
// accepts attach/damage/frame but commit is a no-op until one exists.
type role interface {
	Attach(bufferID uint32)
	AddDamage(r geometry.Rect)
	QueueFrameCallback(id uint32)
	Commit() (releasedBufferID, currentBufferID uint32, damage []geometry.Rect, callbacks []uint32)
	Destroy()
}

// Surface implements wl_surface. It forwards buffer/damage/frame
// bookkeeping and commit semantics to whichever shell object gave it a
// role; the wire encoding for buffer release lives here since both
// roles need it identically, while frame-done events are queued here
// and sent by Client.flushFrameCallbacks.
type Surface struct {
	id     uint32
	client *Client
	role   role
}

func NewSurface(id uint32, c *Client) *Surface {
	return &Surface{id: id, client: c}
}

func (s *Surface) Interface() string { return "wl_surface" }

func (s *Surface) SetRole(r role) { s.role = r }

func (s *Surface) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opSurfaceDestroy:
		if s.role != nil {
			s.role.Destroy()
		}
		s.client.Objects.Delete(s.id)
	case opSurfaceAttach:
		bufID, err := r.Object()
		if err != nil {
			return err
		}
		if _, err := r.Int(); err != nil { // x
			return err
		}
		if _, err := r.Int(); err != nil { // y
			return err
		}
		if s.role != nil {
			s.role.Attach(bufID)
		}
	case opSurfaceDamage, opSurfaceDamageBuffer:
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
		if s.role != nil {
			s.role.AddDamage(geometry.Rect{X: int(x), Y: int(y), W: int(w), H: int(h)})
		}
	case opSurfaceFrame:
		id, err := r.Object()
		if err != nil {
			return err
		}
		s.client.Objects.Insert(id, &Callback{id: id})
		if s.role != nil {
			s.role.QueueFrameCallback(id)
		}
	case opSurfaceSetOpaqueRegion, opSurfaceSetInputRegion:
		if _, err := r.Object(); err != nil { // region, possibly null
			return err
		}
	case opSurfaceCommit:
		s.commit()
	case opSurfaceSetBufferTransform, opSurfaceSetBufferScale:
		if _, err := r.Int(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) commit() {
	if s.role == nil {
		return
	}
	released, current, damage, callbacks := s.role.Commit()
	if released != 0 {
		s.client.SendEvent(released, 0, nil) // wl_buffer.release
	}
	if current != 0 {
		s.client.uploadBuffer(current)
	}
	for _, r := range damage {
		s.client.State.Damage.Add(r)
	}
	// wl_callback.done does not fire here: a commit only marks the
	// surface damaged, it does not itself present anything. The
	// callback is queued and only fires once the next actually
	// composited frame reaches the caller's presentation step; see
	// Client.flushFrameCallbacks / Server.FlushFrameCallbacks.
	s.client.pendingCallbacks = append(s.client.pendingCallbacks, callbacks...)
}

// Callback is the wl_callback minted by wl_surface.frame; it has no
// requests, so Dispatch is never legitimately called.
type Callback struct{ id uint32 }

func (c *Callback) Interface() string                          { return "wl_callback" }
func (c *Callback) Dispatch(opcode uint16, r *wire.Reader) error { return nil }

// uploadBuffer pushes a just-committed buffer's pixels or DMA-BUF
// descriptor into the texture cache, keyed by the same protocol object
// id the wl_buffer was created with. Upload failures are discarded
// here and are never fatal to the client.
func (c *Client) uploadBuffer(bufferID uint32) {
	b, ok := c.Buffers.Buffer(bufferID)
	if !ok {
		return
	}
	switch b.Kind {
	case buffer.KindShm:
		pixels, err := c.Buffers.ReadShmPixels(b)
		if err != nil {
			return
		}
		_ = c.Textures.UploadShm(bufferID, b, pixels)
	case buffer.KindDmaBuf:
		_ = c.Textures.ImportDmaBuf(bufferID, b.DmaBuf)
	}
}

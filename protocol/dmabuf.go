package protocol

import (
	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/wire"
)

// DRM fourcc codes for the two formats the compositor's shm/texture
// path understands, advertised so dmabuf-capable clients can match
// them against their own allocator's supported formats.
const (
	fourccARGB8888 = 0x34325241
	fourccXRGB8888 = 0x34325258
)

// zwp_linux_dmabuf_v1 request opcodes.
const (
	opDmabufDestroy            = 0
	opDmabufCreateParams       = 1
	opDmabufGetDefaultFeedback = 2
	opDmabufGetSurfaceFeedback = 3
)

// Dmabuf implements zwp_linux_dmabuf_v1. Only the create_immed path of
// zwp_linux_buffer_params_v1 is supported: the plain create() request,
// which requires the server to allocate and announce a new object id
// of its own rather than use a client-supplied one, always reports
// failed.
type Dmabuf struct {
	client *Client
}

func NewDmabuf(c *Client) *Dmabuf { return &Dmabuf{client: c} }

func (d *Dmabuf) Interface() string { return "zwp_linux_dmabuf_v1" }

func (d *Dmabuf) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opDmabufCreateParams:
		id, err := r.Object()
		if err != nil {
			return err
		}
		d.client.Objects.Insert(id, &DmabufParams{id: id, client: d.client, modifier: buffer.ModifierInvalid})
	case opDmabufGetDefaultFeedback, opDmabufGetSurfaceFeedback:
		id, err := r.Object()
		if err != nil {
			return err
		}
		if opcode == opDmabufGetSurfaceFeedback {
			if _, err := r.Object(); err != nil { // surface
				return err
			}
		}
		// Feedback objects are accepted but never populate a format table:
		// clients that require the v4 feedback path before they will use
		// dmabuf at all fall back to the v3 format/modifier events sent at
		// bind time instead.
		d.client.Objects.Insert(id, &nopObject{id: id, name: "zwp_linux_dmabuf_feedback_v1"})
	}
	return nil
}

// zwp_linux_buffer_params_v1 request opcodes.
const (
	opParamsDestroy     = 0
	opParamsAdd         = 1
	opParamsCreate      = 2
	opParamsCreateImmed = 3
)

const evParamsFailed = 1

// DmabufParams implements zwp_linux_buffer_params_v1.
type DmabufParams struct {
	id       uint32
	client   *Client
	planes   []buffer.Plane
	modifier uint64
}

func (p *DmabufParams) Interface() string { return "zwp_linux_buffer_params_v1" }

func (p *DmabufParams) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opParamsAdd:
		fd, err := r.Fd()
		if err != nil {
			return err
		}
		if _, err := r.Uint(); err != nil { // plane_idx, planes are kept in arrival order instead
			return err
		}
		offset, err := r.Uint()
		if err != nil {
			return err
		}
		stride, err := r.Uint()
		if err != nil {
			return err
		}
		modHi, err := r.Uint()
		if err != nil {
			return err
		}
		modLo, err := r.Uint()
		if err != nil {
			return err
		}
		dup, err := buffer.DupFd(fd)
		if err != nil {
			return err
		}
		p.planes = append(p.planes, buffer.Plane{Fd: dup, Offset: offset, Stride: stride})
		p.modifier = uint64(modHi)<<32 | uint64(modLo)
	case opParamsCreate:
		p.client.SendEvent(p.id, evParamsFailed, nil)
	case opParamsCreateImmed:
		id, err := r.Object()
		if err != nil {
			return err
		}
		width, err := r.Int()
		if err != nil {
			return err
		}
		height, err := r.Int()
		if err != nil {
			return err
		}
		format, err := r.Uint()
		if err != nil {
			return err
		}
		if _, err := r.Uint(); err != nil { // flags
			return err
		}
		d := buffer.DmaBuf{Planes: p.planes, Modifier: p.modifier, Width: int(width), Height: int(height), Fourcc: format}
		b := buffer.NewDmaBufBuffer(d)
		p.client.Buffers.AddBuffer(id, b)
		p.client.bufferIDs = append(p.client.bufferIDs, id)
		p.client.Objects.Insert(id, &BufferObject{id: id, client: p.client})
		p.planes = nil
	case opParamsDestroy:
		rollback := buffer.DmaBuf{Planes: p.planes}
		rollback.Close()
		p.client.Objects.Delete(p.id)
	}
	return nil
}

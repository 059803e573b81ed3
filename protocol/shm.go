package protocol

import (
	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/wire"
)

// wl_shm format event values; the compositor advertises only these two.
const (
	shmFormatARGB8888 = 0
	shmFormatXRGB8888 = 1
)

const opShmCreatePool = 0

// Shm implements wl_shm.
type Shm struct {
	client *Client
}

func NewShm(c *Client) *Shm { return &Shm{client: c} }

func (s *Shm) Interface() string { return "wl_shm" }

func (s *Shm) Dispatch(opcode uint16, r *wire.Reader) error {
	if opcode != opShmCreatePool {
		return nil
	}
	id, err := r.Object()
	if err != nil {
		return err
	}
	fd, err := r.Fd()
	if err != nil {
		return err
	}
	size, err := r.Int()
	if err != nil {
		return err
	}
	dup, err := buffer.DupFd(fd)
	if err != nil {
		return err
	}
	pool := buffer.NewPool(dup, int(size))
	s.client.Buffers.AddPool(id, pool)
	s.client.poolIDs = append(s.client.poolIDs, id)
	s.client.Objects.Insert(id, &ShmPool{id: id, client: s.client})
	return nil
}

// wl_shm_pool request opcodes.
const (
	opShmPoolCreateBuffer = 0
	opShmPoolDestroy      = 1
	opShmPoolResize       = 2
)

// ShmPool implements wl_shm_pool.
type ShmPool struct {
	id     uint32
	client *Client
}

func (p *ShmPool) Interface() string { return "wl_shm_pool" }

func (p *ShmPool) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opShmPoolCreateBuffer:
		id, err := r.Object()
		if err != nil {
			return err
		}
		offset, err := r.Int()
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
		stride, err := r.Int()
		if err != nil {
			return err
		}
		format, err := r.Uint()
		if err != nil {
			return err
		}
		b := buffer.NewShmBuffer(buffer.Shm{
			PoolID: p.id, Offset: int(offset), Width: int(w), Height: int(h),
			Stride: int(stride), Format: buffer.ShmFormat(format),
		})
		p.client.Buffers.AddBuffer(id, b)
		p.client.bufferIDs = append(p.client.bufferIDs, id)
		p.client.Objects.Insert(id, &BufferObject{id: id, client: p.client})
	case opShmPoolDestroy:
		p.client.Objects.Delete(p.id)
	case opShmPoolResize:
		size, err := r.Int()
		if err != nil {
			return err
		}
		if pool, ok := p.client.Buffers.Pool(p.id); ok {
			_ = pool.Resize(int(size))
		}
	}
	return nil
}

const opBufferDestroy = 0

// BufferObject implements wl_buffer for both shm- and dmabuf-backed
// buffers; the registry's tagged union means this wrapper never needs
// to know which kind it is.
type BufferObject struct {
	id     uint32
	client *Client
}

func (b *BufferObject) Interface() string { return "wl_buffer" }

func (b *BufferObject) Dispatch(opcode uint16, r *wire.Reader) error {
	if opcode != opBufferDestroy {
		return nil
	}
	_ = b.client.Textures.Evict(b.id)
	_ = b.client.Buffers.DestroyBuffer(b.id)
	b.client.Objects.Delete(b.id)
	return nil
}

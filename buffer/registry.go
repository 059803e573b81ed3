package buffer

import "fmt"

// Registry tracks every live pool and buffer by Wayland protocol
// object id. It is part of the compositor's central state: indexing by
// id, rather than direct ownership, breaks the surface/buffer cycle.
type Registry struct {
	pools   map[uint32]*Pool
	buffers map[uint32]*Buffer
}

func NewRegistry() *Registry {
	return &Registry{
		pools:   make(map[uint32]*Pool),
		buffers: make(map[uint32]*Buffer),
	}
}

func (r *Registry) AddPool(id uint32, p *Pool) {
	r.pools[id] = p
}

func (r *Registry) Pool(id uint32) (*Pool, bool) {
	p, ok := r.pools[id]
	return p, ok
}

// DestroyPool closes and removes a pool. A pool survives as long as
// any buffer references it, so callers should only
// destroy once the client has also destroyed every buffer drawn from it
// (this registry does not itself refcount; it mirrors the protocol's
// own "destroy only after last buffer release" contract).
func (r *Registry) DestroyPool(id uint32) error {
	p, ok := r.pools[id]
	if !ok {
		return fmt.Errorf("buffer: destroy unknown pool id %d", id)
	}
	delete(r.pools, id)
	return p.Close()
}

func (r *Registry) AddBuffer(id uint32, b *Buffer) {
	r.buffers[id] = b
}

func (r *Registry) Buffer(id uint32) (*Buffer, bool) {
	b, ok := r.buffers[id]
	return b, ok
}

// DestroyBuffer removes and releases a buffer's own owned resources
// (DMA-BUF plane fds). The caller is responsible for evicting any
// texture cache entry keyed on the same id first.
func (r *Registry) DestroyBuffer(id uint32) error {
	b, ok := r.buffers[id]
	if !ok {
		return fmt.Errorf("buffer: destroy unknown buffer id %d", id)
	}
	delete(r.buffers, id)
	return b.Close()
}

// ReadShmPixels resolves a Shm buffer descriptor against its pool and
// returns the raw pixel bytes, bounds-checked.
func (r *Registry) ReadShmPixels(b *Buffer) ([]byte, error) {
	if b.Kind != KindShm {
		return nil, fmt.Errorf("buffer: ReadShmPixels called on non-shm buffer")
	}
	pool, ok := r.pools[b.Shm.PoolID]
	if !ok {
		return nil, fmt.Errorf("buffer: shm buffer references unknown pool id %d", b.Shm.PoolID)
	}
	return pool.ReadRegion(b.Shm.Offset, b.Shm.ByteLength())
}

// DestroyClient removes every pool and buffer whose ids are listed,
// used during client-disconnect cleanup.
func (r *Registry) DestroyClient(poolIDs, bufferIDs []uint32) {
	for _, id := range bufferIDs {
		if b, ok := r.buffers[id]; ok {
			b.Close()
			delete(r.buffers, id)
		}
	}
	for _, id := range poolIDs {
		if p, ok := r.pools[id]; ok {
			p.Close()
			delete(r.pools, id)
		}
	}
}

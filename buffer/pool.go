// Package buffer tracks shared-memory pools, shm buffers, and DMA-BUF
// descriptors by their protocol object id. It does no GPU work; the
// texture package consumes these records.
package buffer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Pool owns a client-supplied fd backing a wl_shm_pool. The mapping is
// lazy: ensureMapped only maps the fd on first buffer access so a pool that is
// created and resized several times before any buffer reads it never
// pays for an intermediate mmap.
type Pool struct {
	fd   int
	size int
	data []byte
}

// NewPool takes ownership of fd (already dup'd by the caller if it
// needs to keep its own reference) and records the client-declared size.
func NewPool(fd int, size int) *Pool {
	return &Pool{fd: fd, size: size}
}

// Size returns the pool's current declared size in bytes.
func (p *Pool) Size() int { return p.size }

// Resize grows the pool to a new size. Per wl_shm_pool.resize, the new
// size must not be smaller than the current one. Any existing mapping
// is dropped and will be remapped lazily on next access.
func (p *Pool) Resize(newSize int) error {
	if newSize < p.size {
		return fmt.Errorf("buffer: pool resize to %d smaller than current %d", newSize, p.size)
	}
	p.size = newSize
	if p.data != nil {
		if err := unix.Munmap(p.data); err != nil {
			return err
		}
		p.data = nil
	}
	return nil
}

// ensureMapped lazily mmaps the pool PROT_READ|PROT_WRITE, MAP_SHARED.
// Write access is needed for zwlr_screencopy_manager_v1, which copies a
// captured frame back into a client-supplied shm buffer; ordinary
// surface buffers are never written through this mapping.
func (p *Pool) ensureMapped() error {
	if p.data != nil {
		return nil
	}
	if p.size <= 0 {
		return fmt.Errorf("buffer: pool has non-positive size %d", p.size)
	}
	data, err := unix.Mmap(p.fd, 0, p.size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("buffer: mmap pool fd %d: %w", p.fd, err)
	}
	p.data = data
	return nil
}

// ReadRegion returns a view of [offset, offset+length) within the
// pool's shared, writable mapping (see ensureMapped), mapping it on
// first use. Returns an error
// if the region exceeds the pool bounds, which callers should treat as
// a client protocol violation rather than a fatal condition.
func (p *Pool) ReadRegion(offset, length int) ([]byte, error) {
	if err := p.ensureMapped(); err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset+length > len(p.data) {
		return nil, fmt.Errorf("buffer: region [%d,%d) exceeds pool size %d", offset, offset+length, len(p.data))
	}
	return p.data[offset : offset+length], nil
}

// Close unmaps (if mapped) and closes the underlying fd. Safe to call
// once the client has destroyed the pool and no buffer references it.
func (p *Pool) Close() error {
	var err error
	if p.data != nil {
		err = unix.Munmap(p.data)
		p.data = nil
	}
	if cerr := unix.Close(p.fd); err == nil {
		err = cerr
	}
	return err
}

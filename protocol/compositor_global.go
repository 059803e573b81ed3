package protocol

import "github.com/ktcwm/ktc/wire"

// Opcodes for wl_compositor requests.
const (
	opCompositorCreateSurface = 0
	opCompositorCreateRegion  = 1
)

// CompositorGlobal implements wl_compositor: it mints wl_surface and
// wl_region objects bound by the client.
type CompositorGlobal struct {
	client *Client
}

func NewCompositorGlobal(c *Client) *CompositorGlobal { return &CompositorGlobal{client: c} }

func (g *CompositorGlobal) Interface() string { return "wl_compositor" }

func (g *CompositorGlobal) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opCompositorCreateSurface:
		id, err := r.Object()
		if err != nil {
			return err
		}
		g.client.Objects.Insert(id, NewSurface(id, g.client))
	case opCompositorCreateRegion:
		id, err := r.Object()
		if err != nil {
			return err
		}
		g.client.Objects.Insert(id, &Region{id: id})
	}
	return nil
}

// Opcodes for wl_subcompositor requests.
const opSubcompositorGetSubsurface = 1

// SubcompositorGlobal implements wl_subcompositor. Nested subsurface
// composition is not implemented: get_subsurface records the parent
// relationship (so protocol state stays consistent for clients that
// query it) but the renderer never walks a subsurface tree.
type SubcompositorGlobal struct {
	client *Client
}

func NewSubcompositorGlobal(c *Client) *SubcompositorGlobal { return &SubcompositorGlobal{client: c} }

func (g *SubcompositorGlobal) Interface() string { return "wl_subcompositor" }

func (g *SubcompositorGlobal) Dispatch(opcode uint16, r *wire.Reader) error {
	if opcode != opSubcompositorGetSubsurface {
		return nil
	}
	id, err := r.Object()
	if err != nil {
		return err
	}
	surfaceID, err := r.Object()
	if err != nil {
		return err
	}
	parentID, err := r.Object()
	if err != nil {
		return err
	}
	g.client.Objects.Insert(id, &Subsurface{id: id, surfaceID: surfaceID, parentID: parentID})
	return nil
}

// Subsurface records a parent/child surface pair without composing it;
// see SubcompositorGlobal.
type Subsurface struct {
	id               uint32
	surfaceID        uint32
	parentID         uint32
}

func (s *Subsurface) Interface() string                          { return "wl_subsurface" }
func (s *Subsurface) Dispatch(opcode uint16, r *wire.Reader) error { return nil }

// Region tracks add/subtract rectangles for set_opaque_region /
// set_input_region. The compositor never consults region contents (no
// input-region clipping, no opaque-region render optimization), so
// this is purely bookkeeping to satisfy clients that create one.
type Region struct {
	id uint32
}

func (r *Region) Interface() string                           { return "wl_region" }
func (r *Region) Dispatch(opcode uint16, rd *wire.Reader) error { return nil }

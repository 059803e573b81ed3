package protocol

import (
	"sort"

	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/layout"
	"github.com/ktcwm/ktc/wire"
)

const opLayerShellGetLayerSurface = 0

// LayerShell implements zwlr_layer_shell_v1.
type LayerShell struct {
	client *Client
}

func NewLayerShell(c *Client) *LayerShell { return &LayerShell{client: c} }

func (g *LayerShell) Interface() string { return "zwlr_layer_shell_v1" }

func (g *LayerShell) Dispatch(opcode uint16, r *wire.Reader) error {
	if opcode != opLayerShellGetLayerSurface {
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
	if _, err := r.Object(); err != nil { // output, nullable; a single-output compositor ignores it
		return err
	}
	layerNum, err := r.Uint()
	if err != nil {
		return err
	}
	if _, err := r.String(); err != nil { // namespace, kept only for protocol debugging elsewhere
		return err
	}
	obj, ok := g.client.Objects.Lookup(surfaceID)
	if !ok {
		return nil
	}
	surface, ok := obj.(*Surface)
	if !ok {
		return nil
	}
	model := g.client.State.AddLayerSurface(id, compositor.Layer(layerNum))
	g.client.State.LayerSurfaces = append(g.client.State.LayerSurfaces, model)
	ls := &LayerSurface{id: id, client: g.client, Surface: model}
	surface.SetRole(ls)
	g.client.layers[id] = ls
	g.client.Objects.Insert(id, ls)
	g.client.relayoutLayerSurfaces()
	return nil
}

// zwlr_layer_surface_v1 request opcodes.
const (
	opLayerSurfaceSetSize                = 0
	opLayerSurfaceSetAnchor              = 1
	opLayerSurfaceSetExclusiveZone       = 2
	opLayerSurfaceSetMargin              = 3
	opLayerSurfaceSetKeyboardInteractivity = 4
	opLayerSurfaceGetPopup               = 5
	opLayerSurfaceAckConfigure           = 6
	opLayerSurfaceDestroy                = 7
	opLayerSurfaceSetLayer               = 8
)

// LayerSurface is the protocol-side zwlr_layer_surface_v1: it owns a
// compositor.LayerSurface and, as a surface's role, turns commits into
// the model's buffer/damage state and relayouts into configure events.
type LayerSurface struct {
	id      uint32
	client  *Client
	Surface *compositor.LayerSurface

	serial uint32
}

func (l *LayerSurface) Interface() string { return "zwlr_layer_surface_v1" }

func (l *LayerSurface) Attach(bufferID uint32)       { l.Surface.Attach(bufferID) }
func (l *LayerSurface) AddDamage(r geometry.Rect)    { l.Surface.AddDamage(r) }
func (l *LayerSurface) QueueFrameCallback(id uint32) { l.Surface.QueueFrameCallback(id) }

func (l *LayerSurface) Commit() (released, current uint32, damage []geometry.Rect, callbacks []uint32) {
	released, _, damage, callbacks = l.Surface.Commit()
	return released, l.Surface.CurrentBuffer(), damage, callbacks
}

func (l *LayerSurface) Destroy() {
	l.client.State.LayerSurfaces = l.client.State.RemoveLayerSurface(l.client.State.LayerSurfaces, l.id)
	delete(l.client.layers, l.id)
	l.client.relayoutLayerSurfaces()
}

func (l *LayerSurface) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opLayerSurfaceSetSize:
		w, err := r.Uint()
		if err != nil {
			return err
		}
		h, err := r.Uint()
		if err != nil {
			return err
		}
		l.Surface.DesiredW, l.Surface.DesiredH = int(w), int(h)
		l.client.relayoutLayerSurfaces()
	case opLayerSurfaceSetAnchor:
		anchor, err := r.Uint()
		if err != nil {
			return err
		}
		l.Surface.Anchor = anchor
		l.client.relayoutLayerSurfaces()
	case opLayerSurfaceSetExclusiveZone:
		zone, err := r.Int()
		if err != nil {
			return err
		}
		l.Surface.Exclusive = int(zone)
		l.client.relayoutLayerSurfaces()
	case opLayerSurfaceSetMargin:
		t, err := r.Int()
		if err != nil {
			return err
		}
		rt, err := r.Int()
		if err != nil {
			return err
		}
		b, err := r.Int()
		if err != nil {
			return err
		}
		lf, err := r.Int()
		if err != nil {
			return err
		}
		l.Surface.MarginT, l.Surface.MarginR, l.Surface.MarginB, l.Surface.MarginL = int(t), int(rt), int(b), int(lf)
		l.client.relayoutLayerSurfaces()
	case opLayerSurfaceSetKeyboardInteractivity:
		v, err := r.Uint()
		if err != nil {
			return err
		}
		l.Surface.KeyboardInteractive = v != 0
	case opLayerSurfaceGetPopup:
		if _, err := r.Object(); err != nil {
			return err
		}
	case opLayerSurfaceAckConfigure:
		if _, err := r.Uint(); err != nil {
			return err
		}
		l.Surface.Configured = true
	case opLayerSurfaceDestroy:
		l.Destroy()
		l.client.Objects.Delete(l.id)
	case opLayerSurfaceSetLayer:
		layerNum, err := r.Uint()
		if err != nil {
			return err
		}
		l.Surface.Layer = compositor.Layer(layerNum)
		l.client.relayoutLayerSurfaces()
	}
	return nil
}

func (l *LayerSurface) sendConfigure(width, height int) {
	l.serial++
	l.client.SendEvent(l.id, 0, func(w *wire.Writer) {
		w.PutUint(l.serial)
		w.PutUint(uint32(width))
		w.PutUint(uint32(height))
	})
}

// relayoutLayerSurfaces recomputes every layer surface's geometry from
// scratch: each layer's exclusive zone shrinks the usable area seen by
// surfaces created after it, processed in creation order so the result
// is deterministic regardless of request arrival order within a layer.
func (c *Client) relayoutLayerSurfaces() {
	all := append([]*compositor.LayerSurface(nil), c.State.LayerSurfaces...)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedSeq < all[j].CreatedSeq })

	usable := c.State.Screen
	for _, ls := range all {
		anchors := layout.Anchor(ls.Anchor)
		margin := layout.Margin{Top: ls.MarginT, Right: ls.MarginR, Bottom: ls.MarginB, Left: ls.MarginL}
		ls.Geometry = layout.LayerGeometry(usable, anchors, ls.DesiredW, ls.DesiredH, margin)
		if edge, px := layout.ExclusiveReservation(anchors, ls.Exclusive); px > 0 {
			usable = layout.ShrinkUsable(usable, edge, px)
		}
	}
	c.State.Damage.Full()
	for _, ls := range all {
		var wrapper *LayerSurface
		if c.server != nil {
			_, w, ok := c.server.clientForLayer(ls.ID)
			if ok {
				wrapper = w
			}
		} else if w, ok := c.layers[ls.ID]; ok {
			wrapper = w
		}
		if wrapper != nil {
			wrapper.sendConfigure(ls.Geometry.W, ls.Geometry.H)
		}
	}
}

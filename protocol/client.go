// Package protocol implements every Wayland global the compositor
// advertises, translating wire requests into compositor.State mutations
// and compositor.State changes back into wire events. It is the only
// package that imports both wire and compositor.
package protocol

import (
	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/layout"
	"github.com/ktcwm/ktc/render"
	"github.com/ktcwm/ktc/texture"
	"github.com/ktcwm/ktc/wire"
)

// Client is the per-connection context threaded through every object
// this client has bound: its wire connection and object table, plus
// shared references to the compositor-wide state every client mutates.
type Client struct {
	Conn    *wire.Conn
	Objects *wire.Table

	State    *compositor.State
	Buffers  *buffer.Registry
	Textures *texture.Cache

	// server is set by Server.acceptAll once this client is registered,
	// so ConfigureToplevel/ConfigureLayerSurface can fan out a relayout's
	// configure events to whichever client actually owns each window
	// rather than just the ones in this client's own tracking maps. Nil
	// in any Client built directly (tests), which fall back to
	// self-only addressing.
	server *Server

	// Backend is the active renderer backend, consulted by screencopy
	// for a frame readback. Only the software backend supports it; on gl
	// and vulkan, capture requests fail with the protocol's own "failed"
	// event rather than a compositor error.
	Backend render.Backend

	// Notify, if set, is called after any request that changes window
	// titles, focus or workspace membership, so the IPC server can
	// rebroadcast state. The protocol package never talks to the IPC
	// socket directly.
	Notify func()

	// NotifyTitle, if set, is called with a toplevel's new title when
	// xdg_toplevel.set_title changes it while that window holds keyboard
	// focus, so the IPC server can broadcast a dedicated title event
	// instead of folding it into the generic workspace broadcast.
	NotifyTitle func(title string)

	toplevels map[compositor.WindowID]*Toplevel
	layers    map[uint32]*LayerSurface

	keyboards []*Keyboard
	pointers  []*Pointer

	poolIDs   []uint32
	bufferIDs []uint32

	// pendingCallbacks holds wl_callback ids queued by Surface.commit
	// since the last flush, not yet fired because no frame carrying
	// their commit's buffer has actually reached scanout yet.
	pendingCallbacks []uint32
}

func (c *Client) notify() {
	if c.Notify != nil {
		c.Notify()
	}
}

// NewClient wraps an accepted connection with empty per-client tracking
// tables, sharing the compositor-wide state passed in.
func NewClient(conn *wire.Conn, state *compositor.State, buffers *buffer.Registry, textures *texture.Cache) *Client {
	c := &Client{
		Conn:      conn,
		Objects:   wire.NewTable(),
		State:     state,
		Buffers:   buffers,
		Textures:  textures,
		toplevels: make(map[compositor.WindowID]*Toplevel),
		layers:    make(map[uint32]*LayerSurface),
	}
	c.Objects.Insert(1, NewDisplay(c))
	return c
}

// SendEvent encodes and writes one event to objectID. build fills in the
// event's arguments; it receives a Writer with no header.
func (c *Client) SendEvent(objectID uint32, opcode uint16, build func(w *wire.Writer)) error {
	w := &wire.Writer{}
	if build != nil {
		build(w)
	}
	return c.Conn.Send(wire.BuildEvent(objectID, opcode, w), w.Fds())
}

// flushFrameCallbacks fires wl_callback.done for every callback queued
// since the last flush, stamped with nowMs, then clears the queue. Only
// call this once a frame has actually been composited and presented
// (see Server.FlushFrameCallbacks), so a client pacing its redraws via
// frame callback is throttled to the real frame rate rather than firing
// once per commit regardless of whether anything reached the screen.
func (c *Client) flushFrameCallbacks(nowMs int64) {
	cbs := c.pendingCallbacks
	c.pendingCallbacks = nil
	for _, cb := range cbs {
		c.SendEvent(cb, 0, func(w *wire.Writer) { w.PutUint(uint32(nowMs)) })
		c.Objects.Delete(cb)
	}
}

// Close tears down every resource this client owns: unmaps its windows
// and layer surfaces and releases its pools/buffers.
func (c *Client) Close() {
	for id := range c.toplevels {
		c.State.RemoveWindow(id, c)
	}
	for id := range c.layers {
		c.State.LayerSurfaces = c.State.RemoveLayerSurface(c.State.LayerSurfaces, id)
	}
	c.Buffers.DestroyClient(c.poolIDs, c.bufferIDs)
	c.Conn.Close()
}

// ConfigureToplevel implements compositor.ConfigureSink: it encodes and
// sends xdg_toplevel.configure + xdg_surface.configure for the window's
// shell objects, addressing whichever client actually bound it.
func (c *Client) ConfigureToplevel(w *compositor.Window, flags layout.TileStateFlags) {
	if c.server != nil {
		_, t, ok := c.server.clientForWindow(w.ID)
		if !ok {
			return
		}
		t.sendConfigure(w.Geometry.W, w.Geometry.H, flags)
		return
	}
	t, ok := c.toplevels[w.ID]
	if !ok {
		return
	}
	t.sendConfigure(w.Geometry.W, w.Geometry.H, flags)
}

// ConfigureLayerSurface implements compositor.ConfigureSink for
// zwlr_layer_surface_v1.configure, addressing whichever client actually
// bound this layer surface.
func (c *Client) ConfigureLayerSurface(l *compositor.LayerSurface) {
	if c.server != nil {
		_, ls, ok := c.server.clientForLayer(l.ID)
		if !ok {
			return
		}
		ls.sendConfigure(l.Geometry.W, l.Geometry.H)
		return
	}
	ls, ok := c.layers[l.ID]
	if !ok {
		return
	}
	ls.sendConfigure(l.Geometry.W, l.Geometry.H)
}

package protocol

import (
	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/wire"
)

// Global describes one advertised wl_registry entry and how to bind it.
type Global struct {
	Interface string
	Version   uint32
	Bind      func(c *Client, id uint32)
}

// CoreGlobals is every Wayland interface this compositor advertises
// in its registry. Built once and shared by every client connection;
// Bind constructs fresh per-client protocol objects.
var CoreGlobals = []Global{
	{Interface: "wl_compositor", Version: 4, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewCompositorGlobal(c))
	}},
	{Interface: "wl_subcompositor", Version: 1, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewSubcompositorGlobal(c))
	}},
	{Interface: "wl_shm", Version: 1, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewShm(c))
		c.SendEvent(id, 0, func(w *wire.Writer) { w.PutUint(shmFormatARGB8888) })
		c.SendEvent(id, 0, func(w *wire.Writer) { w.PutUint(shmFormatXRGB8888) })
	}},
	{Interface: "wl_seat", Version: 7, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewSeat(c))
		c.SendEvent(id, 0, func(w *wire.Writer) { w.PutUint(seatCapPointer | seatCapKeyboard) })
		c.SendEvent(id, 1, func(w *wire.Writer) { w.PutString("seat0") })
	}},
	{Interface: "wl_output", Version: 4, Bind: func(c *Client, id uint32) {
		o := NewOutput(id, c)
		c.Objects.Insert(id, o)
		o.Advertise()
	}},
	{Interface: "xdg_wm_base", Version: 5, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewWmBase(c))
	}},
	{Interface: "zxdg_decoration_manager_v1", Version: 1, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewDecorationManager(c))
	}},
	{Interface: "zwp_linux_dmabuf_v1", Version: 4, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewDmabuf(c))
		hi := uint32(buffer.ModifierInvalid >> 32)
		lo := uint32(buffer.ModifierInvalid)
		for _, fourcc := range []uint32{fourccARGB8888, fourccXRGB8888} {
			c.SendEvent(id, 1, func(w *wire.Writer) { // modifier (v3-compatible)
				w.PutUint(fourcc)
				w.PutUint(hi)
				w.PutUint(lo)
			})
		}
	}},
	{Interface: "zwlr_layer_shell_v1", Version: 4, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewLayerShell(c))
	}},
	{Interface: "zwlr_output_manager_v1", Version: 2, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewOutputManager(c))
	}},
	{Interface: "zwlr_screencopy_manager_v1", Version: 3, Bind: func(c *Client, id uint32) {
		c.Objects.Insert(id, NewScreencopyManager(c))
	}},
}

// Registry implements wl_registry, bound from wl_display.get_registry.
type Registry struct {
	id      uint32
	client  *Client
	globals []Global
}

func NewRegistry(id uint32, c *Client, globals []Global) *Registry {
	return &Registry{id: id, client: c, globals: globals}
}

func (r *Registry) Interface() string { return "wl_registry" }

const opRegistryBind = 0

func (r *Registry) Dispatch(opcode uint16, rd *wire.Reader) error {
	if opcode != opRegistryBind {
		return nil
	}
	if _, err := rd.Uint(); err != nil { // name
		return err
	}
	iface, err := rd.String()
	if err != nil {
		return err
	}
	if _, err := rd.Uint(); err != nil { // version
		return err
	}
	id, err := rd.Object()
	if err != nil {
		return err
	}
	for _, g := range r.globals {
		if g.Interface == iface {
			g.Bind(r.client, id)
			return nil
		}
	}
	return nil
}

// Advertise sends one wl_registry.global event per entry, in order, so
// name indices are stable for the lifetime of the client connection.
func (r *Registry) Advertise() {
	for i, g := range r.globals {
		iface, ver := g.Interface, g.Version
		r.client.SendEvent(r.id, 0, func(w *wire.Writer) {
			w.PutUint(uint32(i))
			w.PutString(iface)
			w.PutUint(ver)
		})
	}
}

const (
	opDisplaySync        = 0
	opDisplayGetRegistry = 1
)

// Display implements wl_display, always bound at object id 1.
type Display struct {
	client *Client
}

func NewDisplay(c *Client) *Display { return &Display{client: c} }

func (d *Display) Interface() string { return "wl_display" }

func (d *Display) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opDisplaySync:
		id, err := r.Object()
		if err != nil {
			return err
		}
		// The compositor loop is single-threaded and fully synchronous
		// between messages, so every prior request is already applied by
		// the time sync is processed: done fires immediately.
		d.client.SendEvent(id, 0, func(w *wire.Writer) { w.PutUint(0) })
		d.client.Objects.Delete(id)
	case opDisplayGetRegistry:
		id, err := r.Object()
		if err != nil {
			return err
		}
		reg := NewRegistry(id, d.client, CoreGlobals)
		d.client.Objects.Insert(id, reg)
		reg.Advertise()
	}
	return nil
}

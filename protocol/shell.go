package protocol

import (
	"encoding/binary"

	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/layout"
	"github.com/ktcwm/ktc/wire"
)

// xdg_wm_base request opcodes.
const (
	opWmBaseDestroy          = 0
	opWmBaseCreatePositioner = 1
	opWmBaseGetXdgSurface    = 2
	opWmBasePong             = 3
)

// WmBase implements xdg_wm_base. Positioners (and therefore popups) are
// accepted but never produce a usable xdg_popup: this compositor has no
// floating/popup layer, only the tiled toplevel grid and layer-shell
// surfaces.
type WmBase struct {
	client *Client
}

func NewWmBase(c *Client) *WmBase { return &WmBase{client: c} }

func (w *WmBase) Interface() string { return "xdg_wm_base" }

func (w *WmBase) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opWmBaseCreatePositioner:
		id, err := r.Object()
		if err != nil {
			return err
		}
		w.client.Objects.Insert(id, &nopObject{id: id, name: "xdg_positioner"})
	case opWmBaseGetXdgSurface:
		xsID, err := r.Object()
		if err != nil {
			return err
		}
		surfaceID, err := r.Object()
		if err != nil {
			return err
		}
		obj, ok := w.client.Objects.Lookup(surfaceID)
		if !ok {
			return nil
		}
		surface, ok := obj.(*Surface)
		if !ok {
			return nil
		}
		xs := &XdgSurface{id: xsID, client: w.client, surface: surface}
		w.client.Objects.Insert(xsID, xs)
	case opWmBasePong:
		if _, err := r.Uint(); err != nil {
			return err
		}
	}
	return nil
}

// xdg_surface request opcodes.
const (
	opXdgSurfaceDestroy            = 0
	opXdgSurfaceGetToplevel        = 1
	opXdgSurfaceGetPopup           = 2
	opXdgSurfaceSetWindowGeometry  = 3
	opXdgSurfaceAckConfigure       = 4
)

// XdgSurface implements xdg_surface: the role-neutral wrapper xdg_wm_base
// hands out before the client commits to being a toplevel (or, in
// principle, a popup — unsupported here).
type XdgSurface struct {
	id          uint32
	client      *Client
	surface     *Surface
	ackedSerial uint32
}

func (xs *XdgSurface) Interface() string { return "xdg_surface" }

func (xs *XdgSurface) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opXdgSurfaceDestroy:
		xs.client.Objects.Delete(xs.id)
	case opXdgSurfaceGetToplevel:
		id, err := r.Object()
		if err != nil {
			return err
		}
		win := xs.client.State.AddWindow(id, xs.surface.id, xs.client)
		t := &Toplevel{id: id, client: xs.client, xdgSurface: xs, Window: win}
		xs.surface.SetRole(t)
		xs.client.toplevels[win.ID] = t
		xs.client.Objects.Insert(id, t)
	case opXdgSurfaceGetPopup:
		id, err := r.Object()
		if err != nil {
			return err
		}
		if _, err := r.Object(); err != nil { // parent
			return err
		}
		if _, err := r.Object(); err != nil { // positioner
			return err
		}
		xs.client.Objects.Insert(id, &nopObject{id: id, name: "xdg_popup"})
	case opXdgSurfaceSetWindowGeometry:
		for i := 0; i < 4; i++ {
			if _, err := r.Int(); err != nil {
				return err
			}
		}
	case opXdgSurfaceAckConfigure:
		serial, err := r.Uint()
		if err != nil {
			return err
		}
		xs.ackedSerial = serial
	}
	return nil
}

func (xs *XdgSurface) sendConfigure(serial uint32) {
	xs.client.SendEvent(xs.id, 0, func(w *wire.Writer) { w.PutUint(serial) })
}

// xdg_toplevel request opcodes.
const (
	opToplevelDestroy         = 0
	opToplevelSetParent       = 1
	opToplevelSetTitle        = 2
	opToplevelSetAppID        = 3
	opToplevelShowWindowMenu  = 4
	opToplevelMove            = 5
	opToplevelResize          = 6
	opToplevelSetMaxSize      = 7
	opToplevelSetMinSize      = 8
	opToplevelSetMaximized    = 9
	opToplevelUnsetMaximized  = 10
	opToplevelSetFullscreen   = 11
	opToplevelUnsetFullscreen = 12
	opToplevelSetMinimized    = 13
)

// xdg_toplevel.configure state enum values this compositor can report.
const (
	stateActivated  = 4
	stateTiledLeft  = 5
	stateTiledRight = 6
	stateTiledTop   = 7
	stateTiledBottom = 8
)

// Toplevel is the protocol-side xdg_toplevel: it owns a compositor.Window
// and, as the surface's role, turns commits into window state and relayout
// configures into wire events. There is no client-driven resize, move or
// maximize: the tiling grid is the only layout policy, so every such
// request is accepted and ignored.
type Toplevel struct {
	id         uint32
	client     *Client
	xdgSurface *XdgSurface
	Window     *compositor.Window

	serial uint32
}

func (t *Toplevel) Interface() string { return "xdg_toplevel" }

func (t *Toplevel) Attach(bufferID uint32)        { t.Window.Attach(bufferID) }
func (t *Toplevel) AddDamage(r geometry.Rect)     { t.Window.AddDamage(r) }
func (t *Toplevel) QueueFrameCallback(id uint32)  { t.Window.QueueFrameCallback(id) }

func (t *Toplevel) Commit() (released, current uint32, damage []geometry.Rect, callbacks []uint32) {
	released, damage, callbacks = t.Window.Commit(t.client.State.TitleBarHeight)
	return released, t.Window.CurrentBuffer(), damage, callbacks
}

func (t *Toplevel) Destroy() {
	t.client.State.RemoveWindow(t.Window.ID, t.client)
	delete(t.client.toplevels, t.Window.ID)
}

// SurfaceID returns the wl_surface object id backing this toplevel, the
// id every wl_keyboard/wl_pointer enter/leave event carries.
func (t *Toplevel) SurfaceID() uint32 { return t.xdgSurface.surface.id }

// sendClose emits xdg_toplevel.close, asking the client to destroy this
// toplevel. The compositor never forces a window closed outright; it
// only requests it, same as every other Wayland compositor.
func (t *Toplevel) sendClose() {
	t.client.SendEvent(t.id, evToplevelClose, nil)
}

const evToplevelClose = 1

func (t *Toplevel) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opToplevelDestroy:
		t.Destroy()
		t.client.Objects.Delete(t.id)
	case opToplevelSetTitle:
		title, err := r.String()
		if err != nil {
			return err
		}
		t.Window.Title = title
		focused := t.client.State.Focus.Keyboard
		if focused != nil && *focused == t.Window.ID && t.client.NotifyTitle != nil {
			t.client.NotifyTitle(title)
		}
	case opToplevelSetAppID:
		appID, err := r.String()
		if err != nil {
			return err
		}
		t.Window.AppID = appID
	}
	// set_parent / show_window_menu / move / resize / set_max_size /
	// set_min_size / (un)set_maximized / (un)set_fullscreen / set_minimized
	// carry no state this compositor tracks; their arguments are simply
	// left unread since no further field of the message is consulted.
	return nil
}

// sendConfigure implements compositor.ConfigureSink for this toplevel:
// xdg_toplevel.configure carries the tiled size and state flags,
// followed by xdg_surface.configure with a fresh serial.
func (t *Toplevel) sendConfigure(width, height int, flags layout.TileStateFlags) {
	t.client.SendEvent(t.id, 0, func(w *wire.Writer) {
		w.PutInt(int32(width))
		w.PutInt(int32(height))
		var states []uint32
		if flags.Activated {
			states = append(states, stateActivated)
		}
		if flags.TiledLeft {
			states = append(states, stateTiledLeft)
		}
		if flags.TiledRight {
			states = append(states, stateTiledRight)
		}
		if flags.TiledTop {
			states = append(states, stateTiledTop)
		}
		if flags.TiledBottom {
			states = append(states, stateTiledBottom)
		}
		buf := make([]byte, 4*len(states))
		for i, s := range states {
			binary.LittleEndian.PutUint32(buf[i*4:], s)
		}
		w.PutArray(buf)
	})
	t.serial++
	t.xdgSurface.sendConfigure(t.serial)
}

// nopObject satisfies wire.Object for requests this compositor accepts
// syntactically but never acts on (positioners, popups): every request,
// destroy included, is ignored and the id stays bound.
type nopObject struct {
	id   uint32
	name string
}

func (n *nopObject) Interface() string { return n.name }
func (n *nopObject) Dispatch(opcode uint16, r *wire.Reader) error { return nil }

// zxdg_decoration_manager_v1 / zxdg_toplevel_decoration_v1.
const opDecorationManagerGetToplevelDecoration = 1

// DecorationManager implements zxdg_decoration_manager_v1. Every
// decoration this compositor hands out is forced server-side: toplevels
// draw their own title bar (see compositor.State.TitleBarHeight), so a
// client-side-decoration mode is never offered.
type DecorationManager struct {
	client *Client
}

func NewDecorationManager(c *Client) *DecorationManager { return &DecorationManager{client: c} }

func (m *DecorationManager) Interface() string { return "zxdg_decoration_manager_v1" }

func (m *DecorationManager) Dispatch(opcode uint16, r *wire.Reader) error {
	if opcode != opDecorationManagerGetToplevelDecoration {
		return nil
	}
	id, err := r.Object()
	if err != nil {
		return err
	}
	if _, err := r.Object(); err != nil { // toplevel
		return err
	}
	d := &ToplevelDecoration{id: id, client: m.client}
	m.client.Objects.Insert(id, d)
	d.sendConfigure()
	return nil
}

const (
	opDecorationSetMode   = 1
	opDecorationUnsetMode = 2

	decorationModeServerSide = 2
)

// ToplevelDecoration always reports/forces ServerSide regardless of what
// the client requests.
type ToplevelDecoration struct {
	id     uint32
	client *Client
}

func (d *ToplevelDecoration) Interface() string { return "zxdg_toplevel_decoration_v1" }

func (d *ToplevelDecoration) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opDecorationSetMode:
		if _, err := r.Uint(); err != nil {
			return err
		}
		d.sendConfigure()
	case opDecorationUnsetMode:
		d.sendConfigure()
	}
	return nil
}

func (d *ToplevelDecoration) sendConfigure() {
	d.client.SendEvent(d.id, 0, func(w *wire.Writer) { w.PutUint(decorationModeServerSide) })
}

package input

import (
	"strings"

	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/internal/session"
	"github.com/ktcwm/ktc/protocol"
)

// Seat is the subset of *protocol.Server a Router drives. Spelled out
// as an interface so a test can fake it without standing up a real
// Wayland socket.
type Seat interface {
	DispatchKeyboardFocus(events []compositor.KeyboardEvent)
	DispatchKey(id compositor.WindowID, serial, timeMs, keycode uint32, pressed bool)
	DispatchModifiers(id compositor.WindowID, serial, depressed, latched, locked uint32)
	DispatchPointerFocus(events []compositor.PointerEvent, x, y float64)
	DispatchPointerMotion(id compositor.WindowID, timeMs uint32, x, y float64)
	DispatchPointerButton(id compositor.WindowID, serial, timeMs, button uint32, pressed bool)
	CloseWindow(id compositor.WindowID) bool
	Sink() compositor.ConfigureSink
}

var _ Seat = (*protocol.Server)(nil)

// Router turns Device events into compositor state transitions and the
// seat wire events they imply. It holds no fd of its own: the caller
// drains Device.ReadEvents and feeds each Event to Handle.
type Router struct {
	state          *compositor.State
	seat           Seat
	session        *session.Session
	waylandDisplay string

	// suppressed tracks keycodes whose press matched a keybinding, so
	// the matching release is withheld too instead of falling through
	// to the focused client (a bound combo's release must never reach
	// the window that never saw its press).
	suppressed map[uint32]bool

	// Exit is called once when the "exit" keybinding action fires. The
	// caller is expected to break its run loop on the next iteration.
	Exit func()

	// Notify is called after any action that changes workspace
	// membership, mirroring protocol.Client.Notify so the IPC server
	// rebroadcasts state on keybinding-driven changes too, not only
	// client-driven ones.
	Notify func()

	// NotifyFocus is called after any action that moves keyboard focus
	// without switching workspace (focus_next/focus_prev, click-to-focus),
	// so the IPC server can broadcast a dedicated focus event rather than
	// folding it into the workspace broadcast.
	NotifyFocus func()
}

// NewRouter builds a Router bound to the compositor state it will
// mutate and the seat it sends wire events through.
func NewRouter(state *compositor.State, seat Seat, sess *session.Session, waylandDisplay string) *Router {
	return &Router{state: state, seat: seat, session: sess, waylandDisplay: waylandDisplay, suppressed: make(map[uint32]bool)}
}

func (r *Router) notify() {
	if r.Notify != nil {
		r.Notify()
	}
}

func (r *Router) notifyFocus() {
	if r.NotifyFocus != nil {
		r.NotifyFocus()
	}
}

// Handle dispatches one input event, mutating focus state and sending
// whatever seat events the transition implies.
func (r *Router) Handle(ev Event) {
	switch ev.Kind {
	case KeyEvent:
		r.handleKey(ev)
	case PointerMotionEvent:
		r.handleMotion(ev)
	case PointerButtonEvent:
		r.handleButton(ev)
	}
}

func (r *Router) handleKey(ev Event) {
	if ev.Pressed {
		if action, ok := r.state.Matcher.Match(ev.Mods, ev.Sym); ok {
			r.suppressed[ev.Keycode] = true
			r.runAction(action)
			return
		}
		delete(r.suppressed, ev.Keycode)
	} else if r.suppressed[ev.Keycode] {
		delete(r.suppressed, ev.Keycode)
		return
	}
	if r.state.Focus.Keyboard == nil {
		return
	}
	r.seat.DispatchKey(*r.state.Focus.Keyboard, r.state.KeySerials.Next(), ev.TimeMs, ev.Keycode, ev.Pressed)
}

// runAction executes a matched keybinding. Unrecognized actions (a
// typo in config.toml) are silently ignored, consistent with a
// malformed config never blocking startup.
func (r *Router) runAction(action string) {
	switch action {
	case "close_window":
		if r.state.Focus.Keyboard != nil {
			r.seat.CloseWindow(*r.state.Focus.Keyboard)
		}
		return
	case "exit":
		if r.Exit != nil {
			r.Exit()
		}
		return
	case "focus_next":
		r.cycleFocus(1)
		return
	case "focus_prev":
		r.cycleFocus(-1)
		return
	}
	if name, n, ok := compositor.ParseWorkspaceAction(action); ok {
		switch name {
		case "workspace":
			r.state.SwitchWorkspace(n, r.seat.Sink())
		case "move_to_workspace":
			r.state.MoveToWorkspace(n, r.seat.Sink())
		}
		r.notify()
		return
	}
	if argv, ok := compositor.ParseExecAction(action); ok {
		_ = r.session.SpawnChild(strings.Fields(argv), r.waylandDisplay)
	}
}

// cycleFocus moves keyboard focus to the next/previous window on the
// active workspace, in VisibleWindows order, wrapping around.
func (r *Router) cycleFocus(dir int) {
	visible := r.state.VisibleWindows()
	if len(visible) == 0 {
		return
	}
	idx := 0
	if r.state.Focus.Keyboard != nil {
		for i, w := range visible {
			if w.ID == *r.state.Focus.Keyboard {
				idx = i
				break
			}
		}
	}
	next := (idx + dir + len(visible)) % len(visible)
	id := visible[next].ID
	events := r.state.Focus.SetKeyboardFocus(&id, &r.state.KeySerials)
	r.seat.DispatchKeyboardFocus(events)
	r.state.Relayout(r.seat.Sink())
	r.notifyFocus()
}

// handleMotion advances the cursor position and, when it crosses into
// a different window, sends the pointer enter/leave pair followed by
// a motion event in the new window's surface-local coordinates.
func (r *Router) handleMotion(ev Event) {
	x := float64(r.state.Focus.CursorX) + ev.DX
	y := float64(r.state.Focus.CursorY) + ev.DY
	x = clampf(x, 0, float64(r.state.Screen.W-1))
	y = clampf(y, 0, float64(r.state.Screen.H-1))
	r.state.Focus.Motion(int(x), int(y), 1, 1)

	hit, ok := compositor.HitTest(r.state.VisibleWindows(), int(x), int(y))
	var newFocus *compositor.WindowID
	var localX, localY float64
	if ok {
		newFocus = &hit
		if win := r.windowByID(hit); win != nil {
			localX = x - float64(win.Geometry.X)
			localY = y - float64(win.Geometry.Y+r.state.TitleBarHeight)
		}
	}
	events := r.state.Focus.SetPointerFocus(newFocus, &r.state.PointerSerials)
	r.seat.DispatchPointerFocus(events, localX, localY)
	if !ok {
		return
	}
	r.seat.DispatchPointerMotion(hit, ev.TimeMs, localX, localY)
}

func (r *Router) handleButton(ev Event) {
	if r.state.Focus.Pointer == nil {
		return
	}
	id := *r.state.Focus.Pointer
	if ev.Pressed {
		// Click-to-focus: a button press also moves keyboard focus to
		// the window under the pointer, the common tiling-WM behavior.
		events := r.state.Focus.SetKeyboardFocus(&id, &r.state.KeySerials)
		if len(events) > 0 {
			r.seat.DispatchKeyboardFocus(events)
			r.state.Relayout(r.seat.Sink())
			r.notifyFocus()
		}
	}
	r.seat.DispatchPointerButton(id, r.state.PointerSerials.Next(), ev.TimeMs, ev.Button, ev.Pressed)
}

func (r *Router) windowByID(id compositor.WindowID) *compositor.Window {
	for _, w := range r.state.VisibleWindows() {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

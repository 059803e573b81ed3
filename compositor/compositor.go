package compositor

import (
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/layout"
)

// ConfigureSink receives the configure events a relayout produces. The
// protocol package implements this to actually encode and send
// xdg_toplevel.configure / zwlr_layer_surface_v1.configure requests;
// this package stays free of wire encoding.
type ConfigureSink interface {
	ConfigureToplevel(w *Window, flags layout.TileStateFlags)
	ConfigureLayerSurface(l *LayerSurface)
}

// State is the compositor root: the single value threaded through
// every protocol handler, rather than held as package-level globals. It owns
// the window/layer/workspace/focus model; buffer registry, texture
// cache, and the renderer are owned alongside it by the process
// entrypoint and referenced by the protocol handlers directly.
type State struct {
	Windows       []*Window
	LayerSurfaces []*LayerSurface
	Workspaces    *WorkspaceSet
	Focus         FocusState
	KeySerials    SerialCounter
	PointerSerials SerialCounter
	Matcher       *Matcher

	Screen         geometry.Rect
	TitleBarHeight int
	Damage         *geometry.DamageTracker

	nextWindowID WindowID
	nextLayerSeq int
}

// NewState builds an empty compositor state for a screen of the given
// size with workspaceCount buckets (4 by default).
func NewState(screen geometry.Rect, titleBarHeight, workspaceCount int) *State {
	return &State{
		Workspaces:     NewWorkspaceSet(workspaceCount),
		Screen:         screen,
		TitleBarHeight: titleBarHeight,
		Damage:         geometry.NewDamageTracker(screen),
	}
}

// AddWindow creates a toplevel pinned to the workspace active at
// creation time, and relayouts.
func (s *State) AddWindow(shellID, surfaceID uint32, sink ConfigureSink) *Window {
	s.nextWindowID++
	w := &Window{
		ID:        s.nextWindowID,
		ShellID:   shellID,
		Workspace: s.Workspaces.Active,
	}
	w.SurfaceID = surfaceID
	s.Windows = append(s.Windows, w)
	s.Relayout(sink)
	return w
}

// RemoveWindow destroys a window (surface destroy or client disconnect)
// and relayouts. Focus clears if the removed window held it.
func (s *State) RemoveWindow(id WindowID, sink ConfigureSink) {
	for i, w := range s.Windows {
		if w.ID == id {
			s.Windows = append(s.Windows[:i], s.Windows[i+1:]...)
			break
		}
	}
	if s.Focus.Keyboard != nil && *s.Focus.Keyboard == id {
		s.Focus.SetKeyboardFocus(nil, &s.KeySerials)
	}
	if s.Focus.Pointer != nil && *s.Focus.Pointer == id {
		s.Focus.SetPointerFocus(nil, &s.PointerSerials)
	}
	s.Relayout(sink)
}

// Relayout is a pure function of (active-workspace window count,
// screen): it is idempotent for a constant input and issues one
// configure per window. Windows not on the active workspace are left
// configured at their last geometry but contribute nothing to layout.
func (s *State) Relayout(sink ConfigureSink) {
	active := WindowsOn(s.Windows, s.Workspaces.Active)
	n := len(active)
	if n == 0 {
		return
	}
	contentH := s.Screen.H - s.TitleBarHeight
	rects := layout.TileAll(n, s.Screen.W, contentH)
	for i, w := range active {
		r := rects[i]
		w.Geometry = geometry.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
		activated := s.Focus.Keyboard != nil && *s.Focus.Keyboard == w.ID
		flags := layout.TileFlagsFor(i, n, s.Screen.W, contentH, activated)
		if sink != nil {
			sink.ConfigureToplevel(w, flags)
		}
	}
	s.Damage.Full()
}

// SwitchWorkspace activates workspace n, focusing its first window (or
// clearing focus if it has none), marking full damage, and relayouting.
func (s *State) SwitchWorkspace(n int, sink ConfigureSink) bool {
	if !s.Workspaces.Switch(n) {
		return false
	}
	onNew := WindowsOn(s.Windows, n)
	if len(onNew) > 0 {
		id := onNew[0].ID
		s.Focus.SetKeyboardFocus(&id, &s.KeySerials)
	} else {
		s.Focus.SetKeyboardFocus(nil, &s.KeySerials)
	}
	s.Damage.Full()
	s.Relayout(sink)
	return true
}

// MoveToWorkspace reassigns the focused window to n and relayouts the
// active workspace only (the moved window stops appearing there if
// n != active); windows on other workspaces keep their geometry until
// that workspace is next laid out.
func (s *State) MoveToWorkspace(n int, sink ConfigureSink) bool {
	if s.Focus.Keyboard == nil {
		return false
	}
	var win *Window
	for _, w := range s.Windows {
		if w.ID == *s.Focus.Keyboard {
			win = w
			break
		}
	}
	if win == nil {
		return false
	}
	if !MoveWindow(win, n, s.Workspaces.Count) {
		return false
	}
	s.Damage.Full()
	s.Relayout(sink)
	return true
}

// VisibleWindows returns the active workspace's windows, mapped or not,
// in layout (z/focus) order, the order the renderer draws them in.
func (s *State) VisibleWindows() []*Window {
	return WindowsOn(s.Windows, s.Workspaces.Active)
}

// AddLayerSurface creates a layer-shell surface; callers compute and
// assign its initial Geometry via layout.LayerGeometry before the
// first configure is sent.
func (s *State) AddLayerSurface(id uint32, layer Layer) *LayerSurface {
	s.nextLayerSeq++
	return &LayerSurface{
		ID:         id,
		Layer:      layer,
		CreatedSeq: s.nextLayerSeq,
	}
}

// RemoveLayerSurface drops a destroyed layer surface from tracking.
func (s *State) RemoveLayerSurface(surfaces []*LayerSurface, id uint32) []*LayerSurface {
	for i, l := range surfaces {
		if l.ID == id {
			return append(surfaces[:i], surfaces[i+1:]...)
		}
	}
	return surfaces
}

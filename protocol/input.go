package protocol

import "github.com/ktcwm/ktc/compositor"

// This file is the seat-routing surface a caller outside the protocol
// package (the input router) uses to turn compositor focus/hit-test
// results into wl_keyboard/wl_pointer wire events. The protocol package
// never decides focus itself; it only knows how to address the objects
// bound for a given window once told which one to notify.

// clientForWindow finds the client owning a toplevel, by linear scan of
// the connected clients. The client count is small (one per connected
// application), so this never needs an index.
func (s *Server) clientForWindow(id compositor.WindowID) (*Client, *Toplevel, bool) {
	for _, c := range s.clients {
		if t, ok := c.toplevels[id]; ok {
			return c, t, true
		}
	}
	return nil, nil, false
}

// clientForLayer finds the client owning a zwlr_layer_surface_v1
// object, the layer-shell analogue of clientForWindow: relayout
// touches every tracked layer surface regardless of which client
// created it, so addressing its configure event requires crossing
// client boundaries the same way.
func (s *Server) clientForLayer(id uint32) (*Client, *LayerSurface, bool) {
	for _, c := range s.clients {
		if ls, ok := c.layers[id]; ok {
			return c, ls, true
		}
	}
	return nil, nil, false
}

// DispatchKeyboardFocus sends the wl_keyboard.leave/enter pair a focus
// transition produces, addressed to every wl_keyboard bound by the
// owning client.
func (s *Server) DispatchKeyboardFocus(events []compositor.KeyboardEvent) {
	for _, ev := range events {
		c, t, ok := s.clientForWindow(ev.Window)
		if !ok {
			continue
		}
		for _, kb := range c.keyboards {
			if ev.Kind == compositor.KeyboardEnter {
				kb.SendEnter(ev.Serial, t.SurfaceID())
			} else {
				kb.SendLeave(ev.Serial, t.SurfaceID())
			}
		}
	}
}

// DispatchKey forwards one key press/release to every wl_keyboard bound
// by the client currently owning keyboard focus on id.
func (s *Server) DispatchKey(id compositor.WindowID, serial, timeMs, keycode uint32, pressed bool) {
	c, _, ok := s.clientForWindow(id)
	if !ok {
		return
	}
	for _, kb := range c.keyboards {
		kb.SendKey(serial, timeMs, keycode, pressed)
	}
}

// DispatchModifiers forwards a modifier-state change to the focused
// client's keyboards.
func (s *Server) DispatchModifiers(id compositor.WindowID, serial, depressed, latched, locked uint32) {
	c, _, ok := s.clientForWindow(id)
	if !ok {
		return
	}
	for _, kb := range c.keyboards {
		kb.SendModifiers(serial, depressed, latched, locked, 0)
	}
}

// DispatchPointerFocus sends the wl_pointer.leave/enter pair a pointer
// focus transition produces.
func (s *Server) DispatchPointerFocus(events []compositor.PointerEvent, x, y float64) {
	for _, ev := range events {
		c, t, ok := s.clientForWindow(ev.Window)
		if !ok {
			continue
		}
		for _, p := range c.pointers {
			if ev.Kind == compositor.KeyboardEnter {
				p.SendEnter(ev.Serial, t.SurfaceID(), x, y)
			} else {
				p.SendLeave(ev.Serial, t.SurfaceID())
			}
			p.SendFrame()
		}
	}
}

// DispatchPointerMotion forwards relative motion, already translated
// into the focused window's surface-local coordinates, to its client.
func (s *Server) DispatchPointerMotion(id compositor.WindowID, timeMs uint32, x, y float64) {
	c, _, ok := s.clientForWindow(id)
	if !ok {
		return
	}
	for _, p := range c.pointers {
		p.SendMotion(timeMs, x, y)
		p.SendFrame()
	}
}

// DispatchPointerButton forwards a button press/release to the window
// currently holding pointer focus.
func (s *Server) DispatchPointerButton(id compositor.WindowID, serial, timeMs, button uint32, pressed bool) {
	c, _, ok := s.clientForWindow(id)
	if !ok {
		return
	}
	for _, p := range c.pointers {
		p.SendButton(serial, timeMs, button, pressed)
		p.SendFrame()
	}
}

// CloseWindow asks a toplevel's client to close it (xdg_toplevel.close);
// the compositor only ever requests a close, it never destroys a
// client's window state unilaterally.
func (s *Server) CloseWindow(id compositor.WindowID) bool {
	_, t, ok := s.clientForWindow(id)
	if !ok {
		return false
	}
	t.sendClose()
	return true
}

// Sink returns the ConfigureSink callers outside this package (the
// input router, handling workspace-switch and focus-cycle keybindings)
// use to trigger a relayout: State itself has no notion of which
// client owns which window, so every caller of a State method taking a
// ConfigureSink reaches it through here. Any connected client's
// ConfigureToplevel/ConfigureLayerSurface works identically, since both
// fan out through this server rather than their own tracking maps once
// a client knows its server.
func (s *Server) Sink() compositor.ConfigureSink {
	if len(s.clients) == 0 {
		return nil
	}
	for _, c := range s.clients {
		return c
	}
	return nil
}

// State exposes the compositor state a Router needs to read (focus,
// windows, workspaces) without importing the protocol package's
// internals.
func (s *Server) State() *compositor.State { return s.state }

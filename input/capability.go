// Package input owns libinput as an external capability, the same way
// package render owns the DRM/GBM/EGL devices it drives: this package
// never talks to libinput via cgo itself. It defines the event shape
// and the Device interface a real backend implements, and a Router
// that turns Device events into compositor focus transitions,
// keybinding actions and seat wire events.
package input

import (
	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/internal/config"
)

// EventKind distinguishes the handful of input events the router acts
// on. Relative pointer motion and absolute touch are not modeled
// separately; a real libinput backend normalizes both to the DX/DY
// relative form here.
type EventKind int

const (
	KeyEvent EventKind = iota
	PointerMotionEvent
	PointerButtonEvent
)

// Event is one input event as a real libinput-backed Device would
// deliver it, already resolved to a keysym and modifier mask by the
// xkbcommon state that Device owns internally.
type Event struct {
	Kind   EventKind
	TimeMs uint32

	// KeyEvent fields.
	Keycode uint32
	Sym     config.Keysym
	Pressed bool
	Mods    compositor.ModMask

	// PointerMotionEvent fields: relative motion in compositor pixels.
	DX, DY float64

	// PointerButtonEvent fields.
	Button uint32
}

// Device is the capability surface over a probed libinput context: a
// pollable fd plus non-blocking event drain, mirroring
// render.DRMDevice's shape. No implementation of this interface ships
// in this tree; wiring a real one means linking libinput via cgo,
// which is out of scope here the same way a real GL/Vulkan backend is.
// A nil Device simply means the compositor loop never registers an
// input fd, which is safe: key/pointer-driven actions never fire, but
// IPC-driven workspace switches and screencopy still work.
type Device interface {
	Fd() int
	ReadEvents() ([]Event, error)
}

package compositor

import "github.com/ktcwm/ktc/geometry"

// WindowID identifies a toplevel window, monotonic and never reused
// within a run.
type WindowID uint32

// Layer is the zwlr_layer_shell_v1 stacking layer.
type Layer int

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// surfaceCommon is the buffer/damage/frame-callback lifecycle shared by
// Window and LayerSurface: attach sets the pending
// buffer, damage accumulates in surface-local coordinates, frame
// queues a callback, and commit promotes pending to current.
type surfaceCommon struct {
	SurfaceID       uint32
	currentBufferID uint32
	pendingBufferID uint32
	hasPending      bool
	pendingDamage   []geometry.Rect
	pendingCallback []uint32
}

// Attach records the buffer a subsequent commit will promote to
// current. A zero id means "null buffer" (unmaps on commit).
func (s *surfaceCommon) Attach(bufferID uint32) {
	s.pendingBufferID = bufferID
	s.hasPending = true
}

// AddDamage appends a surface-local damage rectangle to the pending list.
func (s *surfaceCommon) AddDamage(r geometry.Rect) {
	s.pendingDamage = append(s.pendingDamage, r)
}

// QueueFrameCallback records a wl_callback object id to fire once this
// commit's buffer reaches scanout.
func (s *surfaceCommon) QueueFrameCallback(id uint32) {
	s.pendingCallback = append(s.pendingCallback, id)
}

// commit promotes pending state to current. It returns the previous
// current buffer id (0 if none) so the caller can send its release
// event exactly once, the screen-translated damage
// (caller adds surface origin), and the queued callback ids.
func (s *surfaceCommon) commit(origin geometry.Rect) (releasedBufferID uint32, mapped bool, damage []geometry.Rect, callbacks []uint32) {
	released := s.currentBufferID
	if s.hasPending {
		s.currentBufferID = s.pendingBufferID
		s.hasPending = false
	}
	translated := make([]geometry.Rect, len(s.pendingDamage))
	for i, r := range s.pendingDamage {
		translated[i] = r.Translate(origin.X, origin.Y)
	}
	s.pendingDamage = nil
	cbs := s.pendingCallback
	s.pendingCallback = nil
	return released, s.currentBufferID != 0, translated, cbs
}

// CurrentBuffer returns the buffer id currently mapped to this surface
// (0 if unmapped).
func (s *surfaceCommon) CurrentBuffer() uint32 { return s.currentBufferID }

// Window is a toplevel surface.
type Window struct {
	surfaceCommon

	ID        WindowID
	ShellID   uint32 // xdg_toplevel object id
	Title     string
	AppID     string
	Workspace int
	Mapped    bool
	Geometry  geometry.Rect

	// Pixel cache decoupling the drawn content from the shm pool's
	// mapping, populated by the texture upload path.
	PixelW, PixelH, PixelStride int
	NeedsRedraw                 bool
}

// Commit promotes the pending buffer/damage and reports whether the
// window is now mapped (mapped iff current_buffer != None).
// titleBarHeight offsets damage into screen space for the content area
// beneath the title bar.
func (w *Window) Commit(titleBarHeight int) (releasedBufferID uint32, damage []geometry.Rect, callbacks []uint32) {
	origin := geometry.Rect{X: w.Geometry.X, Y: w.Geometry.Y + titleBarHeight}
	released, mapped, dmg, cbs := w.commit(origin)
	w.Mapped = mapped
	if w.CurrentBuffer() != 0 {
		w.NeedsRedraw = true
	}
	return released, dmg, cbs
}

// LayerSurface is a layer-shell surface.
type LayerSurface struct {
	surfaceCommon

	ID          uint32 // zwlr_layer_surface_v1 object id
	Layer       Layer
	Anchor      uint32 // bitmask, see layout.Anchor
	Exclusive   int
	MarginT, MarginR, MarginB, MarginL int
	DesiredW, DesiredH int
	KeyboardInteractive bool
	Configured  bool
	Geometry    geometry.Rect
	CreatedSeq  int // creation order, for same-layer draw tie-break
}

// Commit promotes pending state. The caller is responsible for issuing
// an initial configure before the first commit maps the surface.
func (l *LayerSurface) Commit() (releasedBufferID uint32, mapped bool, damage []geometry.Rect, callbacks []uint32) {
	origin := geometry.Rect{X: l.Geometry.X, Y: l.Geometry.Y}
	return l.commit(origin)
}

// Package compositor holds the root state machine: windows, layer
// surfaces, workspaces, focus, and the keybinding matcher. It is
// threaded explicitly through every protocol handler rather than held
// as package-level state.
package compositor

// SerialCounter is a per-compositor monotonic u32 counter used to
// correlate Wayland events with client acks. Two independent counters
// exist in practice (keyboard, pointer); each wraps modulo 2^32 rather
// than panicking.
type SerialCounter struct {
	next uint32
}

// Next returns the next serial and advances the counter, wrapping
// silently on overflow.
func (s *SerialCounter) Next() uint32 {
	s.next++
	return s.next
}

// Current returns the most recently issued serial without advancing.
func (s *SerialCounter) Current() uint32 {
	return s.next
}

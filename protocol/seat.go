package protocol

import (
	"golang.org/x/sys/unix"

	"github.com/ktcwm/ktc/wire"
)

// wl_seat capability bits and request opcodes.
const (
	seatCapPointer  = 1
	seatCapKeyboard = 2

	opSeatGetPointer  = 0
	opSeatGetKeyboard = 1
	opSeatGetTouch    = 2
	opSeatRelease     = 3
)

// Seat implements wl_seat. There is exactly one seat and it always
// reports pointer+keyboard capability; touch is accepted but the
// returned object never emits events, since there is no touch input
// source in the compositor loop.
type Seat struct {
	client *Client
}

func NewSeat(c *Client) *Seat { return &Seat{client: c} }

func (s *Seat) Interface() string { return "wl_seat" }

func (s *Seat) Dispatch(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opSeatGetPointer:
		id, err := r.Object()
		if err != nil {
			return err
		}
		p := &Pointer{id: id, client: s.client}
		s.client.Objects.Insert(id, p)
		s.client.pointers = append(s.client.pointers, p)
	case opSeatGetKeyboard:
		id, err := r.Object()
		if err != nil {
			return err
		}
		kb := &Keyboard{id: id, client: s.client}
		s.client.Objects.Insert(id, kb)
		s.client.keyboards = append(s.client.keyboards, kb)
		kb.sendKeymap()
	case opSeatGetTouch:
		id, err := r.Object()
		if err != nil {
			return err
		}
		s.client.Objects.Insert(id, &nopObject{id: id, name: "wl_touch"})
	case opSeatRelease:
	}
	return nil
}

const opKeyboardRelease = 0

// minimalKeymap is a compact, syntactically valid XKB keymap text
// describing a plain "us" layout: enough for clients to compile a
// working keysym table without a full xkbcommon-rules-driven build.
const minimalKeymap = `xkb_keymap {
	xkb_keycodes "(unnamed)" { minimum = 8; maximum = 255; };
	xkb_types "(unnamed)" { };
	xkb_compat "(unnamed)" { };
	xkb_symbols "(unnamed)" { };
};
`

// Keyboard implements wl_keyboard.
type Keyboard struct {
	id     uint32
	client *Client
}

func (k *Keyboard) Interface() string { return "wl_keyboard" }

func (k *Keyboard) Dispatch(opcode uint16, r *wire.Reader) error { return nil }

// sendKeymap writes minimalKeymap into a memfd and hands it to the
// client via wl_keyboard.keymap (format=1, XKB_V1).
func (k *Keyboard) sendKeymap() {
	data := []byte(minimalKeymap)
	fd, err := unix.MemfdCreate("ktc-keymap", 0)
	if err != nil {
		return
	}
	defer unix.Close(fd)
	if err := unix.Ftruncate(fd, int64(len(data))); err != nil {
		return
	}
	mapped, err := unix.Mmap(fd, 0, len(data), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return
	}
	copy(mapped, data)
	unix.Munmap(mapped)

	k.client.SendEvent(k.id, 0, func(w *wire.Writer) {
		w.PutUint(1) // XKB_V1
		w.PutFd(fd)
		w.PutUint(uint32(len(data)))
	})
}

// SendEnter emits wl_keyboard.enter for the window gaining focus.
func (k *Keyboard) SendEnter(serial uint32, surfaceID uint32) {
	k.client.SendEvent(k.id, 1, func(w *wire.Writer) {
		w.PutUint(serial)
		w.PutObject(surfaceID)
		w.PutArray(nil)
	})
}

// SendLeave emits wl_keyboard.leave.
func (k *Keyboard) SendLeave(serial uint32, surfaceID uint32) {
	k.client.SendEvent(k.id, 2, func(w *wire.Writer) {
		w.PutUint(serial)
		w.PutObject(surfaceID)
	})
}

// SendKey emits wl_keyboard.key.
func (k *Keyboard) SendKey(serial uint32, timeMs uint32, key uint32, pressed bool) {
	state := uint32(0)
	if pressed {
		state = 1
	}
	k.client.SendEvent(k.id, 3, func(w *wire.Writer) {
		w.PutUint(serial)
		w.PutUint(timeMs)
		w.PutUint(key)
		w.PutUint(state)
	})
}

// SendModifiers emits wl_keyboard.modifiers.
func (k *Keyboard) SendModifiers(serial, depressed, latched, locked, group uint32) {
	k.client.SendEvent(k.id, 4, func(w *wire.Writer) {
		w.PutUint(serial)
		w.PutUint(depressed)
		w.PutUint(latched)
		w.PutUint(locked)
		w.PutUint(group)
	})
}

// wl_pointer request opcodes.
const (
	opPointerSetCursor = 0
	opPointerRelease   = 1
)

// Pointer implements wl_pointer.
type Pointer struct {
	id     uint32
	client *Client
}

func (p *Pointer) Interface() string { return "wl_pointer" }

func (p *Pointer) Dispatch(opcode uint16, r *wire.Reader) error {
	if opcode != opPointerSetCursor {
		return nil
	}
	if _, err := r.Uint(); err != nil { // serial
		return err
	}
	if _, err := r.Object(); err != nil { // surface, nullable
		return err
	}
	if _, err := r.Int(); err != nil { // hotspot_x
		return err
	}
	if _, err := r.Int(); err != nil { // hotspot_y
		return err
	}
	return nil
}

// SendEnter emits wl_pointer.enter.
func (p *Pointer) SendEnter(serial uint32, surfaceID uint32, x, y float64) {
	p.client.SendEvent(p.id, 0, func(w *wire.Writer) {
		w.PutUint(serial)
		w.PutObject(surfaceID)
		w.PutFixed(x)
		w.PutFixed(y)
	})
}

// SendLeave emits wl_pointer.leave.
func (p *Pointer) SendLeave(serial uint32, surfaceID uint32) {
	p.client.SendEvent(p.id, 1, func(w *wire.Writer) {
		w.PutUint(serial)
		w.PutObject(surfaceID)
	})
}

// SendMotion emits wl_pointer.motion.
func (p *Pointer) SendMotion(timeMs uint32, x, y float64) {
	p.client.SendEvent(p.id, 2, func(w *wire.Writer) {
		w.PutUint(timeMs)
		w.PutFixed(x)
		w.PutFixed(y)
	})
}

// SendButton emits wl_pointer.button.
func (p *Pointer) SendButton(serial, timeMs, button uint32, pressed bool) {
	state := uint32(0)
	if pressed {
		state = 1
	}
	p.client.SendEvent(p.id, 3, func(w *wire.Writer) {
		w.PutUint(serial)
		w.PutUint(timeMs)
		w.PutUint(button)
		w.PutUint(state)
	})
}

// SendFrame emits wl_pointer.frame, terminating a batch of pointer events.
func (p *Pointer) SendFrame() {
	p.client.SendEvent(p.id, 5, nil)
}

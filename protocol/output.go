package protocol

import "github.com/ktcwm/ktc/wire"

const opOutputRelease = 0

// Output implements wl_output for the single output this compositor
// drives. Geometry/mode/scale/name/description/done are all sent once,
// at bind time, from the current screen rectangle; there is no
// hotplug, so no later wl_output event is ever needed.
type Output struct {
	id     uint32
	client *Client
}

func NewOutput(id uint32, c *Client) *Output { return &Output{id: id, client: c} }

func (o *Output) Interface() string { return "wl_output" }

func (o *Output) Dispatch(opcode uint16, r *wire.Reader) error { return nil }

// Advertise sends the bind-time event sequence.
func (o *Output) Advertise() {
	screen := o.client.State.Screen
	o.client.SendEvent(o.id, 0, func(w *wire.Writer) { // geometry
		w.PutInt(int32(screen.X))
		w.PutInt(int32(screen.Y))
		w.PutInt(0) // physical_width, unknown without EDID
		w.PutInt(0) // physical_height
		w.PutInt(0) // subpixel: unknown
		w.PutString("ktc")
		w.PutString("ktc-output")
		w.PutInt(0) // transform: normal
	})
	o.client.SendEvent(o.id, 1, func(w *wire.Writer) { // mode
		w.PutUint(0x3) // current | preferred
		w.PutInt(int32(screen.W))
		w.PutInt(int32(screen.H))
		w.PutInt(60000)
	})
	o.client.SendEvent(o.id, 3, func(w *wire.Writer) { w.PutInt(1) }) // scale
	o.client.SendEvent(o.id, 4, func(w *wire.Writer) { w.PutString("ktc-0") })           // name (v4)
	o.client.SendEvent(o.id, 5, func(w *wire.Writer) { w.PutString("ktc virtual output") }) // description (v4)
	o.client.SendEvent(o.id, 2, nil)                                                     // done
}

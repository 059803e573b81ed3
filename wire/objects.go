package wire

import "fmt"

// Object is anything bound into a client's object table: a protocol
// implementation that can handle a decoded request body for itself.
// The protocol package implements this per-interface (compositor,
// surface, seat, ...); wire only knows how to route by id.
type Object interface {
	// Dispatch handles one request addressed to this object. opcode is
	// the request's method index within the interface; r is positioned
	// at the start of the argument payload.
	Dispatch(opcode uint16, r *Reader) error

	// Interface is the protocol interface name, used for error messages
	// and registry introspection (e.g. "wl_surface").
	Interface() string
}

// Table is a per-client map from protocol object id to the live Object
// bound to it. Ids are never reused while a client is alive: surfaces
// are referenced by id through a central registry, never held by
// direct pointer, so destroy-while-iterating is safe.
type Table struct {
	objects map[uint32]Object
}

// NewTable returns an empty table seeded with nothing; callers
// register id 1 as the wl_display singleton immediately after.
func NewTable() *Table {
	return &Table{objects: make(map[uint32]Object)}
}

// Insert binds obj to id, replacing anything previously there. Wayland
// forbids a client from reusing a live id, but the compositor does not
// need to re-validate that here; callers that care do so before
// calling Insert.
func (t *Table) Insert(id uint32, obj Object) {
	t.objects[id] = obj
}

// Lookup returns the object bound to id, if any.
func (t *Table) Lookup(id uint32) (Object, bool) {
	obj, ok := t.objects[id]
	return obj, ok
}

// Delete removes id from the table, e.g. on a *_destroy request or
// client disconnect cleanup.
func (t *Table) Delete(id uint32) {
	delete(t.objects, id)
}

// Dispatch decodes no further than locating the target object and
// invoking it; argument decoding is the object's own responsibility
// since only it knows its request signatures.
func (t *Table) Dispatch(h Header, body []byte, fds []int) error {
	obj, ok := t.Lookup(h.ObjectID)
	if !ok {
		return fmt.Errorf("wire: request for unknown object id %d (opcode %d)", h.ObjectID, h.Opcode)
	}
	return obj.Dispatch(h.Opcode, NewReader(body, fds))
}

// Ids returns every currently-bound object id, for diagnostics and for
// client-disconnect teardown walks.
func (t *Table) Ids() []uint32 {
	out := make([]uint32, 0, len(t.objects))
	for id := range t.objects {
		out = append(out, id)
	}
	return out
}

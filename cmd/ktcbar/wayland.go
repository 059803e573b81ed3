package main

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/ktcwm/ktc/wire"
)

// waylandConn is a thin client-side wrapper over wire.Conn: it reuses
// the same header/argument encoding the compositor's server uses, just
// driving requests instead of decoding them, and blocks on read since
// this process has no poll loop of its own.
type waylandConn struct {
	conn *wire.Conn
	next uint32 // next client-allocated object id
}

// dialWayland connects to the compositor's UNIX socket at path and
// reserves object id 1 for wl_display, the one id every Wayland
// connection assumes without binding it first.
func dialWayland(path string) (*waylandConn, error) {
	c, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial wayland socket: %w", err)
	}
	uc, ok := c.(*net.UnixConn)
	if !ok {
		return nil, fmt.Errorf("dial wayland socket: not a unix connection")
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return nil, err
	}
	var fd int
	if err := raw.Control(func(f uintptr) { fd = int(f) }); err != nil {
		return nil, err
	}
	dupFd, err := unix.Dup(fd)
	if err != nil {
		return nil, err
	}
	uc.Close()
	return &waylandConn{conn: wire.NewConn(dupFd), next: 2}, nil
}

// newID allocates the next client-side object id. The compositor keeps
// one flat object table per connection with no client/server id-range
// split, so any id distinct from the ones already in flight is valid.
func (w *waylandConn) newID() uint32 {
	id := w.next
	w.next++
	return id
}

func (w *waylandConn) request(objectID uint32, opcode uint16, body *wire.Writer) error {
	if body == nil {
		body = &wire.Writer{}
	}
	msg := wire.BuildEvent(objectID, opcode, body)
	return w.conn.Send(msg, body.Fds())
}

// readMessage blocks until one complete message is framed. The dup'd
// fd inherits O_NONBLOCK from Go's netpoller, so each recvmsg is
// preceded by a poll(2) wait rather than spinning on EAGAIN, the same
// readiness-driven pattern compositor.Loop uses server-side.
func (w *waylandConn) readMessage() (wire.Header, *wire.Reader, error) {
	for {
		h, body, fds, ok, err := w.conn.NextMessage()
		if err != nil {
			return wire.Header{}, nil, err
		}
		if ok {
			return h, wire.NewReader(body, fds), nil
		}
		fds2 := []unix.PollFd{{Fd: int32(w.conn.Fd()), Events: unix.POLLIN}}
		if _, err := unix.Poll(fds2, -1); err != nil && err != unix.EINTR {
			return wire.Header{}, nil, err
		}
		if _, err := w.conn.Recv(); err != nil {
			return wire.Header{}, nil, err
		}
	}
}

func (w *waylandConn) close() error { return w.conn.Close() }

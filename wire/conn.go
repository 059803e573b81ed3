package wire

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// maxFdsPerMessage bounds the ancillary-data buffer sized per recvmsg
// call; no single Wayland message legitimately carries more.
const maxFdsPerMessage = 28

// Conn wraps one accepted client connection on the Wayland listening
// socket. It is a thin non-blocking fd wrapper: all read/write calls
// are driven by the compositor loop's own poll, never by a goroutine.
type Conn struct {
	fd       int
	inbuf    []byte
	pendingF []int
}

// NewConn takes ownership of an already-accepted, non-blocking socket fd.
func NewConn(fd int) *Conn {
	return &Conn{fd: fd}
}

func (c *Conn) Fd() int { return c.fd }

// Close releases the underlying socket.
func (c *Conn) Close() error {
	return unix.Close(c.fd)
}

// Recv drains one readv worth of bytes (and any ancillary fds) into
// the connection's internal buffer, returning false with no error on
// EAGAIN (nothing more to read right now).
func (c *Conn) Recv() (ok bool, err error) {
	buf := make([]byte, 4096)
	oob := make([]byte, unix.CmsgSpace(maxFdsPerMessage*4))
	n, oobn, _, _, err := unix.Recvmsg(c.fd, buf, oob, 0)
	if err == unix.EAGAIN {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, fmt.Errorf("wire: client closed connection")
	}
	c.inbuf = append(c.inbuf, buf[:n]...)
	if oobn > 0 {
		fds, ferr := parseFds(oob[:oobn])
		if ferr != nil {
			return false, ferr
		}
		c.pendingF = append(c.pendingF, fds...)
	}
	return true, nil
}

func parseFds(oob []byte) ([]int, error) {
	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, cmsg := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			continue
		}
		out = append(out, fds...)
	}
	return out, nil
}

// NextMessage extracts one complete framed message (header + body)
// from the connection's buffer along with any fds that had arrived
// before the message was complete. Returns ok=false if a full message
// is not yet buffered.
func (c *Conn) NextMessage() (h Header, body []byte, fds []int, ok bool, err error) {
	if len(c.inbuf) < HeaderLen {
		return Header{}, nil, nil, false, nil
	}
	h, err = DecodeHeader(c.inbuf)
	if err != nil {
		return Header{}, nil, nil, false, err
	}
	if int(h.Size) < HeaderLen {
		return Header{}, nil, nil, false, fmt.Errorf("wire: invalid message size %d", h.Size)
	}
	if len(c.inbuf) < int(h.Size) {
		return Header{}, nil, nil, false, nil
	}
	body = make([]byte, int(h.Size)-HeaderLen)
	copy(body, c.inbuf[HeaderLen:h.Size])
	c.inbuf = c.inbuf[h.Size:]

	fds = c.pendingF
	c.pendingF = nil
	return h, body, fds, true, nil
}

// Send writes a fully-built message (see BuildEvent) plus any fds
// queued on the Writer that produced it, as SCM_RIGHTS ancillary data.
func (c *Conn) Send(msg []byte, fds []int) error {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	return unix.Sendmsg(c.fd, msg, oob, nil, 0)
}

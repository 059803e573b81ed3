package ipc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Server is a non-blocking UNIX-domain socket endpoint for the IPC
// protocol. It holds no goroutines of its own: the compositor loop
// registers Fd() and each client's fd in its own poll set and calls
// AcceptOne / ReadCommand when they become readable, keeping
// everything on the single cooperative thread.
type Server struct {
	fd      int
	path    string
	clients map[int]*client
}

type client struct {
	fd  int
	buf bytes.Buffer
}

// Listen creates and binds the socket at path, removing a stale socket
// file left behind by a previous unclean shutdown.
func Listen(path string) (*Server, error) {
	_ = os.Remove(path)

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	addr := &unix.SockaddrUnix{Name: path}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", path, err)
	}
	if err := unix.Listen(fd, 16); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	return &Server{fd: fd, path: path, clients: make(map[int]*client)}, nil
}

// Fd returns the listening socket's file descriptor, for the caller's
// poll set.
func (s *Server) Fd() int { return s.fd }

// ClientFDs returns the fds of all currently connected clients.
func (s *Server) ClientFDs() []int {
	fds := make([]int, 0, len(s.clients))
	for fd := range s.clients {
		fds = append(fds, fd)
	}
	return fds
}

// AcceptOne accepts a single pending connection, if any. It returns
// ok=false when there was nothing to accept (EAGAIN), which is not an
// error.
func (s *Server) AcceptOne() (fd int, ok bool, err error) {
	nfd, _, err := unix.Accept(s.fd)
	if err != nil {
		if err == unix.EAGAIN {
			return 0, false, nil
		}
		return 0, false, err
	}
	_ = unix.SetNonblock(nfd, true)
	s.clients[nfd] = &client{fd: nfd}
	return nfd, true, nil
}

// ReadCommand reads available bytes from fd and returns every complete
// newline-delimited command found. A read error or EOF drops the
// client, reported via removed=true.
func (s *Server) ReadCommand(fd int) (cmds []Command, removed bool) {
	c, known := s.clients[fd]
	if !known {
		return nil, true
	}
	var tmp [4096]byte
	for {
		n, err := unix.Read(fd, tmp[:])
		if n > 0 {
			c.buf.Write(tmp[:n])
		}
		if err != nil {
			if err == unix.EAGAIN {
				break
			}
			s.removeClient(fd)
			return s.drainLines(c), true
		}
		if n == 0 {
			s.removeClient(fd)
			return s.drainLines(c), true
		}
		if n < len(tmp) {
			break
		}
	}
	return s.drainLines(c), false
}

func (s *Server) drainLines(c *client) []Command {
	var out []Command
	for {
		data := c.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := append([]byte(nil), data[:idx]...)
		c.buf.Next(idx + 1)
		var cmd Command
		if err := json.Unmarshal(line, &cmd); err == nil {
			out = append(out, cmd)
		}
	}
	return out
}

func (s *Server) removeClient(fd int) {
	if c, ok := s.clients[fd]; ok {
		_ = unix.Close(c.fd)
		delete(s.clients, fd)
	}
}

// Send writes e to a single client, dropping it on write failure.
func (s *Server) Send(fd int, e Event) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	if _, err := unix.Write(fd, data); err != nil {
		s.removeClient(fd)
		return err
	}
	return nil
}

// Broadcast writes e to every connected client, silently dropping any
// that fail to accept the write.
func (s *Server) Broadcast(e Event) {
	data, err := e.Encode()
	if err != nil {
		return
	}
	for fd := range s.clients {
		if _, err := unix.Write(fd, data); err != nil {
			s.removeClient(fd)
		}
	}
}

// Close closes the listener, every client connection, and removes the
// socket file.
func (s *Server) Close() {
	for fd := range s.clients {
		s.removeClient(fd)
	}
	_ = unix.Close(s.fd)
	_ = os.Remove(s.path)
}

package protocol

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/render"
	"github.com/ktcwm/ktc/texture"
	"github.com/ktcwm/ktc/wire"
)

// Server is the Wayland listening socket: like internal/ipc.Server, it
// holds no goroutines of its own. The compositor loop registers Fd()
// and polls it; acceptAll and the per-client read handler this
// registers against Loop are both driven synchronously from there.
type Server struct {
	fd   int
	path string

	state         *compositor.State
	buffers       *buffer.Registry
	textures      *texture.Cache
	backend       render.Backend
	loop          *compositor.Loop
	onNotify      func()
	onTitleChange func(title string)

	clients map[int]*Client
}

// Listen creates and binds the Wayland socket at path, removing any
// stale socket left by a previous unclean shutdown, and registers the
// listening fd with loop so new connections are accepted inline.
// onTitleChange, if non-nil, is called whenever xdg_toplevel.set_title
// changes the title of the window currently holding keyboard focus.
func Listen(path string, state *compositor.State, buffers *buffer.Registry, textures *texture.Cache, backend render.Backend, loop *compositor.Loop, onNotify func(), onTitleChange func(title string)) (*Server, error) {
	_ = os.Remove(path)

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("protocol: socket: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("protocol: bind %s: %w", path, err)
	}
	if err := unix.Listen(fd, 16); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("protocol: listen %s: %w", path, err)
	}

	s := &Server{
		fd: fd, path: path,
		state: state, buffers: buffers, textures: textures, backend: backend,
		loop: loop, onNotify: onNotify, onTitleChange: onTitleChange,
		clients: make(map[int]*Client),
	}
	loop.Register(fd, s.acceptAll)
	return s, nil
}

// Fd returns the listening socket's file descriptor.
func (s *Server) Fd() int { return s.fd }

// acceptAll drains every pending connection on the listening socket,
// registering each as a new client.
func (s *Server) acceptAll() error {
	for {
		nfd, _, err := unix.Accept(s.fd)
		if err != nil {
			if err == unix.EAGAIN {
				return nil
			}
			return err
		}
		_ = unix.SetNonblock(nfd, true)
		c := NewClient(wire.NewConn(nfd), s.state, s.buffers, s.textures)
		c.Backend = s.backend
		c.Notify = s.onNotify
		c.NotifyTitle = s.onTitleChange
		c.server = s
		s.clients[nfd] = c
		s.loop.Register(nfd, func() error { return s.handleClient(nfd) })
	}
}

// handleClient drains and dispatches every complete message currently
// available on fd. A transport error or malformed message drops the
// client; it is never fatal to the rest of the compositor.
func (s *Server) handleClient(fd int) error {
	c, ok := s.clients[fd]
	if !ok {
		return nil
	}
	for {
		readable, err := c.Conn.Recv()
		if err != nil {
			s.dropClient(fd)
			return nil
		}
		if !readable {
			break
		}
	}
	for {
		h, body, fds, ok, err := c.Conn.NextMessage()
		if err != nil {
			s.dropClient(fd)
			return nil
		}
		if !ok {
			break
		}
		if err := c.Objects.Dispatch(h, body, fds); err != nil {
			s.dropClient(fd)
			return nil
		}
	}
	return nil
}

// FlushFrameCallbacks fires every connected client's queued
// wl_callback.done events stamped with nowMs. The caller (cmd/ktc's
// loop) must only invoke this once an actual frame has been composited
// and presented this tick, which is what gives frame callbacks their
// "fires only after the flip that carried the commit's buffer to
// scanout" ordering without requiring a real DRM/KMS render.Presenter
// in a software-only build.
func (s *Server) FlushFrameCallbacks(nowMs int64) {
	for _, c := range s.clients {
		c.flushFrameCallbacks(nowMs)
	}
}

func (s *Server) dropClient(fd int) {
	c, ok := s.clients[fd]
	if !ok {
		return
	}
	delete(s.clients, fd)
	s.loop.Unregister(fd)
	c.Close()
}

// Close tears down every connected client and removes the socket file.
func (s *Server) Close() {
	for fd := range s.clients {
		s.dropClient(fd)
	}
	s.loop.Unregister(s.fd)
	_ = unix.Close(s.fd)
	_ = os.Remove(s.path)
}

package compositor

import (
	"sort"

	"golang.org/x/sys/unix"
)

// Loop is the single-threaded level-triggered multiplexer over the
// Wayland, libinput, DRM and IPC file descriptors. There are no
// background threads and no locks on the hot path: every handler call
// happens synchronously on whatever goroutine calls RunOnce, and this
// package never spawns one of its own.
type Loop struct {
	sources map[int]func() error
	order   []int
}

// NewLoop returns an empty multiplexer.
func NewLoop() *Loop {
	return &Loop{sources: make(map[int]func() error)}
}

// Register arranges for onReadable to be called whenever fd becomes
// readable. Registering an fd already present replaces its handler.
func (l *Loop) Register(fd int, onReadable func() error) {
	if _, exists := l.sources[fd]; !exists {
		l.order = append(l.order, fd)
	}
	l.sources[fd] = onReadable
}

// Unregister removes fd from the poll set, e.g. when an IPC client
// disconnects.
func (l *Loop) Unregister(fd int) {
	delete(l.sources, fd)
	for i, f := range l.order {
		if f == fd {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// RunOnce polls every registered fd once, waiting up to timeoutMs for
// at least one to become readable, then invokes every ready source's
// handler in a stable order. It returns the number of sources that
// fired (zero on a pure idle timeout) and the first handler error
// encountered, if any;
// every other ready handler still runs.
func (l *Loop) RunOnce(timeoutMs int) (fired int, err error) {
	if len(l.order) == 0 {
		return 0, nil
	}
	fds := make([]int, len(l.order))
	copy(fds, l.order)
	sort.Ints(fds) // deterministic poll-array ordering for reproducible tests

	pollfds := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		pollfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	n, perr := unix.Poll(pollfds, timeoutMs)
	if perr != nil {
		if perr == unix.EINTR {
			return 0, nil
		}
		return 0, perr
	}
	if n == 0 {
		return 0, nil
	}

	for i, pfd := range pollfds {
		if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) == 0 {
			continue
		}
		handler, ok := l.sources[fds[i]]
		if !ok {
			continue
		}
		fired++
		if herr := handler(); herr != nil && err == nil {
			err = herr
		}
	}
	return fired, err
}

// Package session owns the one piece of process-global state allowed
// by the design: the controlling TTY's graphics/keyboard mode and the
// signal handlers that trigger shutdown. It installs once at startup
// and restores on Close, including on signal-induced exit.
package session

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux VT/KD ioctl numbers and mode constants (linux/vt.h, linux/kd.h).
// These are external kernel ABI, not a Go library's concern, so they
// are plain constants here rather than wrapped in an abstraction.
const (
	kdSetMode  = 0x4B3A
	kdGetMode  = 0x4B3B
	kdGetKbMode = 0x4B44
	kdSetKbMode = 0x4B45

	kdGraphics = 0x01

	kOff = 0x04

	vtGetState   = 0x5603
	vtActivate   = 0x5606
	vtWaitActive = 0x5607
)

type vtStat struct {
	Active uint16
	Signal uint16
	State  uint16
}

// Session holds the open TTY fd and the modes to restore on Close.
type Session struct {
	ttyFd     int
	oldKDMode int
	oldKBMode int
	vtNum     int

	mu       sync.Mutex
	children []int
	sigCh    chan os.Signal
	done     chan struct{}
}

// Open acquires the controlling TTY, puts it into graphics mode with
// keyboard echo disabled, and routes SIGINT/SIGTERM/SIGHUP to the
// Signals channel. Acquisition failure is fatal: the compositor
// cannot run without it.
func Open() (*Session, error) {
	path := ttyPath()
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open tty %s: %w", path, err)
	}

	var stat vtStat
	vtNum := 0
	if err := ioctl(fd, vtGetState, uintptr(unsafe.Pointer(&stat))); err == nil {
		vtNum = int(stat.Active)
	}

	oldKD, err := unix.IoctlGetInt(fd, kdGetMode)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("get kd mode: %w", err)
	}
	oldKB, err := unix.IoctlGetInt(fd, kdGetKbMode)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("get kb mode: %w", err)
	}

	if err := unix.IoctlSetInt(fd, kdSetMode, kdGraphics); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set kd graphics mode: %w", err)
	}
	if err := unix.IoctlSetInt(fd, kdSetKbMode, kOff); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set kb off mode: %w", err)
	}

	s := &Session{
		ttyFd:     fd,
		oldKDMode: oldKD,
		oldKBMode: oldKB,
		vtNum:     vtNum,
		sigCh:     make(chan os.Signal, 4),
		done:      make(chan struct{}),
	}
	signal.Notify(s.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	return s, nil
}

// VTNum reports the virtual terminal number the session acquired.
func (s *Session) VTNum() int { return s.vtNum }

// Signals exposes the channel shutdown-triggering signals arrive on, so
// the compositor loop can multiplex it alongside its other file
// descriptors.
func (s *Session) Signals() <-chan os.Signal { return s.sigCh }

// RegisterChild tracks a process spawned via an `exec` keybinding
// action so Close can terminate it on teardown.
func (s *Session) RegisterChild(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = append(s.children, pid)
}

// SpawnChild runs argv as a detached child with WAYLAND_DISPLAY set,
// registering its pid for teardown.
func (s *Session) SpawnChild(argv []string, waylandDisplay string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty argv")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), "WAYLAND_DISPLAY="+waylandDisplay)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	s.RegisterChild(cmd.Process.Pid)
	return nil
}

func (s *Session) terminateChildren() {
	s.mu.Lock()
	children := append([]int(nil), s.children...)
	s.mu.Unlock()

	for _, pid := range children {
		_ = syscall.Kill(pid, syscall.SIGTERM)
	}
	time.Sleep(100 * time.Millisecond)
	for _, pid := range children {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
}

// Close restores the TTY's previous keyboard/KD mode, re-activates the
// original VT, terminates any spawned children, and closes the fd. It
// is safe to call once on every exit path, including after a signal.
func (s *Session) Close() error {
	signal.Stop(s.sigCh)
	s.terminateChildren()

	var errs []string
	if err := unix.IoctlSetInt(s.ttyFd, kdSetKbMode, s.oldKBMode); err != nil {
		errs = append(errs, fmt.Sprintf("restore kb mode: %v", err))
	}
	if err := unix.IoctlSetInt(s.ttyFd, kdSetMode, s.oldKDMode); err != nil {
		errs = append(errs, fmt.Sprintf("restore kd mode: %v", err))
	}
	if s.vtNum > 0 {
		_ = ioctl(s.ttyFd, vtActivate, uintptr(s.vtNum))
		_ = ioctl(s.ttyFd, vtWaitActive, uintptr(s.vtNum))
	}
	_ = unix.Close(s.ttyFd)

	if len(errs) > 0 {
		return fmt.Errorf("session close: %s", strings.Join(errs, "; "))
	}
	return nil
}

func ttyPath() string {
	if b, err := os.ReadFile("/sys/class/tty/tty0/active"); err == nil {
		name := strings.TrimSpace(string(b))
		if name != "" {
			return "/dev/" + name
		}
	}
	return "/dev/tty"
}

func ioctl(fd int, req uint, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), arg)
	if errno != 0 {
		return errno
	}
	return nil
}

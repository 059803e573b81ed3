package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/ktcwm/ktc/buffer"
	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/input"
	"github.com/ktcwm/ktc/internal/config"
	"github.com/ktcwm/ktc/internal/ipc"
	"github.com/ktcwm/ktc/internal/logging"
	"github.com/ktcwm/ktc/internal/paths"
	"github.com/ktcwm/ktc/internal/session"
	"github.com/ktcwm/ktc/protocol"
	"github.com/ktcwm/ktc/render"
	"github.com/ktcwm/ktc/render/backend/software"
	"github.com/ktcwm/ktc/texture"
)

// probeInputDevice returns the libinput-backed input.Device this build
// would drive the seat from. No such backend is linked into this tree
// (see input.Device's doc comment for why), so this always reports
// none available; a build with libinput wired in replaces this with a
// real probe of /dev/input.
func probeInputDevice() input.Device { return nil }

// defaultMode is used when config.toml's display.mode is "auto" and no
// real DRM connector was probed to report one (this build never probes
// one; see runCompositor's backend-selection note).
const defaultMode = "1920x1080@60"

// runCompositor wires every subsystem together and drives the
// compositor loop until a signal or the "exit" keybinding fires.
func runCompositor(opts *options) error {
	logSession, err := logging.Init()
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logSession.Close()
	log := logSession.Logger
	if opts.verbose {
		log = log.Level(-1) // zerolog.TraceLevel: mirror every record, including debug/trace, to stderr
	}

	cfg, cfgErr := config.Load(opts.configPath)
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("using default config")
	}

	width, height := parseMode(cfg.Display.Mode)

	if opts.device != "auto" {
		log.Warn().Str("device", opts.device).Msg("no DRM backend in this build; falling back to the software canvas")
	}
	if opts.vsync == "off" {
		log.Info().Msg("vsync=off has no effect on the software backend")
	}

	software.Configure(width, height)
	software.ConfigureFont(cfg.Appearance.Font)
	backend, err := render.NewBackend("software")
	if err != nil {
		return fmt.Errorf("select render backend: %w", err)
	}
	uploader, ok := backend.(texture.Uploader)
	if !ok {
		return fmt.Errorf("render backend does not implement texture.Uploader")
	}

	sess, err := session.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("acquire session")
	}
	defer sess.Close()

	textures := texture.NewCache(uploader)
	buffers := buffer.NewRegistry()
	screen := geometry.Rect{X: 0, Y: 0, W: width, H: height}
	state := compositor.NewState(screen, cfg.Appearance.TitleBarHeight, cfg.WorkspaceCount)
	state.Matcher = compositor.NewMatcher(cfg.Keybinds)

	loop := compositor.NewLoop()

	ipcServer, err := ipc.Listen(paths.SocketPath())
	if err != nil {
		return fmt.Errorf("listen ipc socket: %w", err)
	}
	defer ipcServer.Close()

	waylandDisplay := "wayland-1"
	onNotify := func() { ipcServer.Broadcast(buildWorkspaceEvent(state)) }
	onFocusChange := func() { ipcServer.Broadcast(ipc.NewFocusEvent(focusedTitle(state))) }
	onTitleChange := func(title string) { ipcServer.Broadcast(ipc.NewTitleEvent(title)) }

	waylandServer, err := protocol.Listen(paths.WaylandSocketPath(waylandDisplay), state, buffers, textures, backend, loop, onNotify, onTitleChange)
	if err != nil {
		return fmt.Errorf("listen wayland socket: %w", err)
	}
	defer waylandServer.Close()

	bindIPCLoop(loop, ipcServer, state, waylandServer)

	router := input.NewRouter(state, waylandServer, sess, waylandDisplay)
	router.Notify = onNotify
	router.NotifyFocus = onFocusChange
	exiting := false
	router.Exit = func() { exiting = true }

	if dev := probeInputDevice(); dev != nil {
		loop.Register(dev.Fd(), func() error {
			events, err := dev.ReadEvents()
			if err != nil {
				return err
			}
			for _, ev := range events {
				router.Handle(ev)
			}
			return nil
		})
	} else {
		log.Warn().Msg("no input.Device available in this build; keyboard and pointer actions are disabled, IPC-driven workspace switches still work")
	}

	log.Info().Str("display", waylandDisplay).Int("width", width).Int("height", height).Msg("ktc starting")

	canvas, hasCanvas := backend.(interface{ Canvas() *image.RGBA })
	signals := sess.Signals()
	for !exiting {
		select {
		case <-signals:
			exiting = true
			continue
		default:
		}
		if _, err := loop.RunOnce(1000 / 60); err != nil {
			log.Error().Err(err).Msg("loop iteration")
		}
		if hasCanvas {
			if composeFrame(backend, state, textures, cfg.Appearance, canvas.Canvas()) {
				waylandServer.FlushFrameCallbacks(time.Now().UnixMilli())
			}
		}
	}

	log.Info().Msg("ktc shutting down")
	return nil
}

// parseMode parses a "WxH@Rhz" display mode string, or returns the
// default 1920x1080 for "auto" or anything unparsable.
func parseMode(mode string) (width, height int) {
	width, height = 1920, 1080
	if mode == "" || mode == "auto" {
		mode = defaultMode
	}
	spec := mode
	if i := strings.IndexByte(spec, '@'); i >= 0 {
		spec = spec[:i]
	}
	parts := strings.SplitN(spec, "x", 2)
	if len(parts) != 2 {
		return
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 1920, 1080
	}
	return w, h
}

// bindIPCLoop registers the IPC listening socket and every accepted
// client's fd with loop, the same synchronous accept/read pattern
// protocol.Server uses for the Wayland socket.
func bindIPCLoop(loop *compositor.Loop, s *ipc.Server, state *compositor.State, seat *protocol.Server) {
	var onReadable func(fd int) error
	onAcceptable := func() error {
		for {
			fd, ok, err := s.AcceptOne()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			loop.Register(fd, func() error { return onReadable(fd) })
			_ = s.Send(fd, buildStateEvent(state))
		}
	}
	onReadable = func(fd int) error {
		cmds, removed := s.ReadCommand(fd)
		for _, cmd := range cmds {
			switch cmd.Type {
			case ipc.CommandGetState:
				_ = s.Send(fd, buildStateEvent(state))
			case ipc.CommandSwitchWorkspace:
				if state.SwitchWorkspace(cmd.Workspace, seat.Sink()) {
					s.Broadcast(buildWorkspaceEvent(state))
				}
			}
		}
		if removed {
			loop.Unregister(fd)
		}
		return nil
	}
	loop.Register(s.Fd(), onAcceptable)
}

func workspaceInfos(state *compositor.State) []ipc.WorkspaceInfo {
	infos := make([]ipc.WorkspaceInfo, 0, state.Workspaces.Count)
	for n := 1; n <= state.Workspaces.Count; n++ {
		infos = append(infos, ipc.WorkspaceInfo{
			ID:          n,
			Name:        strconv.Itoa(n),
			WindowCount: len(compositor.WindowsOn(state.Windows, n)),
		})
	}
	return infos
}

func focusedTitle(state *compositor.State) *string {
	if state.Focus.Keyboard == nil {
		return nil
	}
	for _, w := range state.Windows {
		if w.ID == *state.Focus.Keyboard {
			t := w.Title
			return &t
		}
	}
	return nil
}

func buildStateEvent(state *compositor.State) ipc.Event {
	return ipc.NewStateEvent(workspaceInfos(state), state.Workspaces.Active, focusedTitle(state))
}

func buildWorkspaceEvent(state *compositor.State) ipc.Event {
	return ipc.NewWorkspaceEvent(workspaceInfos(state), state.Workspaces.Active)
}

// composeFrame draws the active workspace's windows (title bar, border
// rectangle, then content inset by the border) and visible layer
// surfaces into the backend, then clears the damage tracker. It is
// only reachable when the active backend exposes a readable canvas
// (the software backend); a real GPU backend instead drives
// render.Presenter's KMS frame protocol directly. It reports whether it
// actually drew a frame this tick, which the caller uses to gate
// wl_callback.done firing on a frame having actually been composited.
func composeFrame(backend render.Backend, state *compositor.State, textures *texture.Cache, appearance config.Appearance, _ *image.RGBA) bool {
	if state.Damage.State() == geometry.DamageClean {
		return false
	}
	bg, err := config.ParseColor(appearance.BackgroundColor)
	if err != nil {
		bg = 0xFF1A1A2E
	}
	focusedColor, err := config.ParseColor(appearance.FocusedColor)
	if err != nil {
		focusedColor = 0xFF3584E4
	}
	unfocusedColor, err := config.ParseColor(appearance.UnfocusedColor)
	if err != nil {
		unfocusedColor = 0xFF2E3436
	}
	borderColor, err := config.ParseColor(appearance.BorderColor)
	if err != nil {
		borderColor = 0xFFCDC7C2
	}

	backend.BeginFrame()
	backend.Clear(bg)

	for _, ls := range state.LayerSurfaces {
		if ls.CurrentBuffer() == 0 {
			continue
		}
		if entry, ok := textures.Lookup(ls.CurrentBuffer()); ok {
			backend.DrawTexture(entry.Handle, ls.Geometry, entry.External)
		}
	}

	for _, w := range state.VisibleWindows() {
		barColor := unfocusedColor
		if state.Focus.Keyboard != nil && *state.Focus.Keyboard == w.ID {
			barColor = focusedColor
		}
		bar := geometry.Rect{X: w.Geometry.X, Y: w.Geometry.Y, W: w.Geometry.W, H: state.TitleBarHeight}
		backend.DrawRect(bar, barColor)
		if w.Title != "" {
			backend.DrawText(bar.X+4, bar.Y+state.TitleBarHeight-8, w.Title, 0xFFFFFFFF)
		}
		if !w.Mapped {
			continue
		}
		border := geometry.Rect{X: w.Geometry.X, Y: w.Geometry.Y + state.TitleBarHeight, W: w.Geometry.W, H: w.Geometry.H - state.TitleBarHeight}
		backend.DrawRect(border, borderColor)
		bw := appearance.BorderWidth
		content := geometry.Rect{X: border.X + bw, Y: border.Y + bw, W: border.W - 2*bw, H: border.H - 2*bw}
		if entry, ok := textures.Lookup(w.CurrentBuffer()); ok {
			backend.DrawTexture(entry.Handle, content, entry.External)
		}
	}

	backend.EndFrame()
	state.Damage.Clear()
	return true
}

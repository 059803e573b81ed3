// Command ktcbar is a standalone status bar: it dials the compositor's
// IPC socket for workspace and focus state, and paints a
// zwlr_layer_shell_v1 bar anchored to the bottom edge of the screen. It
// never touches compositor internals directly, only the public IPC and
// Wayland wire protocols, so it can be replaced by any other bar
// implementation without the compositor caring.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ktcwm/ktc/internal/ipc"
	"github.com/ktcwm/ktc/internal/paths"
)

const (
	barHeight = 28
	barWidth  = 1920 // matches ktc's default mode; redrawn full-width regardless
)

func main() {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-1"
	}

	wl, err := dialWayland(paths.WaylandSocketPath(display))
	if err != nil {
		fmt.Fprintln(os.Stderr, "ktcbar: connect wayland:", err)
		os.Exit(1)
	}
	defer wl.close()

	bar, err := newBarSurface(wl, barWidth, barHeight)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ktcbar: create bar surface:", err)
		os.Exit(1)
	}
	defer bar.close()

	ipcClient, err := ipc.Dial(paths.SocketPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "ktcbar: connect ipc:", err)
		os.Exit(1)
	}
	defer ipcClient.Close()

	state := barState{}
	_ = ipcClient.Send(ipc.Command{Type: ipc.CommandGetState})

	for {
		ev, err := ipcClient.Next()
		if err != nil {
			fmt.Fprintln(os.Stderr, "ktcbar: ipc connection closed:", err)
			return
		}
		state.apply(ev)
		if err := bar.redraw(state); err != nil {
			fmt.Fprintln(os.Stderr, "ktcbar: redraw:", err)
			return
		}
	}
}

// barState accumulates the fields ktcbar renders out of the ipc.Event
// stream; every event type updates only the fields it carries.
type barState struct {
	workspaces []ipc.WorkspaceInfo
	active     int
	focused    string
}

func (s *barState) apply(ev ipc.Event) {
	switch ev.Type {
	case ipc.EventState, ipc.EventWorkspace:
		if ev.Workspaces != nil {
			s.workspaces = ev.Workspaces
		}
		s.active = ev.ActiveWorkspace
		if ev.FocusedWindow != nil {
			s.focused = *ev.FocusedWindow
		}
	case ipc.EventFocus:
		if ev.FocusedWindow != nil {
			s.focused = *ev.FocusedWindow
		} else {
			s.focused = ""
		}
	case ipc.EventTitle:
		if ev.WindowTitle != nil {
			s.focused = *ev.WindowTitle
		}
	}
}

// render paints the current state into an RGBA canvas: one box per
// workspace (filled when active) followed by the focused window title.
func render(canvas *image.RGBA, s barState) {
	bg := color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	x := 6
	for _, ws := range s.workspaces {
		box := image.Rect(x, 4, x+20, barHeight-4)
		fill := color.RGBA{R: 0x2e, G: 0x34, B: 0x36, A: 0xff}
		if ws.ID == s.active {
			fill = color.RGBA{R: 0x35, G: 0x84, B: 0xe4, A: 0xff}
		}
		draw.Draw(canvas, box, &image.Uniform{C: fill}, image.Point{}, draw.Src)
		drawText(canvas, x+5, barHeight-9, strconv.Itoa(ws.ID), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		x += 26
	}

	if s.focused != "" {
		drawText(canvas, x+12, barHeight-9, s.focused, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	}
}

func drawText(dst *image.RGBA, x, y int, s string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{C: c},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// bgraBytes packs an RGBA canvas into the BGRA-in-memory byte layout
// wl_shm ARGB8888 buffers carry, matching what the compositor's texture
// cache expects to unswizzle on the server side.
func bgraBytes(canvas *image.RGBA) []byte {
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srcOff := y * canvas.Stride
		dstOff := y * w * 4
		for x := 0; x < w; x++ {
			px := canvas.Pix[srcOff+x*4 : srcOff+x*4+4]
			o := dstOff + x*4
			out[o+0] = px[2] // B
			out[o+1] = px[1] // G
			out[o+2] = px[0] // R
			out[o+3] = px[3] // A
		}
	}
	return out
}

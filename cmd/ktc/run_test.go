package main

import (
	"testing"

	"github.com/ktcwm/ktc/compositor"
	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/internal/config"
	"github.com/ktcwm/ktc/layout"
	"github.com/ktcwm/ktc/render/backend/software"
	"github.com/ktcwm/ktc/texture"
)

func TestParseModeParsesWidthHeight(t *testing.T) {
	w, h := parseMode("1280x720@60")
	if w != 1280 || h != 720 {
		t.Errorf("parseMode(1280x720@60) = %d,%d, want 1280,720", w, h)
	}
}

func TestParseModeWithoutRefreshRate(t *testing.T) {
	w, h := parseMode("3440x1440")
	if w != 3440 || h != 1440 {
		t.Errorf("parseMode(3440x1440) = %d,%d, want 3440,1440", w, h)
	}
}

func TestParseModeAutoFallsBackToDefault(t *testing.T) {
	w, h := parseMode("auto")
	if w != 1920 || h != 1080 {
		t.Errorf("parseMode(auto) = %d,%d, want 1920,1080", w, h)
	}
}

func TestParseModeGarbageFallsBackToDefault(t *testing.T) {
	w, h := parseMode("not-a-mode")
	if w != 1920 || h != 1080 {
		t.Errorf("parseMode(garbage) = %d,%d, want 1920,1080", w, h)
	}
}

type noopSink struct{}

func (noopSink) ConfigureToplevel(w *compositor.Window, flags layout.TileStateFlags) {}
func (noopSink) ConfigureLayerSurface(l *compositor.LayerSurface)                    {}

func TestWorkspaceInfosCountsWindowsPerWorkspace(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 1920, H: 1080}, 24, 3)
	state.AddWindow(1, 1, noopSink{})
	state.SwitchWorkspace(2, noopSink{})
	state.AddWindow(2, 2, noopSink{})

	infos := workspaceInfos(state)
	if len(infos) != 3 {
		t.Fatalf("len(infos) = %d, want 3", len(infos))
	}
	if infos[0].WindowCount != 1 {
		t.Errorf("workspace 1 count = %d, want 1", infos[0].WindowCount)
	}
	if infos[1].WindowCount != 1 {
		t.Errorf("workspace 2 count = %d, want 1", infos[1].WindowCount)
	}
	if infos[2].WindowCount != 0 {
		t.Errorf("workspace 3 count = %d, want 0", infos[2].WindowCount)
	}
}

func TestFocusedTitleNilWhenNoKeyboardFocus(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 1920, H: 1080}, 24, 1)
	if title := focusedTitle(state); title != nil {
		t.Errorf("focusedTitle = %v, want nil", *title)
	}
}

func TestFocusedTitleReturnsFocusedWindowTitle(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 1920, H: 1080}, 24, 1)
	w := state.AddWindow(1, 1, noopSink{})
	w.Title = "term"
	id := w.ID
	state.Focus.SetKeyboardFocus(&id, &state.KeySerials)

	title := focusedTitle(state)
	if title == nil || *title != "term" {
		t.Errorf("focusedTitle = %v, want term", title)
	}
}

func TestBuildStateEventCarriesActiveWorkspace(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 1920, H: 1080}, 24, 2)
	ev := buildStateEvent(state)
	if ev.ActiveWorkspace != 1 {
		t.Errorf("ActiveWorkspace = %d, want 1", ev.ActiveWorkspace)
	}
	if len(ev.Workspaces) != 2 {
		t.Errorf("len(Workspaces) = %d, want 2", len(ev.Workspaces))
	}
}

func TestBuildWorkspaceEventReflectsSwitch(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 1920, H: 1080}, 24, 2)
	state.SwitchWorkspace(2, noopSink{})
	ev := buildWorkspaceEvent(state)
	if ev.ActiveWorkspace != 2 {
		t.Errorf("ActiveWorkspace = %d, want 2", ev.ActiveWorkspace)
	}
}

func TestComposeFrameAppliesConfiguredBackgroundColor(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 40, H: 40}, 24, 1)
	backend := software.New(40, 40)
	textures := texture.NewCache(backend)
	state.Damage.Full()

	appearance := config.Default().Appearance
	appearance.BackgroundColor = "#112233"

	if !composeFrame(backend, state, textures, appearance, nil) {
		t.Fatal("expected composeFrame to draw on full damage")
	}
	want, _ := config.ParseColor("#112233")
	px := backend.Canvas().RGBAAt(0, 0)
	got := uint32(px.A)<<24 | uint32(px.R)<<16 | uint32(px.G)<<8 | uint32(px.B)
	if got != want {
		t.Errorf("background pixel = %#08x, want %#08x", got, want)
	}
}

func TestComposeFrameSkipsDrawingWhenDamageClean(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 40, H: 40}, 24, 1)
	backend := software.New(40, 40)
	textures := texture.NewCache(backend)

	if composeFrame(backend, state, textures, config.Default().Appearance, nil) {
		t.Error("expected composeFrame to report no draw when damage is clean")
	}
}

func TestComposeFrameDrawsBorderAroundMappedWindow(t *testing.T) {
	state := compositor.NewState(geometry.Rect{W: 40, H: 40}, 24, 1)
	backend := software.New(40, 40)
	textures := texture.NewCache(backend)
	w := state.AddWindow(1, 1, noopSink{})
	id := w.ID
	state.Focus.SetKeyboardFocus(&id, &state.KeySerials)
	w.Mapped = true
	state.Damage.Full()

	appearance := config.Default().Appearance
	appearance.BorderColor = "#AABBCC"
	appearance.BorderWidth = 2

	if !composeFrame(backend, state, textures, appearance, nil) {
		t.Fatal("expected composeFrame to draw")
	}
	want, _ := config.ParseColor("#AABBCC")
	px := backend.Canvas().RGBAAt(w.Geometry.X, w.Geometry.Y+state.TitleBarHeight)
	got := uint32(px.A)<<24 | uint32(px.R)<<16 | uint32(px.G)<<8 | uint32(px.B)
	if got != want {
		t.Errorf("border pixel = %#08x, want %#08x", got, want)
	}
}

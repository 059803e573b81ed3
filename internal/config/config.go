// Package config loads ktc's TOML configuration file and resolves the
// derived values (colors, keysyms) the compositor core consumes as
// plain data. This loader is an external collaborator: the core never
// parses TOML or color strings itself, only the structures below.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ktcwm/ktc/internal/paths"
)

// Appearance holds the parsed appearance.* section.
type Appearance struct {
	Font            string `toml:"font"`
	BackgroundColor string `toml:"background_color"`
	FocusedColor    string `toml:"focused_color"`
	UnfocusedColor  string `toml:"unfocused_color"`
	BorderColor     string `toml:"border_color"`
	TitleBarHeight  int    `toml:"title_bar_height"`
	BorderWidth     int    `toml:"border_width"`
}

// Display holds the parsed display.* section.
type Display struct {
	Device string `toml:"device"`
	Mode   string `toml:"mode"` // "WxH@Rhz" or "auto"
	Vsync  bool   `toml:"vsync"`
}

// Keyboard holds the parsed keyboard.* section, fed verbatim to the
// xkbcommon keymap compiler, an external capability this package does
// not itself implement.
type Keyboard struct {
	Layout  string `toml:"layout"`
	Model   string `toml:"model"`
	Options string `toml:"options"`
}

// Keybind is one `{key, action}` entry under keybinds.bindings.
type Keybind struct {
	Key    string `toml:"key"`
	Action string `toml:"action"`
}

// Keybinds holds the parsed keybinds.* section.
type Keybinds struct {
	ModKey   string    `toml:"mod_key"`
	Bindings []Keybind `toml:"bindings"`
}

// Debug holds the parsed debug.* section.
type Debug struct {
	Enabled bool `toml:"enabled"`
}

// Config is the fully decoded config.toml document.
type Config struct {
	Appearance Appearance `toml:"appearance"`
	Display    Display    `toml:"display"`
	Keyboard   Keyboard   `toml:"keyboard"`
	Keybinds   Keybinds   `toml:"keybinds"`
	Debug      Debug      `toml:"debug"`

	// WorkspaceCount has no config.toml key of its own (it defaults to a
	// fixed constant); exposed here so tests and the CLI can override it.
	WorkspaceCount int `toml:"-"`
}

// Default returns the configuration used when no config file is found
// or it fails to parse.
func Default() Config {
	return Config{
		Appearance: Appearance{
			Font:            "monospace:size=12",
			BackgroundColor: "#1A1A2E",
			FocusedColor:    "#3584E4",
			UnfocusedColor:  "#2E3436",
			BorderColor:     "#CDC7C2",
			TitleBarHeight:  24,
			BorderWidth:     1,
		},
		Display: Display{Device: "auto", Mode: "auto", Vsync: true},
		Keyboard: Keyboard{
			Layout: "us", Model: "pc105", Options: "",
		},
		Keybinds: Keybinds{
			ModKey: "alt",
			Bindings: []Keybind{
				{Key: "mod+Return", Action: "exec foot"},
				{Key: "mod+q", Action: "close_window"},
				{Key: "mod+j", Action: "focus_next"},
				{Key: "mod+k", Action: "focus_prev"},
				{Key: "mod+shift+e", Action: "exit"},
			},
		},
		WorkspaceCount: 4,
	}
}

// Load reads and decodes path, falling back to Default() (and the
// error) if anything goes wrong. Callers treat this as tier-3
// (transient/best-effort): a broken config never stops startup.
func Load(path string) (Config, error) {
	if path == "" {
		path = paths.ConfigFile()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.WorkspaceCount <= 0 {
		cfg.WorkspaceCount = 4
	}
	return cfg, nil
}

// ResolveModKey maps the configured mod_key string (or the fallback
// "alt" when empty) to one of the three modifiers a binding's "mod"
// token can resolve to.
func (k Keybinds) ResolveModKey() string {
	switch k.ModKey {
	case "alt", "super", "ctrl":
		return k.ModKey
	default:
		return "alt"
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultColorsParse(t *testing.T) {
	cfg := Default()
	for _, s := range []string{cfg.Appearance.BackgroundColor, cfg.Appearance.FocusedColor, cfg.Appearance.UnfocusedColor, cfg.Appearance.BorderColor} {
		if _, err := ParseColor(s); err != nil {
			t.Errorf("default color %q: %v", s, err)
		}
	}
}

func TestResolveModKeyFallback(t *testing.T) {
	kb := Keybinds{ModKey: ""}
	if got := kb.ResolveModKey(); got != "alt" {
		t.Errorf("empty mod_key resolved to %q, want alt", got)
	}
	kb.ModKey = "super"
	if got := kb.ResolveModKey(); got != "super" {
		t.Errorf("got %q, want super", got)
	}
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cfg.WorkspaceCount != Default().WorkspaceCount {
		t.Errorf("expected default fallback, got %+v", cfg)
	}
}

func TestLoadValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	doc := `
[appearance]
background_color = "#000000"
title_bar_height = 30

[keybinds]
mod_key = "super"
[[keybinds.bindings]]
key = "mod+Return"
action = "exec foo"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.BackgroundColor != "#000000" {
		t.Errorf("background_color = %q", cfg.Appearance.BackgroundColor)
	}
	if cfg.Appearance.TitleBarHeight != 30 {
		t.Errorf("title_bar_height = %d", cfg.Appearance.TitleBarHeight)
	}
	if cfg.Keybinds.ModKey != "super" {
		t.Errorf("mod_key = %q", cfg.Keybinds.ModKey)
	}
	if len(cfg.Keybinds.Bindings) != 1 || cfg.Keybinds.Bindings[0].Action != "exec foo" {
		t.Errorf("bindings = %+v", cfg.Keybinds.Bindings)
	}
}

func TestParseKeysym(t *testing.T) {
	cases := map[string]Keysym{
		"Return": 0xff0d,
		"a":      Keysym('a'),
		"F1":     0xffbe,
	}
	for in, want := range cases {
		got, ok := ParseKeysym(in)
		if !ok {
			t.Fatalf("ParseKeysym(%q): not found", in)
		}
		if got != want {
			t.Errorf("ParseKeysym(%q) = %#x, want %#x", in, got, want)
		}
	}
	if _, ok := ParseKeysym(""); ok {
		t.Error("empty name should not resolve")
	}
}

// Package paths resolves the XDG directories ktc reads config from and
// writes logs to.
package paths

import (
	"os"
	"path/filepath"
)

// ConfigDir returns $XDG_CONFIG_HOME, or $HOME/.config, or /tmp as a
// last resort.
func ConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config")
	}
	return "/tmp"
}

// DataDir returns $XDG_DATA_HOME, or $HOME/.local/share, or /tmp.
func DataDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share")
	}
	return "/tmp"
}

// RuntimeDir returns $XDG_RUNTIME_DIR, or /tmp when unset (best-effort;
// a missing runtime dir is a fatal condition handled by the caller).
func RuntimeDir() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return v
	}
	return "/tmp"
}

func KtcConfigDir() string { return filepath.Join(ConfigDir(), "ktc") }
func KtcDataDir() string   { return filepath.Join(DataDir(), "ktc") }
func KtcLogDir() string    { return filepath.Join(KtcDataDir(), "logs") }

// ConfigFile returns the first of $XDG_CONFIG_HOME/ktc/config.toml or
// /etc/ktc/config.toml that exists, defaulting to the former.
func ConfigFile() string {
	user := filepath.Join(KtcConfigDir(), "config.toml")
	if _, err := os.Stat(user); err == nil {
		return user
	}
	const system = "/etc/ktc/config.toml"
	if _, err := os.Stat(system); err == nil {
		return system
	}
	return user
}

// SocketPath returns the UNIX socket path the IPC server binds, under
// $XDG_RUNTIME_DIR.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "ktc.sock")
}

// WaylandSocketPath returns the UNIX socket path the Wayland listener
// binds under $XDG_RUNTIME_DIR, e.g. for display "wayland-1".
func WaylandSocketPath(display string) string {
	return filepath.Join(RuntimeDir(), display)
}

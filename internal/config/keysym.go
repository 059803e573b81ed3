package config

import "strings"

// Keysym is an XKB keysym value, as produced by xkbcommon keymap
// compilation and carried on key-press events. The core only ever
// compares keysyms for equality; it never interprets their numeric
// layout.
type Keysym uint32

// keysymNames maps the small set of names that can appear on the
// right-hand side of a `{key, action}` keybind entry to their X11
// keysym values. xkbcommon defines several thousand names; resolving
// the full table is the job of the xkbcommon keymap compiler, an
// external capability, not this loader. This table
// only needs to cover names a user is likely to bind.
var keysymNames = map[string]Keysym{
	"return": 0xff0d, "enter": 0xff0d,
	"escape": 0xff1b,
	"tab":    0xff09,
	"space":  0x0020,
	"backspace": 0xff08,
	"delete":    0xffff,
	"up": 0xff52, "down": 0xff54, "left": 0xff51, "right": 0xff53,
	"home": 0xff50, "end": 0xff57,
	"pageup": 0xff55, "pagedown": 0xff56,
	"f1": 0xffbe, "f2": 0xffbf, "f3": 0xffc0, "f4": 0xffc1,
	"f5": 0xffc2, "f6": 0xffc3, "f7": 0xffc4, "f8": 0xffc5,
	"f9": 0xffc6, "f10": 0xffc7, "f11": 0xffc8, "f12": 0xffc9,
}

// ParseKeysym resolves a binding's key name to a Keysym. A single
// printable ASCII character maps directly to its code point, matching
// the low keysym range xkbcommon reserves for Latin-1.
func ParseKeysym(name string) (Keysym, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if sym, ok := keysymNames[lower]; ok {
		return sym, true
	}
	if len([]rune(lower)) == 1 {
		r := []rune(lower)[0]
		if r >= 0x20 && r <= 0x7e {
			return Keysym(r), true
		}
	}
	return 0, false
}

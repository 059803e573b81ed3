package compositor

import (
	"strconv"
	"strings"

	"github.com/ktcwm/ktc/internal/config"
)

// ModMask is the {ctrl, alt, shift, super} mask built from the
// keyboard's current modifier state at a key-press.
type ModMask struct {
	Ctrl, Alt, Shift, Super bool
}

// binding is one resolved 5-tuple -> action mapping.
type binding struct {
	mask   ModMask
	keysym config.Keysym
	action string
}

// Matcher looks up the bound action for a (mask, keysym) pair built
// from a parsed config.Keybinds. The "mod" token in a binding string
// resolves to whichever modifier config.Keybinds.ResolveModKey names;
// an empty mod_key falls back to alt.
type Matcher struct {
	bindings []binding
}

// NewMatcher parses every `{key, action}` entry in kb.Bindings into a
// 5-tuple. Entries whose key string cannot be parsed are skipped; a
// malformed config never prevents startup.
func NewMatcher(kb config.Keybinds) *Matcher {
	mod := kb.ResolveModKey()
	m := &Matcher{}
	for _, b := range kb.Bindings {
		mask, symName, ok := parseKeyString(b.Key, mod)
		if !ok {
			continue
		}
		sym, ok := config.ParseKeysym(symName)
		if !ok {
			continue
		}
		m.bindings = append(m.bindings, binding{mask: mask, keysym: sym, action: b.Action})
	}
	return m
}

// parseKeyString splits a binding string like "mod+shift+e" into a
// ModMask and the trailing key name. "mod" resolves via modKey.
func parseKeyString(s, modKey string) (ModMask, string, bool) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 {
		return ModMask{}, "", false
	}
	var mask ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "mod":
			applyMod(&mask, modKey)
		case "ctrl", "control":
			mask.Ctrl = true
		case "alt":
			mask.Alt = true
		case "shift":
			mask.Shift = true
		case "super", "logo", "win":
			mask.Super = true
		default:
			return ModMask{}, "", false
		}
	}
	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return ModMask{}, "", false
	}
	return mask, key, true
}

func applyMod(mask *ModMask, modKey string) {
	switch modKey {
	case "super":
		mask.Super = true
	case "ctrl":
		mask.Ctrl = true
	default:
		mask.Alt = true
	}
}

// Match returns the first binding whose mask and keysym exactly match,
// and whether one was found. Exactly one binding wins on an exact
// match; the matcher never does partial/prefix matching.
func (m *Matcher) Match(mask ModMask, sym config.Keysym) (action string, ok bool) {
	for _, b := range m.bindings {
		if b.mask == mask && b.keysym == sym {
			return b.action, true
		}
	}
	return "", false
}

// ParseWorkspaceAction recognizes "workspace N" / "move_to_workspace N"
// action strings, returning the target workspace number.
func ParseWorkspaceAction(action string) (name string, n int, ok bool) {
	fields := strings.Fields(action)
	if len(fields) != 2 {
		return "", 0, false
	}
	if fields[0] != "workspace" && fields[0] != "move_to_workspace" {
		return "", 0, false
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, false
	}
	return fields[0], v, true
}

// ParseExecAction recognizes "exec <argv>", returning the verbatim
// argv string to spawn.
func ParseExecAction(action string) (argv string, ok bool) {
	const prefix = "exec "
	if !strings.HasPrefix(action, prefix) {
		return "", false
	}
	return strings.TrimSpace(action[len(prefix):]), true
}

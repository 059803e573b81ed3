package config

import (
	"fmt"
	"strings"
)

// ParseColor decodes "#RRGGBB" or "#AARRGGBB" (the "#" is optional) into
// a packed 0xAARRGGBB value. Six hex digits default to opaque (alpha
// 0xFF), matching the appearance section of config.toml.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 6:
		var r, g, b uint32
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return 0, fmt.Errorf("parse color %q: %w", s, err)
		}
		return 0xFF000000 | r<<16 | g<<8 | b, nil
	case 8:
		var a, r, g, b uint32
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &a, &r, &g, &b); err != nil {
			return 0, fmt.Errorf("parse color %q: %w", s, err)
		}
		return a<<24 | r<<16 | g<<8 | b, nil
	default:
		return 0, fmt.Errorf("parse color %q: want 6 or 8 hex digits", s)
	}
}

// FormatColor is the inverse of ParseColor, always emitting 8 hex
// digits ("#AARRGGBB") so that ParseColor(FormatColor(v)) == v for
// every 32-bit value.
func FormatColor(v uint32) string {
	a := v >> 24 & 0xFF
	r := v >> 16 & 0xFF
	g := v >> 8 & 0xFF
	b := v & 0xFF
	return fmt.Sprintf("#%02X%02X%02X%02X", a, r, g, b)
}

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFont decodes a fontconfig-style "family:size=N" string into its
// family and point size. A missing or unparsable size falls back to
// 12, a bare family with no ":size=" suffix is accepted as-is.
func ParseFont(s string) (family string, size int) {
	family, size = s, 12
	i := strings.Index(s, ":size=")
	if i < 0 {
		return family, size
	}
	family = s[:i]
	if n, err := strconv.Atoi(s[i+len(":size="):]); err == nil && n > 0 {
		size = n
	}
	return family, size
}

// FormatFont is the inverse of ParseFont's size-bearing form, mainly
// useful for tests and default-config round trips.
func FormatFont(family string, size int) string {
	return fmt.Sprintf("%s:size=%d", family, size)
}

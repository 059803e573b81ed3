package config

import "testing"

func TestParseFontFamilySize(t *testing.T) {
	family, size := ParseFont("monospace:size=12")
	if family != "monospace" || size != 12 {
		t.Errorf("ParseFont = %q, %d", family, size)
	}
}

func TestParseFontDefaultsSize(t *testing.T) {
	family, size := ParseFont("monospace")
	if family != "monospace" || size != 12 {
		t.Errorf("ParseFont = %q, %d, want monospace, 12", family, size)
	}
}

func TestParseFontInvalidSizeFallsBack(t *testing.T) {
	family, size := ParseFont("monospace:size=nope")
	if family != "monospace" || size != 12 {
		t.Errorf("ParseFont = %q, %d, want monospace, 12", family, size)
	}
}

func TestParseFontRoundTrip(t *testing.T) {
	family, size := ParseFont(FormatFont("serif", 20))
	if family != "serif" || size != 20 {
		t.Errorf("round trip = %q, %d", family, size)
	}
}

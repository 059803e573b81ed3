package config

import "testing"

func TestParseColorRoundTrip(t *testing.T) {
	vals := []uint32{0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0x00000000, 0x80FF00FF, 0xFFFFFFFF}
	for _, v := range vals {
		got, err := ParseColor(FormatColor(v))
		if err != nil {
			t.Fatalf("ParseColor(FormatColor(%#08x)): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %#08x -> %#08x", v, got)
		}
	}
}

func TestParseColorRGB(t *testing.T) {
	cases := map[string]uint32{
		"#FF0000": 0xFFFF0000,
		"00FF00":  0xFF00FF00,
		"#0000ff": 0xFF0000FF,
		"1A1A2E":  0xFF1A1A2E,
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseColor(%q) = %#08x, want %#08x", in, got, want)
		}
	}
}

func TestParseColorARGB(t *testing.T) {
	got, err := ParseColor("#80FF0000")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x80FF0000 {
		t.Errorf("got %#08x", got)
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, s := range []string{"", "#FFF", "invalid", "#12345"} {
		if _, err := ParseColor(s); err == nil {
			t.Errorf("ParseColor(%q): want error", s)
		}
	}
}

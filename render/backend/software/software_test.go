package software

import (
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"

	"github.com/ktcwm/ktc/geometry"
	"github.com/ktcwm/ktc/texture"
)

func TestClearFillsCanvas(t *testing.T) {
	b := New(4, 4)
	b.Clear(0xffff0000)
	c := b.Canvas().RGBAAt(0, 0)
	if c.R != 0xff || c.A != 0xff {
		t.Errorf("got %+v", c)
	}
}

func TestDrawRectClips(t *testing.T) {
	b := New(4, 4)
	b.Clear(0)
	b.DrawRect(geometry.Rect{X: 2, Y: 2, W: 10, H: 10}, 0xffffffff)
	c := b.Canvas().RGBAAt(3, 3)
	if c.R != 0xff {
		t.Errorf("expected pixel drawn within bounds, got %+v", c)
	}
}

func TestUploadAndDrawTextureSameSize(t *testing.T) {
	b := New(8, 8)
	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = 0xff
	}
	h, err := b.UploadRGBA(2, 2, 8, pixels)
	if err != nil {
		t.Fatal(err)
	}
	b.DrawTexture(h, geometry.Rect{X: 0, Y: 0, W: 2, H: 2}, false)
	c := b.Canvas().RGBAAt(0, 0)
	if c.R != 0xff {
		t.Errorf("got %+v", c)
	}
}

func TestDestroyRemovesTexture(t *testing.T) {
	b := New(4, 4)
	h, _ := b.UploadRGBA(1, 1, 4, []byte{1, 2, 3, 4})
	if err := b.Destroy(h); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.textures[h]; ok {
		t.Error("expected texture removed")
	}
}

func TestImportDmaBufUnsupported(t *testing.T) {
	b := New(4, 4)
	_, _, err := b.ImportDmaBuf(4, 4, 0, nil, 0)
	if err != texture.ErrImportUnsupported {
		t.Errorf("got %v, want ErrImportUnsupported", err)
	}
}

func TestDrawTextDoesNotPanic(t *testing.T) {
	b := New(64, 16)
	b.Clear(0xff000000)
	b.DrawText(0, 12, "ktc", 0xffffffff)
}

func TestConfigureFontSelectsBySize(t *testing.T) {
	defer ConfigureFont("monospace:size=12")

	ConfigureFont("monospace:size=12")
	if activeFace != basicfont.Face7x13 {
		t.Errorf("size 12: got a different face than Face7x13")
	}

	ConfigureFont("monospace:size=20")
	if activeFace != inconsolata.Regular8x16 {
		t.Errorf("size 20: got a different face than Regular8x16")
	}

	ConfigureFont("monospace:size=nope")
	if activeFace != basicfont.Face7x13 {
		t.Errorf("unparsable size: want fallback to Face7x13")
	}
}

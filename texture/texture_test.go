package texture

import (
	"errors"
	"testing"

	"github.com/ktcwm/ktc/buffer"
)

type fakeUploader struct {
	next      Handle
	destroyed []Handle
	reuploads int
	failNext  bool
}

func (f *fakeUploader) UploadRGBA(w, h, stride int, pixels []byte) (Handle, error) {
	if f.failNext {
		f.failNext = false
		return 0, errors.New("boom")
	}
	f.next++
	return f.next, nil
}

func (f *fakeUploader) ReuploadRGBA(h Handle, w, hh, stride int, pixels []byte) error {
	f.reuploads++
	return nil
}

func (f *fakeUploader) ImportDmaBuf(w, h int, fourcc uint32, planes []buffer.Plane, modifier uint64) (Handle, bool, error) {
	f.next++
	return f.next, modifier == buffer.ModifierInvalid, nil
}

func (f *fakeUploader) Destroy(h Handle) error {
	f.destroyed = append(f.destroyed, h)
	return nil
}

func makeShmBuffer(w, h int) (*buffer.Buffer, []byte) {
	stride := w * 4
	b := buffer.NewShmBuffer(buffer.Shm{Width: w, Height: h, Stride: stride})
	pixels := make([]byte, stride*h)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	return b, pixels
}

func TestCacheUploadShmCreatesEntry(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	b, pixels := makeShmBuffer(4, 4)

	if err := c.UploadShm(1, b, pixels); err != nil {
		t.Fatal(err)
	}
	e, ok := c.Lookup(1)
	if !ok {
		t.Fatal("expected cache entry")
	}
	if e.Width != 4 || e.Height != 4 {
		t.Errorf("got %+v", e)
	}
}

func TestCacheUploadShmSameSizeReuploads(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	b, pixels := makeShmBuffer(4, 4)
	c.UploadShm(1, b, pixels)
	c.UploadShm(1, b, pixels)
	if u.reuploads != 1 {
		t.Errorf("expected 1 reupload, got %d", u.reuploads)
	}
	if c.Len() != 1 {
		t.Errorf("expected single cache entry, got %d", c.Len())
	}
}

func TestCacheUploadShmResizeReplacesEntry(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	b1, p1 := makeShmBuffer(4, 4)
	c.UploadShm(1, b1, p1)
	b2, p2 := makeShmBuffer(8, 8)
	c.UploadShm(1, b2, p2)
	if len(u.destroyed) != 1 {
		t.Errorf("expected old texture destroyed on resize, got %v", u.destroyed)
	}
	e, _ := c.Lookup(1)
	if e.Width != 8 {
		t.Errorf("got width %d, want 8", e.Width)
	}
}

func TestCacheUploadShmInvalidBounds(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	b := buffer.NewShmBuffer(buffer.Shm{Width: 100, Height: 100, Stride: 400})
	if err := c.UploadShm(1, b, []byte{1, 2, 3}); err != ErrInvalidBuffer {
		t.Errorf("got %v, want ErrInvalidBuffer", err)
	}
}

func TestCacheUploadShmFailureIsTransient(t *testing.T) {
	u := &fakeUploader{failNext: true}
	c := NewCache(u)
	b, pixels := makeShmBuffer(2, 2)
	err := c.UploadShm(1, b, pixels)
	if !errors.Is(err, ErrOutOfResources) {
		t.Errorf("got %v, want wrapped ErrOutOfResources", err)
	}
	if _, ok := c.Lookup(1); ok {
		t.Error("failed upload should not populate cache")
	}
}

func TestCacheEvictReleasesAndRemoves(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	b, pixels := makeShmBuffer(2, 2)
	c.UploadShm(1, b, pixels)

	if err := c.Evict(1); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("expected cache empty after evict, got %d", c.Len())
	}
	if len(u.destroyed) != 1 {
		t.Errorf("expected GPU texture destroyed, got %v", u.destroyed)
	}
}

func TestCacheEvictUnknownIsNoop(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	if err := c.Evict(42); err != nil {
		t.Errorf("evicting unknown id should be a no-op, got %v", err)
	}
}

func TestCacheImportDmaBuf(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	d := buffer.DmaBuf{
		Planes:   []buffer.Plane{{Fd: 0, Offset: 0, Stride: 4096}},
		Modifier: buffer.ModifierInvalid,
		Width:    3840, Height: 2160, Fourcc: 0x34325258, // "XR24"
	}
	if err := c.ImportDmaBuf(7, d); err != nil {
		t.Fatal(err)
	}
	e, ok := c.Lookup(7)
	if !ok {
		t.Fatal("expected cache entry after import")
	}
	if !e.External {
		t.Error("invalid-modifier import should report external-sampler requirement per fake uploader contract")
	}
}

func TestCacheImportDmaBufRejectsTooManyPlanes(t *testing.T) {
	u := &fakeUploader{}
	c := NewCache(u)
	planes := make([]buffer.Plane, 5)
	for i := range planes {
		planes[i] = buffer.Plane{Fd: 0}
	}
	d := buffer.DmaBuf{Planes: planes}
	if err := c.ImportDmaBuf(1, d); err != ErrInvalidBuffer {
		t.Errorf("got %v, want ErrInvalidBuffer", err)
	}
}

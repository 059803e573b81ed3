package buffer

import (
	"os"
	"testing"
)

func tempPoolFile(t *testing.T, contents []byte) (*os.File, int) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "ktc-pool-*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(contents); err != nil {
		t.Fatal(err)
	}
	return f, int(f.Fd())
}

func TestPoolReadRegion(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	f, fd := tempPoolFile(t, data)
	defer f.Close()

	p := NewPool(fd, len(data))
	region, err := p.ReadRegion(8, 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(region) != 16 || region[0] != 8 {
		t.Errorf("region = %v", region)
	}
}

func TestPoolReadRegionOutOfBounds(t *testing.T) {
	f, fd := tempPoolFile(t, make([]byte, 16))
	defer f.Close()
	p := NewPool(fd, 16)
	if _, err := p.ReadRegion(10, 10); err == nil {
		t.Error("expected out-of-bounds error")
	}
}

func TestPoolResizeRejectsShrink(t *testing.T) {
	f, fd := tempPoolFile(t, make([]byte, 32))
	defer f.Close()
	p := NewPool(fd, 32)
	if err := p.Resize(16); err == nil {
		t.Error("expected error shrinking pool")
	}
}

func TestPoolResizeGrowClearsMapping(t *testing.T) {
	f, fd := tempPoolFile(t, make([]byte, 16))
	defer f.Close()
	p := NewPool(fd, 16)
	if _, err := p.ReadRegion(0, 16); err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(32); err != nil {
		t.Fatal(err)
	}
	if err := p.Resize(32); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ReadRegion(16, 16); err != nil {
		t.Fatalf("expected region readable after growth remap: %v", err)
	}
}

func TestShmByteLength(t *testing.T) {
	s := Shm{Width: 10, Height: 5, Stride: 40}
	if got := s.ByteLength(); got != 200 {
		t.Errorf("got %d, want 200", got)
	}
}

func TestDmaBufHasExplicitModifier(t *testing.T) {
	valid := DmaBuf{Modifier: 0}
	if !valid.HasExplicitModifier() {
		t.Error("modifier 0 should be explicit")
	}
	invalid := DmaBuf{Modifier: ModifierInvalid}
	if invalid.HasExplicitModifier() {
		t.Error("sentinel modifier should not be explicit")
	}
}

func TestRegistryPoolLifecycle(t *testing.T) {
	f, fd := tempPoolFile(t, make([]byte, 16))
	defer f.Close()
	reg := NewRegistry()
	reg.AddPool(1, NewPool(fd, 16))

	if _, ok := reg.Pool(1); !ok {
		t.Fatal("pool not found")
	}
	if err := reg.DestroyPool(1); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Pool(1); ok {
		t.Error("pool should be gone after destroy")
	}
	if err := reg.DestroyPool(1); err == nil {
		t.Error("expected error destroying already-gone pool")
	}
}

func TestRegistryReadShmPixels(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i)
	}
	f, fd := tempPoolFile(t, data)
	defer f.Close()

	reg := NewRegistry()
	reg.AddPool(1, NewPool(fd, len(data)))
	buf := NewShmBuffer(Shm{PoolID: 1, Offset: 0, Width: 10, Height: 4, Stride: 10})
	reg.AddBuffer(2, buf)

	px, err := reg.ReadShmPixels(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(px) != 40 {
		t.Errorf("got %d bytes, want 40", len(px))
	}
}

func TestRegistryDestroyClientCleansUp(t *testing.T) {
	f, fd := tempPoolFile(t, make([]byte, 16))
	defer f.Close()
	reg := NewRegistry()
	reg.AddPool(1, NewPool(fd, 16))
	reg.AddBuffer(2, NewShmBuffer(Shm{PoolID: 1}))

	reg.DestroyClient([]uint32{1}, []uint32{2})

	if _, ok := reg.Pool(1); ok {
		t.Error("pool should be removed")
	}
	if _, ok := reg.Buffer(2); ok {
		t.Error("buffer should be removed")
	}
}

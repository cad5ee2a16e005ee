package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestEncodeInstances(t *testing.T) {
	in := []Instance{
		{
			Position: [2]float32{1, 2},
			Size:     [2]float32{3, 4},
			Pivot:    [2]float32{0.5, 0.5},
			UV:       [4]float32{0, 0, 1, 1},
			Color:    [4]float32{1, 0.5, 0.25, 1},
			Rotation: 3,
		},
		{Position: [2]float32{9, 9}},
	}
	buf := EncodeInstances(nil, in)
	if len(buf) != 2*InstanceStride {
		t.Fatalf("len = %d, want %d", len(buf), 2*InstanceStride)
	}

	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	checks := []struct {
		off  int
		want float32
	}{
		{0, 1}, {4, 2}, // position
		{8, 3}, {12, 4}, // size
		{16, 0.5}, {20, 0.5}, // pivot
		{32, 1}, {36, 1}, // uv u1, v1
		{44, 0.5}, {48, 0.25}, // color g, b
		{InstanceStride, 9}, // second instance position.x
	}
	for _, c := range checks {
		if got := f32(c.off); got != c.want {
			t.Errorf("float at %d = %v, want %v", c.off, got, c.want)
		}
	}
	if rot := binary.LittleEndian.Uint32(buf[56:]); rot != 3 {
		t.Errorf("rotation = %d, want 3", rot)
	}

	// Appending keeps the prefix.
	buf2 := EncodeInstances(buf[:InstanceStride], in[1:])
	if len(buf2) != 2*InstanceStride || f32(0) != 1 {
		t.Error("append did not preserve prefix")
	}
}

func TestInstanceLayoutMatchesStride(t *testing.T) {
	layout := instanceLayout()
	if len(layout) != 1 {
		t.Fatalf("layout buffers = %d, want 1", len(layout))
	}
	if layout[0].ArrayStride != InstanceStride {
		t.Errorf("ArrayStride = %d, want %d", layout[0].ArrayStride, InstanceStride)
	}
	seen := map[uint32]bool{}
	for _, a := range layout[0].Attributes {
		if a.Offset >= InstanceStride {
			t.Errorf("attribute %d offset %d beyond stride", a.ShaderLocation, a.Offset)
		}
		if seen[a.ShaderLocation] {
			t.Errorf("duplicate location %d", a.ShaderLocation)
		}
		seen[a.ShaderLocation] = true
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(100, 50, 200, 100)
	apply := func(x, y float32) (float32, float32) {
		return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
	}
	tests := []struct {
		x, y, wantX, wantY float32
	}{
		{100, 50, 0, 0},
		{0, 0, -1, -1},
		{200, 100, 1, 1},
	}
	for _, tt := range tests {
		gx, gy := apply(tt.x, tt.y)
		if !approx(gx, tt.wantX) || !approx(gy, tt.wantY) {
			t.Errorf("Ortho(%v,%v) = (%v,%v), want (%v,%v)", tt.x, tt.y, gx, gy, tt.wantX, tt.wantY)
		}
	}

	if id := Ortho(0, 0, 0, 10); id[0] != 1 || id[5] != 1 || id[15] != 1 {
		t.Errorf("degenerate size should return identity, got %v", id)
	}
}

func approx(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func TestFrameInstanceGrowth(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := newTestPipelines(t, device)
	defer p.Destroy()

	f, err := NewFrame(device, queue, p)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	defer f.Destroy()

	if f.CameraGroup() == nil || f.IndexBuffer() == nil {
		t.Fatal("camera group or index buffer missing")
	}
	if f.InstanceBuffer() != nil {
		t.Error("instance buffer allocated before first write")
	}

	if err := f.WriteInstances(make([]Instance, 10)); err != nil {
		t.Fatalf("WriteInstances(10): %v", err)
	}
	if got := f.InstanceCapacity(); got != minInstanceCapacity {
		t.Errorf("capacity = %d, want %d", got, minInstanceCapacity)
	}
	first := f.InstanceBuffer()

	if err := f.WriteInstances(make([]Instance, minInstanceCapacity+1)); err != nil {
		t.Fatalf("WriteInstances(grow): %v", err)
	}
	if got := f.InstanceCapacity(); got != 2*minInstanceCapacity {
		t.Errorf("capacity = %d, want %d", got, 2*minInstanceCapacity)
	}
	if f.InstanceBuffer() == first {
		t.Error("instance buffer not replaced on growth")
	}

	if err := f.WriteInstances(make([]Instance, 3)); err != nil {
		t.Fatalf("WriteInstances(shrink): %v", err)
	}
	if got := f.InstanceCapacity(); got != 2*minInstanceCapacity {
		t.Errorf("buffer shrank to %d", got)
	}

	if err := f.WriteCamera(Ortho(0, 0, 320, 180)); err != nil {
		t.Errorf("WriteCamera: %v", err)
	}
}

func TestCreateTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := newTestPipelines(t, device)
	defer p.Destroy()

	tex, err := p.CreateTexture(queue, "checker", 2, 2, make([]byte, 16))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if w, h := tex.Size(); w != 2 || h != 2 {
		t.Errorf("Size = %dx%d, want 2x2", w, h)
	}
	if tex.BindGroup() == nil {
		t.Error("bind group missing")
	}
	tex.Destroy(device)
	tex.Destroy(device)
	if tex.BindGroup() != nil {
		t.Error("bind group survived Destroy")
	}

	if _, err := p.CreateTexture(queue, "empty", 0, 4, nil); !errors.Is(err, ErrInvalidTextureSize) {
		t.Errorf("zero size: got %v, want ErrInvalidTextureSize", err)
	}
	if _, err := p.CreateTexture(queue, "short", 2, 2, make([]byte, 15)); !errors.Is(err, ErrTextureDataSize) {
		t.Errorf("short data: got %v, want ErrTextureDataSize", err)
	}
}

package sprite

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/gogpu/sprite/asset"
	"github.com/gogpu/sprite/texture"
)

func TestCreateTexture(t *testing.T) {
	r := newTestRenderer(t)

	if _, err := r.CreateTexture("", nil); !errors.Is(err, ErrInvalidTextureSize) {
		t.Errorf("nil image err = %v, want ErrInvalidTextureSize", err)
	}
	if _, err := r.CreateTexture("", image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrInvalidTextureSize) {
		t.Errorf("empty image err = %v, want ErrInvalidTextureSize", err)
	}

	h := mustTexture(t, r, "tiles", 32, 16)
	if size, ok := r.TextureSize(h); !ok || size != (Size{32, 16}) {
		t.Errorf("TextureSize = %v, %v", size, ok)
	}
	if got, ok := r.TextureByName("tiles"); !ok || got != h {
		t.Errorf("TextureByName = %v, %v", got, ok)
	}
	if _, err := r.CreateTexture("tiles", image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, asset.ErrNameTaken) {
		t.Errorf("duplicate texture err = %v, want ErrNameTaken", err)
	}

	if !r.RemoveTexture(h) {
		t.Fatal("RemoveTexture returned false")
	}
	if _, ok := r.TextureSize(h); ok {
		t.Error("removed texture still resolves")
	}
}

func TestLoadTexture(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	loader := texture.NewLoader(fstest.MapFS{
		"sprites/hero.png": &fstest.MapFile{Data: buf.Bytes()},
		"sprites/bad.png":  &fstest.MapFile{Data: []byte("not an image")},
	})

	r := newTestRenderer(t)
	h, err := r.LoadTexture(loader, "hero", "sprites/hero.png")
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if size, ok := r.TextureSize(h); !ok || size != (Size{6, 4}) {
		t.Errorf("TextureSize = %v, %v; want 6x4", size, ok)
	}
	if got, ok := r.TextureByName("hero"); !ok || got != h {
		t.Errorf("TextureByName = %v, %v", got, ok)
	}

	// The decoded image is cached by path and shared by a second upload.
	if _, err := r.LoadTexture(loader, "hero_copy", "sprites/hero.png"); err != nil {
		t.Fatalf("LoadTexture copy: %v", err)
	}
	if loader.Len() != 1 {
		t.Errorf("loader cached %d images, want 1", loader.Len())
	}
	if stats := r.MemoryStats(); stats.TextureCount != 2 {
		t.Errorf("TextureCount = %d, want 2", stats.TextureCount)
	}

	if _, err := r.LoadTexture(loader, "missing", "sprites/missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v, want fs.ErrNotExist", err)
	}
	if _, err := r.LoadTexture(loader, "bad", "sprites/bad.png"); err == nil {
		t.Error("LoadTexture accepted undecodable data")
	}
	if _, ok := r.TextureByName("missing"); ok {
		t.Error("failed load registered a texture")
	}
}

func TestPackPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	got := packPixels(sub)
	if len(got) != 2*2*4 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	if got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 255 {
		t.Errorf("first pixel = %v", got[:4])
	}
}

func TestTextureMemoryBudget(t *testing.T) {
	r := newTestRenderer(t, WithTextureMemoryMB(1))

	// 512x256 RGBA8 is half a megabyte.
	a := mustTexture(t, r, "a", 512, 256)
	mustTexture(t, r, "b", 512, 256)

	stats := r.MemoryStats()
	if stats.TextureCount != 2 || stats.AvailableBytes != 0 {
		t.Errorf("stats after two textures = %v", stats)
	}

	if _, err := r.CreateTexture("c", image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrMemoryBudgetExceeded) {
		t.Fatalf("CreateTexture over budget err = %v, want ErrMemoryBudgetExceeded", err)
	}
	if _, ok := r.TextureByName("c"); ok {
		t.Error("rejected texture was registered")
	}

	if !r.RemoveTexture(a) {
		t.Fatal("RemoveTexture returned false")
	}
	if r.RemoveTexture(a) {
		t.Error("second RemoveTexture returned true")
	}
	mustTexture(t, r, "c", 1, 1)

	stats = r.MemoryStats()
	if stats.TextureCount != 2 || stats.Rejected != 1 {
		t.Errorf("stats after release = %v", stats)
	}
	if want := uint64(512*256*4 + 4); stats.UsedBytes != want {
		t.Errorf("UsedBytes = %d, want %d", stats.UsedBytes, want)
	}
}

func TestCloseReleasesTextures(t *testing.T) {
	r := newTestRenderer(t)
	mustTexture(t, r, "a", 4, 4)
	mustTexture(t, r, "", 8, 8)

	r.Close()
	if stats := r.MemoryStats(); stats.TextureCount != 0 || stats.UsedBytes != 0 {
		t.Errorf("stats after Close = %v", stats)
	}
	if _, err := r.CreateTexture("b", image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("CreateTexture after Close err = %v, want ErrRendererClosed", err)
	}
}

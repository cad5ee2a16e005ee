package cache

import (
	"fmt"
	"image"
	"testing"
)

// sheetPaths returns n distinct sprite sheet paths.
func sheetPaths(n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("sheets/level%02d/tiles.png", i)
	}
	return paths
}

func BenchmarkCacheHit(b *testing.B) {
	paths := sheetPaths(32)
	c := New[string, *image.RGBA](len(paths))
	for _, p := range paths {
		c.Set(p, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	}

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		c.Get(paths[i%len(paths)])
		i++
	}
}

func BenchmarkCacheGetOrCreateThrash(b *testing.B) {
	paths := sheetPaths(64)
	c := New[string, *image.RGBA](len(paths) / 2)
	decode := func() (*image.RGBA, error) { return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil }

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		if _, err := c.GetOrCreate(paths[i%len(paths)], decode); err != nil {
			b.Fatal(err)
		}
		i++
	}
}

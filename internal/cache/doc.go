// Package cache provides a generic LRU cache.
//
//	c := cache.New[string, *image.RGBA](64)
//	c.Set("hero.png", img)
//	img, ok := c.Get("hero.png")
//
// The texture loader keeps decoded images here so that repeated loads of
// the same path skip disk and decoding.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

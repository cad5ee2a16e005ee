// Package texture decodes sprite sheets and masks into RGBA pixels ready for
// GPU upload.
//
// [Decode] handles the common container formats (PNG, JPEG, GIF, BMP,
// WebP, TIFF). [DecodeBlock] handles raw pixel payloads as found in packed
// asset files: RGBA8, R8 masks, and DXT1/DXT5 block compression, each
// optionally wrapped in an LZ4 block. [Loader] reads images from an fs.FS
// and keeps decoded results in an LRU cache.
//
// All decoders return *image.RGBA, which is alpha-premultiplied, matching
// the premultiplied blend state of the sprite pipelines.
package texture

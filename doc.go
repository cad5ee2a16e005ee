// Package sprite is a batched 2D sprite renderer for gogpu/wgpu.
//
// # Overview
//
// A frame is built by queueing draw items on a [Renderer] and then calling
// [Renderer.Render] with an open render pass. Render groups the queued
// items into as few instanced draw calls as possible:
//
//	Add/Draw* -> extract keys -> sort -> coalesce -> emit
//
// Items are sorted by depth first and then by pipeline, material and
// texture, so that items sharing GPU state end up next to each other.
// Adjacent items with the same pipeline, material and texture are drawn
// with a single DrawIndexed call. Pipelines are only rebound when they
// change between consecutive batches.
//
// # Quick Start
//
//	r, err := sprite.NewRenderer(device, queue,
//	    sprite.WithVirtualSize(320, 240),
//	)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	tex, err := r.CreateTexture("hero", img)
//	mat, err := r.CreateMaterial("hero", sprite.Material{Kind: sprite.KindSprite, Primary: tex})
//
//	r.DrawSprite(sprite.Vec3{X: 10, Y: 20}, mat, sprite.SpriteShape{})
//	if err := r.Render(pass); err != nil {
//	    return err
//	}
//
// # Virtual resolution
//
// Render draws straight onto the surface inside [Renderer.Viewport].
// For pixel-exact scaling, draw into the virtual render target instead
// and copy it to the surface with [Renderer.Present]:
//
//	view, err := r.VirtualView() // begin a pass on view, cleared with r.ClearColor()
//	err = r.RenderVirtual(virtualPass)
//	err = r.Present(surfacePass) // surface pass cleared with r.ScreenClearColor()
//
// [Renderer.RenderFrame] does both passes on a command encoder.
//
// # Materials and handles
//
// Textures and materials live in generational registries owned by the
// renderer. Items reference them through weak [asset.Handle] values. A
// handle whose asset was removed is stale; queuing an item with a stale
// material aborts the whole frame with [ErrMaterialNotFound] before any
// GPU command is recorded.
//
// # Coordinate System
//
// World space is y-up with the origin at the lower-left of the virtual
// screen. Texture regions are given in texels with the origin at the
// top-left, as images are stored.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package sprite

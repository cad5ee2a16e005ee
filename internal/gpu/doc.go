// Package gpu owns the wgpu resources behind the sprite renderer.
//
// It is an internal package. The root sprite package decides what to draw
// and in which order; this package knows how: WGSL shaders, pipeline
// layouts, the instance buffer format, texture upload and bind groups.
//
// # Resources
//
//   - Pipelines: one render pipeline per [PipelineID], created lazily on
//     first use and destroyed in reverse creation order.
//   - Frame: the persistent per-renderer buffers (instances, camera
//     uniform, shared quad indices). Buffers grow, never shrink.
//   - Texture: a sampled 2D texture plus the bind group that exposes it at
//     group 1 (or group 2 for alpha masks).
//
// # Bind group layout
//
//	group 0: camera uniform (vertex)
//	group 1: texture + sampler (fragment)
//	group 2: mask texture + sampler (fragment, alpha mask pipeline only)
//
// All GPU access goes through the hal interfaces of gogpu/wgpu, so every
// type in this package can be exercised against the noop backend.
package gpu

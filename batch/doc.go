// Package batch orders per-frame draw entries and coalesces them into
// contiguous runs that can each be drawn with one instanced draw call.
//
// The package is GPU agnostic. A frame goes through three steps:
//
//  1. Collect: items are appended to a [Queue] in any order.
//  2. Sort: [Sort] orders entries by [Key], stable on equal keys. Depth
//     comes first so that transparency stays correct; pipeline, material
//     and texture follow so equal-depth items cluster by GPU state.
//  3. Coalesce: [Coalesce] walks the sorted entries once and emits a
//     [Descriptor] whenever the (pipeline, material, texture) run key
//     changes.
//
// Descriptors always partition the sorted sequence: their ranges are
// contiguous, non-overlapping and cover every entry exactly once.
package batch

package batch

import (
	"cmp"
	"fmt"

	"github.com/gogpu/sprite/asset"
)

// PipelineID identifies a GPU pipeline configuration.
type PipelineID uint32

// Key is the composite sort key of one draw entry.
type Key struct {
	Z        float32
	Pipeline PipelineID
	Material asset.ID
	Texture  asset.ID
}

// RunKey is the part of a Key that decides batch boundaries.
type RunKey struct {
	Pipeline PipelineID
	Material asset.ID
	Texture  asset.ID
}

// Run returns the batching part of k. Depth is excluded: entries are
// already ordered by depth, so only state changes split a run.
func (k Key) Run() RunKey {
	return RunKey{Pipeline: k.Pipeline, Material: k.Material, Texture: k.Texture}
}

func (k Key) String() string {
	return fmt.Sprintf("z=%g pipeline=%d material=%s texture=%s", k.Z, k.Pipeline, k.Material, k.Texture)
}

// Compare orders keys lexicographically by depth (ascending), pipeline,
// material and texture. It returns -1, 0 or +1.
func Compare(a, b Key) int {
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Pipeline, b.Pipeline); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Material.Key(), b.Material.Key()); c != 0 {
		return c
	}
	return cmp.Compare(a.Texture.Key(), b.Texture.Key())
}

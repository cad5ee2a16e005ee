package batch

import "github.com/gogpu/sprite/asset"

// Descriptor describes a contiguous run of sorted entries that share a
// pipeline, material and texture. Start and Count index the sorted
// sequence, not the original collection order.
type Descriptor struct {
	Pipeline PipelineID
	Material asset.ID
	Texture  asset.ID
	Start    int
	Count    int
}

// End returns the exclusive end of the run.
func (d Descriptor) End() int { return d.Start + d.Count }

// Run returns the run key the descriptor was coalesced on.
func (d Descriptor) Run() RunKey {
	return RunKey{Pipeline: d.Pipeline, Material: d.Material, Texture: d.Texture}
}

// Coalesce walks sorted entries once and returns one descriptor per maximal
// run of equal run keys. An empty input yields nil.
func Coalesce(sorted []Entry) []Descriptor {
	if len(sorted) == 0 {
		return nil
	}

	var out []Descriptor
	cur := newDescriptor(sorted[0].Key.Run(), 0)
	for i := 1; i < len(sorted); i++ {
		run := sorted[i].Key.Run()
		if run == cur.Run() {
			cur.Count++
			continue
		}
		out = append(out, cur)
		cur = newDescriptor(run, i)
	}
	return append(out, cur)
}

// Split breaks descriptors longer than limit into consecutive descriptors
// with the same run key. A limit <= 0 disables splitting.
//
// The result is no longer maximally coalesced, but still partitions the
// same range.
func Split(descs []Descriptor, limit int) []Descriptor {
	if limit <= 0 {
		return descs
	}
	var out []Descriptor
	for _, d := range descs {
		for d.Count > limit {
			head := d
			head.Count = limit
			out = append(out, head)
			d.Start += limit
			d.Count -= limit
		}
		out = append(out, d)
	}
	return out
}

func newDescriptor(run RunKey, start int) Descriptor {
	return Descriptor{
		Pipeline: run.Pipeline,
		Material: run.Material,
		Texture:  run.Texture,
		Start:    start,
		Count:    1,
	}
}

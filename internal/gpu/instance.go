package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// InstanceStride is the byte size of one encoded [Instance].
// Layout:
//
//	position (vec2<f32>) = 8 bytes  (location 0)
//	size     (vec2<f32>) = 8 bytes  (location 1)
//	pivot    (vec2<f32>) = 8 bytes  (location 2)
//	uv_rect  (vec4<f32>) = 16 bytes (location 3)
//	color    (vec4<f32>) = 16 bytes (location 4)
//	rotation (u32)       = 4 bytes  (location 5)
//
// Total = 60 bytes per instance.
const InstanceStride = 60

// quadIndices draws one quad as two triangles from four corners.
var quadIndices = [6]uint16{0, 1, 2, 2, 3, 0}

// QuadIndexCount is the index count of one instanced draw.
const QuadIndexCount = uint32(len(quadIndices))

// Instance is the per-instance vertex data of every sprite pipeline.
type Instance struct {
	// Position is the world position of the pivot.
	Position [2]float32
	// Size is the quad size in world units.
	Size [2]float32
	// Pivot is the rotation and placement origin in unit quad space,
	// (0,0) is the lower-left corner.
	Pivot [2]float32
	// UV is the texture rect as (u0, v0, u1, v1), v0 at the top. Swapping
	// u0/u1 or v0/v1 flips the sprite.
	UV [4]float32
	// Color is a premultiplied RGBA tint.
	Color [4]float32
	// Rotation is a counter-clockwise rotation in quarter turns.
	Rotation uint32
}

// EncodeInstances appends the little-endian encoding of instances to dst
// and returns the extended slice.
func EncodeInstances(dst []byte, instances []Instance) []byte {
	need := len(dst) + len(instances)*InstanceStride
	if cap(dst) < need {
		grown := make([]byte, len(dst), need)
		copy(grown, dst)
		dst = grown
	}
	for i := range instances {
		off := len(dst)
		dst = dst[:off+InstanceStride]
		writeInstance(dst[off:], &instances[i])
	}
	return dst
}

func writeInstance(buf []byte, in *Instance) {
	putFloats(buf[0:], in.Position[:])
	putFloats(buf[8:], in.Size[:])
	putFloats(buf[16:], in.Pivot[:])
	putFloats(buf[24:], in.UV[:])
	putFloats(buf[40:], in.Color[:])
	binary.LittleEndian.PutUint32(buf[56:60], in.Rotation)
}

func putFloats(buf []byte, vs []float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

// instanceLayout returns the vertex buffer layout shared by all pipelines.
func instanceLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: InstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // size
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2}, // pivot
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 3}, // uv_rect
				{Format: gputypes.VertexFormatFloat32x4, Offset: 40, ShaderLocation: 4}, // color
				{Format: gputypes.VertexFormatUint32, Offset: 56, ShaderLocation: 5},    // rotation
			},
		},
	}
}

func quadIndexBytes() []byte {
	buf := make([]byte, len(quadIndices)*2)
	for i, idx := range quadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

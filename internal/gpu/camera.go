package gpu

import (
	"encoding/binary"
	"math"
)

// cameraUniformSize is the byte size of the camera uniform:
// view_proj (mat4x4<f32>) = 64 bytes.
const cameraUniformSize = 64

// Ortho returns a column-major orthographic projection that maps the
// rectangle of the given size centered on (cx, cy) to clip space, y up.
func Ortho(cx, cy, width, height float32) [16]float32 {
	if width == 0 || height == 0 {
		return [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	}
	sx := 2 / width
	sy := 2 / height
	return [16]float32{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, 1, 0,
		-cx * sx, -cy * sy, 0, 1,
	}
}

func encodeCamera(m [16]float32) []byte {
	buf := make([]byte, cameraUniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// minInstanceCapacity is the smallest instance buffer ever allocated.
const minInstanceCapacity = 256

// Frame holds the persistent buffers a renderer writes every frame: the
// instance buffer, the camera uniform with its bind group, and the shared
// quad index buffer. The instance buffer grows to the next power of two
// when a frame needs more room and is never shrunk.
type Frame struct {
	device hal.Device
	queue  hal.Queue

	instanceBuf hal.Buffer
	instanceCap int
	staging     []byte

	cameraBuf   hal.Buffer
	cameraGroup hal.BindGroup
	indexBuf    hal.Buffer
}

// NewFrame creates the camera uniform, its bind group and the quad index
// buffer.
func NewFrame(device hal.Device, queue hal.Queue, pipelines *Pipelines) (*Frame, error) {
	f := &Frame{device: device, queue: queue}

	indexBuf, err := f.createAndUploadBuffer("sprite_quad_indices", quadIndexBytes(),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	f.indexBuf = indexBuf

	cameraBuf, err := f.createAndUploadBuffer("sprite_camera_uniform", encodeCamera(Ortho(0, 0, 1, 1)),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		f.Destroy()
		return nil, err
	}
	f.cameraBuf = cameraBuf

	cameraGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sprite_camera_bind",
		Layout: pipelines.CameraLayout(),
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: cameraBuf.NativeHandle(), Offset: 0, Size: cameraUniformSize,
			}},
		},
	})
	if err != nil {
		f.Destroy()
		return nil, fmt.Errorf("create camera bind group: %w", err)
	}
	f.cameraGroup = cameraGroup
	return f, nil
}

// CameraGroup returns the group 0 bind group.
func (f *Frame) CameraGroup() hal.BindGroup { return f.cameraGroup }

// IndexBuffer returns the shared quad index buffer (uint16).
func (f *Frame) IndexBuffer() hal.Buffer { return f.indexBuf }

// InstanceBuffer returns the current instance buffer, nil before the first
// WriteInstances call.
func (f *Frame) InstanceBuffer() hal.Buffer { return f.instanceBuf }

// InstanceCapacity returns the instance buffer capacity in instances.
func (f *Frame) InstanceCapacity() int { return f.instanceCap }

// WriteCamera uploads a view-projection matrix.
func (f *Frame) WriteCamera(viewProj [16]float32) error {
	if err := f.queue.WriteBuffer(f.cameraBuf, 0, encodeCamera(viewProj)); err != nil {
		return fmt.Errorf("write camera uniform: %w", err)
	}
	return nil
}

// WriteInstances encodes and uploads instances starting at instance 0.
func (f *Frame) WriteInstances(instances []Instance) error {
	if len(instances) == 0 {
		return nil
	}
	if err := f.ensureInstanceCapacity(len(instances)); err != nil {
		return err
	}
	f.staging = EncodeInstances(f.staging[:0], instances)
	if err := f.queue.WriteBuffer(f.instanceBuf, 0, f.staging); err != nil {
		return fmt.Errorf("write instances: %w", err)
	}
	return nil
}

func (f *Frame) ensureInstanceCapacity(n int) error {
	if n <= f.instanceCap {
		return nil
	}
	capacity := max(f.instanceCap, minInstanceCapacity)
	for capacity < n {
		capacity *= 2
	}

	buf, err := f.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_instances",
		Size:  uint64(capacity) * InstanceStride, //nolint:gosec // capacity is positive
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create instance buffer: %w", err)
	}
	if f.instanceBuf != nil {
		f.device.DestroyBuffer(f.instanceBuf)
	}
	slogger().Debug("instance buffer grown", "from", f.instanceCap, "to", capacity)
	f.instanceBuf = buf
	f.instanceCap = capacity
	return nil
}

func (f *Frame) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := f.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := f.queue.WriteBuffer(buf, 0, data); err != nil {
		f.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}

// Destroy releases all buffers in reverse creation order.
func (f *Frame) Destroy() {
	if f.instanceBuf != nil {
		f.device.DestroyBuffer(f.instanceBuf)
		f.instanceBuf = nil
		f.instanceCap = 0
	}
	if f.cameraGroup != nil {
		f.device.DestroyBindGroup(f.cameraGroup)
		f.cameraGroup = nil
	}
	if f.cameraBuf != nil {
		f.device.DestroyBuffer(f.cameraBuf)
		f.cameraBuf = nil
	}
	if f.indexBuf != nil {
		f.device.DestroyBuffer(f.indexBuf)
		f.indexBuf = nil
	}
}

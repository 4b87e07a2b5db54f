package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Buffer errors.
var (
	// ErrNilHALDevice is returned when a helper is called without a device.
	ErrNilHALDevice = errors.New("gpu: hal device is nil")

	// ErrInvalidBufferSize is returned when buffer size is invalid.
	ErrInvalidBufferSize = errors.New("gpu: invalid buffer size")
)

// CopyBufferAlignment is the alignment WebGPU requires for buffer sizes
// used with WriteBuffer and buffer copies.
const CopyBufferAlignment uint64 = 4

// AlignSize rounds size up to CopyBufferAlignment.
func AlignSize(size uint64) uint64 {
	return (size + CopyBufferAlignment - 1) &^ (CopyBufferAlignment - 1)
}

// CreateBuffer creates a HAL buffer of at least size bytes. The allocation is
// padded to CopyBufferAlignment; the padded size is returned alongside the
// buffer.
func CreateBuffer(device hal.Device, label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, uint64, error) {
	if device == nil {
		return nil, 0, ErrNilHALDevice
	}
	if size == 0 {
		return nil, 0, fmt.Errorf("%w: %s: size is 0", ErrInvalidBufferSize, label)
	}
	if usage == 0 {
		return nil, 0, fmt.Errorf("%s: buffer usage is empty", label)
	}

	aligned := AlignSize(size)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  aligned,
		Usage: usage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create %s: %w", label, err)
	}
	slogger().Debug("buffer created", "label", label, "size", size, "aligned", aligned)
	return buf, aligned, nil
}

// CreateAndUploadBuffer creates a buffer sized for data and writes data into
// it through the queue.
func CreateAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, aligned, err := CreateBuffer(device, label, uint64(len(data)), usage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	if err := queue.WriteBuffer(buf, 0, PadBytes(data, aligned)); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}

// PadBytes returns data extended with zero bytes up to size. data is returned
// unchanged when it is already long enough.
func PadBytes(data []byte, size uint64) []byte {
	if uint64(len(data)) >= size {
		return data
	}
	padded := make([]byte, size)
	copy(padded, data)
	return padded
}

// Float32sToBytes encodes values as little-endian float32 words.
func Float32sToBytes(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	PutFloat32s(buf, values)
	return buf
}

// PutFloat32s writes values into buf as little-endian float32 words.
// buf must hold at least 4*len(values) bytes.
func PutFloat32s(buf []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/chart/internal/gputest"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var errWriteFailed = errors.New("write failed")

// failingQueue rejects every buffer write.
type failingQueue struct {
	hal.Queue
}

func (failingQueue) WriteBuffer(hal.Buffer, uint64, []byte) error { return errWriteFailed }

func TestAlignSize(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{112, 112},
		{1001, 1004},
	}
	for _, tt := range tests {
		if got := AlignSize(tt.in); got != tt.want {
			t.Errorf("AlignSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCreateBuffer(t *testing.T) {
	device, _, cleanup := gputest.NoopDevice(t)
	defer cleanup()

	buf, aligned, err := CreateBuffer(device, "test", 7, gputypes.BufferUsageStorage)
	if err != nil {
		t.Fatalf("CreateBuffer() = %v", err)
	}
	defer device.DestroyBuffer(buf)
	if aligned != 8 {
		t.Errorf("aligned size = %d, want 8", aligned)
	}

	if _, _, err := CreateBuffer(nil, "nil", 4, gputypes.BufferUsageStorage); !errors.Is(err, ErrNilHALDevice) {
		t.Errorf("nil device: %v, want ErrNilHALDevice", err)
	}
	if _, _, err := CreateBuffer(device, "zero", 0, gputypes.BufferUsageStorage); !errors.Is(err, ErrInvalidBufferSize) {
		t.Errorf("zero size: %v, want ErrInvalidBufferSize", err)
	}
	if _, _, err := CreateBuffer(device, "no usage", 4, 0); err == nil {
		t.Error("empty usage should fail")
	}
}

func TestCreateAndUploadBuffer(t *testing.T) {
	device, queue, cleanup := gputest.NoopDevice(t)
	defer cleanup()

	buf, err := CreateAndUploadBuffer(device, queue, "verts", []byte{1, 2, 3, 4, 5, 6}, gputypes.BufferUsageVertex)
	if err != nil {
		t.Fatalf("CreateAndUploadBuffer() = %v", err)
	}
	device.DestroyBuffer(buf)

	_, err = CreateAndUploadBuffer(device, failingQueue{Queue: queue}, "verts", []byte{1, 2, 3, 4}, gputypes.BufferUsageVertex)
	if !errors.Is(err, errWriteFailed) {
		t.Errorf("failed upload: CreateAndUploadBuffer() = %v, want %v", err, errWriteFailed)
	}
}

func TestPadBytes(t *testing.T) {
	data := []byte{1, 2, 3}
	got := PadBytes(data, 8)
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	for i, b := range []byte{1, 2, 3, 0, 0, 0, 0, 0} {
		if got[i] != b {
			t.Errorf("got[%d] = %d, want %d", i, got[i], b)
		}
	}
	if same := PadBytes(data, 2); &same[0] != &data[0] {
		t.Error("PadBytes should return data unchanged when long enough")
	}
}

func TestFloat32sToBytes(t *testing.T) {
	values := []float32{0, 1.5, -2, float32(math.Inf(1))}
	got := Float32sToBytes(values)
	if len(got) != 16 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	for i, want := range values {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(got[i*4:])); v != want {
			t.Errorf("value %d = %v, want %v", i, v, want)
		}
	}
}

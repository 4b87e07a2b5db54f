package gpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// Backend names accepted by Open.
const (
	BackendVulkan = "vulkan"
	BackendNoop   = "noop"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("gpu: unknown backend")

// Device is a device opened by this package, together with the instance it
// came from. Close releases both.
type Device struct {
	Instance hal.Instance
	Device   hal.Device
	Queue    hal.Queue
	Adapter  string
}

// Open creates an instance on the named backend and opens a device on its
// preferred adapter. Discrete and integrated GPUs win over software
// adapters. The vulkan backend must be linked in by the caller with a blank
// import of github.com/gogpu/wgpu/hal/vulkan.
func Open(backend string) (*Device, error) {
	var (
		instance hal.Instance
		err      error
	)
	switch strings.ToLower(backend) {
	case BackendNoop:
		api := noop.API{}
		instance, err = api.CreateInstance(nil)
	case BackendVulkan, "":
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("vulkan backend not available")
		}
		instance, err = b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	slogger().Info("gpu device opened", "backend", backend, "adapter", selected.Info.Name)
	return &Device{
		Instance: instance,
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Adapter:  selected.Info.Name,
	}, nil
}

// HalDevice returns the device as any, so a *Device can be handed to code
// that discovers HAL handles through an interface.
func (d *Device) HalDevice() any { return d.Device }

// HalQueue returns the queue as any.
func (d *Device) HalQueue() any { return d.Queue }

// Close destroys the device and then the instance. Safe to call twice.
func (d *Device) Close() {
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
	}
	d.Queue = nil
	if d.Instance != nil {
		d.Instance.Destroy()
		d.Instance = nil
	}
}

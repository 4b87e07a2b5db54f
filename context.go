package chart

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Context is the rendering context every chart is created against. It holds
// the device and queue used for resource creation and the target format the
// chart pipelines are compiled for.
//
// A Context does not own its device. Destroy all charts created from a
// Context before the device itself is destroyed.
type Context struct {
	device      hal.Device
	queue       hal.Queue
	format      gputypes.TextureFormat
	sampleCount uint32
	debug       bool
	logger      *slog.Logger
}

// NewContext creates a Context for the given device and queue.
func NewContext(device hal.Device, queue hal.Queue, opts ...Option) (*Context, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Context{
		device:      device,
		queue:       queue,
		format:      o.format,
		sampleCount: o.sampleCount,
		debug:       o.debug,
		logger:      o.logger,
	}
	c.log().Info("chart context created",
		"format", o.format, "samples", o.sampleCount, "debug", o.debug)
	return c, nil
}

// NewContextFromProvider creates a Context sharing the device of a host
// application such as gogpu. The provider must also implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
//
// When no WithFormat option is given, the provider's surface format is used.
func NewContextFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, ErrNoHALProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}

	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithFormat(f)}, opts...)
	}
	ctx, err := NewContext(device, queue, opts...)
	if err != nil {
		return nil, err
	}
	info := provider.AdapterInfo()
	ctx.log().Info("chart context from provider", "adapter", info.Name, "type", info.Type)
	return ctx, nil
}

// Device returns the HAL device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Format returns the render target color format.
func (c *Context) Format() gputypes.TextureFormat { return c.format }

// SampleCount returns the render target MSAA sample count.
func (c *Context) SampleCount() uint32 { return c.sampleCount }

// Debug reports whether debug checks are enabled.
func (c *Context) Debug() bool { return c.debug }

func (c *Context) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

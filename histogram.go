package chart

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/chart/internal/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// histogramUniformSize is the byte size of the histogram uniform block.
// Layout:
//
//	transform     (mat4x4<f32>) = 64 bytes (offset 0)
//	bar_color     (vec4<f32>)   = 16 bytes (offset 64)
//	outline_color (vec4<f32>)   = 16 bytes (offset 80)
//	params        (vec4<f32>)   = 16 bytes (offset 96): nbins, ymax, 0, 0
//
// Total = 112 bytes.
const histogramUniformSize = 112

// defaultBarColor is the fill color of a new histogram.
var defaultBarColor = RGB(0.25, 0.5, 0.9)

// Histogram draws one vertical bar per bin. Bin frequencies live in a GPU
// buffer the caller fills through Upload, SetFrequencies, or by writing to
// Buffer directly; bar geometry is computed in the vertex shader from the
// instance index, the bin count and YMax.
//
// All bars are drawn with two instanced draws over the shared unit
// rectangle: a filled strip in the bar color, then a black outline.
type Histogram struct {
	*Chart

	dataType DataType
	nbins    uint32

	// freqSize is the logical byte size (nbins * element size); freqAlloc is
	// the padded GPU allocation.
	freqBuf   hal.Buffer
	freqSize  uint64
	freqAlloc uint64

	uniformBuf hal.Buffer
	uniforms   [histogramUniformSize]byte

	shader          hal.ShaderModule
	bindLayout      hal.BindGroupLayout
	pipeLayout      hal.PipelineLayout
	fillPipeline    hal.RenderPipeline
	outlinePipeline hal.RenderPipeline
	bindGroup       hal.BindGroup

	barColor RGBA
}

// NewHistogram creates a histogram with nbins bars whose frequencies are
// stored as elements of type dt. The frequency buffer starts zeroed.
//
// An unsupported dt yields a *TypeError; errors.Is(err, ErrUnsupportedType)
// reports true for it.
func NewHistogram(ctx *Context, nbins uint32, dt DataType) (*Histogram, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	src, ok := histogramShaderSource(dt)
	if !ok {
		return nil, &TypeError{Op: "NewHistogram", Arg: 3, Type: dt}
	}
	if nbins == 0 {
		return nil, ErrZeroBins
	}

	base, err := newChart(ctx)
	if err != nil {
		return nil, err
	}
	h := &Histogram{
		Chart:    base,
		dataType: dt,
		nbins:    nbins,
		freqSize: uint64(nbins) * dt.Size(),
		barColor: defaultBarColor,
	}
	if err := h.createResources(src); err != nil {
		h.Destroy()
		return nil, err
	}
	ctx.log().Info("histogram created", "bins", nbins, "type", dt, "bytes", h.freqSize)
	return h, nil
}

func (h *Histogram) createResources(src string) error { //nolint:funlen // GPU setup is a single linear sequence
	ctx := h.ctx
	device := ctx.device

	freqBuf, alloc, err := gpu.CreateBuffer(device, "histogram_frequencies", h.freqSize,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst|gputypes.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	h.freqBuf = freqBuf
	h.freqAlloc = alloc
	if err := ctx.queue.WriteBuffer(h.freqBuf, 0, make([]byte, alloc)); err != nil {
		return fmt.Errorf("zero frequencies: %w", err)
	}

	h.uniformBuf, err = ctx.createUniformBuffer("histogram_uniforms", histogramUniformSize)
	if err != nil {
		return err
	}

	h.shader, err = ctx.createShader("histogram_shader_"+h.dataType.String(), src)
	if err != nil {
		return err
	}

	h.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "histogram_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create histogram bind layout: %w", err)
	}

	h.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "histogram_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{h.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create histogram pipeline layout: %w", err)
	}

	h.fillPipeline, err = ctx.createPipeline(pipelineDesc{
		label:    "histogram_fill_pipeline",
		layout:   h.pipeLayout,
		shader:   h.shader,
		fragment: "fs_fill",
		topology: gputypes.PrimitiveTopologyTriangleStrip,
	})
	if err != nil {
		return err
	}

	h.outlinePipeline, err = ctx.createPipeline(pipelineDesc{
		label:    "histogram_outline_pipeline",
		layout:   h.pipeLayout,
		shader:   h.shader,
		fragment: "fs_outline",
		topology: gputypes.PrimitiveTopologyLineStrip,
	})
	if err != nil {
		return err
	}

	h.bindGroup, err = device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "histogram_bind",
		Layout: h.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: h.uniformBuf.NativeHandle(), Offset: 0, Size: histogramUniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: h.freqBuf.NativeHandle(), Offset: 0, Size: h.freqAlloc,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create histogram bind group: %w", err)
	}
	return nil
}

// SetBarColor sets the bar fill color. Alpha is always 1.
func (h *Histogram) SetBarColor(r, g, b float32) {
	h.barColor = RGBA{R: float64(r), G: float64(g), B: float64(b), A: 1}
}

// BarColor returns the bar fill color.
func (h *Histogram) BarColor() RGBA { return h.barColor }

// Bins returns the number of bins.
func (h *Histogram) Bins() uint32 { return h.nbins }

// DataType returns the element type of the frequency buffer.
func (h *Histogram) DataType() DataType { return h.dataType }

// Buffer returns the GPU buffer holding one frequency per bin. Callers may
// write to it directly with hal.Queue.WriteBuffer or buffer copies; it has
// Storage, CopyDst and CopySrc usage.
func (h *Histogram) Buffer() hal.Buffer { return h.freqBuf }

// Size returns the byte size of the frequency data: Bins() times the element
// size. The underlying allocation may be padded to a multiple of 4 bytes.
func (h *Histogram) Size() uint64 { return h.freqSize }

// Upload writes raw frequency data, laid out as little-endian elements of
// DataType(). len(data) must equal Size().
func (h *Histogram) Upload(data []byte) error {
	if h.destroyed {
		return ErrDestroyed
	}
	if uint64(len(data)) != h.freqSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(data), h.freqSize)
	}
	if err := h.ctx.queue.WriteBuffer(h.freqBuf, 0, gpu.PadBytes(data, h.freqAlloc)); err != nil {
		return fmt.Errorf("upload frequencies: %w", err)
	}
	return nil
}

// SetFrequencies uploads one value per bin. The Go element type must match
// the histogram's DataType and len(values) must equal Bins().
func SetFrequencies[T Frequency](h *Histogram, values []T) error {
	if dt := dataTypeOf[T](); dt != h.dataType {
		return &TypeError{Op: "SetFrequencies", Arg: 2, Type: dt}
	}
	if uint64(len(values)) != uint64(h.nbins) {
		return fmt.Errorf("%w: got %d values, want %d", ErrSizeMismatch, len(values), h.nbins)
	}
	return h.Upload(encodeFrequencies(values))
}

// encodeFrequencies returns values as little-endian bytes.
func encodeFrequencies[T Frequency](values []T) []byte {
	switch v := any(values).(type) {
	case []float32:
		return gpu.Float32sToBytes(v)
	case []int32:
		buf := make([]byte, 4*len(v))
		for i, x := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(x)) //nolint:gosec // two's complement bit pattern
		}
		return buf
	case []uint32:
		buf := make([]byte, 4*len(v))
		for i, x := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], x)
		}
		return buf
	case []uint8:
		buf := make([]byte, len(v))
		copy(buf, v)
		return buf
	}
	return nil
}

// writeUniforms fills and uploads the uniform block for a viewport of the
// given size.
func (h *Histogram) writeUniforms(width, height int) error {
	u := h.uniforms[:]
	h.PlotTransform(width, height).putBytes(u[0:64])
	bar := h.barColor.vec4()
	outline := Black.vec4()
	gpu.PutFloat32s(u[64:80], bar[:])
	gpu.PutFloat32s(u[80:96], outline[:])
	gpu.PutFloat32s(u[96:112], []float32{float32(h.nbins), h.ymax, 0, 0})
	return h.ctx.queue.WriteBuffer(h.uniformBuf, 0, u)
}

// Render draws the histogram into the viewport at (x, y) of the given size,
// in render target pixels with a top-left origin. The bars are clipped to
// the plot area; the frame and ticks are drawn afterwards.
//
// Render leaves the viewport and scissor set to the chart rectangle. The
// uniforms are written through the queue, so render a histogram at most
// once per submitted command buffer.
func (h *Histogram) Render(rp hal.RenderPassEncoder, x, y, width, height int) {
	if h.destroyed || width <= 0 || height <= 0 {
		return
	}
	plot := h.PlotArea(width, height)
	switch {
	case plot.Empty():
		h.ctx.log().Warn("histogram: plot area is empty", "width", width, "height", height)
		return
	case h.ymax <= 0:
		h.ctx.log().Warn("histogram: ymax must be positive to draw bars", "ymax", h.ymax)
	default:
		if err := h.writeUniforms(width, height); err != nil {
			h.ctx.log().Warn("histogram: uniform upload failed, skipping bars", "err", err)
			break
		}
		if h.ctx.debug {
			m := h.PlotTransform(width, height)
			x0, y0 := m.TransformPoint(-1, -1)
			x1, y1 := m.TransformPoint(1, 1)
			h.ctx.log().Debug("histogram render",
				"viewport", Rect{X: x, Y: y, Width: width, Height: height},
				"plot", plot, "ndc", [4]float32{x0, y0, x1, y1},
				"bins", h.nbins, "ymax", h.ymax)
		}

		setViewport(rp, x, y, width, height)
		setScissor(rp, Rect{X: x + plot.X, Y: y + plot.Y, Width: plot.Width, Height: plot.Height})

		rp.SetPipeline(h.fillPipeline)
		rp.SetBindGroup(0, h.bindGroup, nil)
		rp.SetVertexBuffer(0, h.rectBuf, 0)
		rp.Draw(rectFillCount, h.nbins, rectFillFirst, 0)

		rp.SetPipeline(h.outlinePipeline)
		rp.SetBindGroup(0, h.bindGroup, nil)
		rp.SetVertexBuffer(0, h.rectBuf, 0)
		rp.Draw(rectOutlineCount, h.nbins, rectOutlineFirst, 0)

		setScissor(rp, Rect{X: x, Y: y, Width: width, Height: height})
	}
	h.renderChart(rp, x, y, width, height)
}

// Destroy releases the histogram's GPU resources, then the chart's.
// Destroy must be called before the device is destroyed. Safe to call
// multiple times.
func (h *Histogram) Destroy() {
	if h.Chart == nil || h.destroyed {
		return
	}
	device := h.ctx.device
	if h.bindGroup != nil {
		device.DestroyBindGroup(h.bindGroup)
		h.bindGroup = nil
	}
	if h.outlinePipeline != nil {
		device.DestroyRenderPipeline(h.outlinePipeline)
		h.outlinePipeline = nil
	}
	if h.fillPipeline != nil {
		device.DestroyRenderPipeline(h.fillPipeline)
		h.fillPipeline = nil
	}
	if h.pipeLayout != nil {
		device.DestroyPipelineLayout(h.pipeLayout)
		h.pipeLayout = nil
	}
	if h.bindLayout != nil {
		device.DestroyBindGroupLayout(h.bindLayout)
		h.bindLayout = nil
	}
	if h.shader != nil {
		device.DestroyShaderModule(h.shader)
		h.shader = nil
	}
	if h.uniformBuf != nil {
		device.DestroyBuffer(h.uniformBuf)
		h.uniformBuf = nil
	}
	if h.freqBuf != nil {
		device.DestroyBuffer(h.freqBuf)
		h.freqBuf = nil
	}
	h.Chart.Destroy()
}

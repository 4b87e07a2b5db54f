package chart

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gogpu/chart/internal/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default chart layout, in pixels.
const (
	DefaultLeftMargin   = 68
	DefaultRightMargin  = 8
	DefaultTopMargin    = 8
	DefaultBottomMargin = 32
	DefaultTickSize     = 10
	DefaultTickCount    = 5
)

// axesUniformSize is the byte size of the axes uniform block:
// color (vec4<f32>) = 16 bytes.
const axesUniformSize = 16

// rectVertices is the shared unit rectangle. The first four vertices form a
// triangle strip covering the rectangle; the last five trace its closed
// outline as a line strip.
var rectVertices = []float32{
	0, 0, 1, 0, 0, 1, 1, 1, // fill strip
	0, 0, 1, 0, 1, 1, 0, 1, 0, 0, // outline strip
}

// Offsets and counts into rectVertices, in vertices.
const (
	rectFillFirst    = 0
	rectFillCount    = 4
	rectOutlineFirst = 4
	rectOutlineCount = 5
)

// Margins describes the space around a chart's plot area, in pixels. Tick
// is the length of the tick marks, which sit between the left and bottom
// margins and the plot area.
type Margins struct {
	Left, Right, Top, Bottom int
	Tick                     int
}

// DefaultMargins returns the default chart margins.
func DefaultMargins() Margins {
	return Margins{
		Left:   DefaultLeftMargin,
		Right:  DefaultRightMargin,
		Top:    DefaultTopMargin,
		Bottom: DefaultBottomMargin,
		Tick:   DefaultTickSize,
	}
}

// Rect is an integer rectangle with a top-left origin.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Tick is one axis tick mark.
type Tick struct {
	// Pos is the tick position in viewport pixels along its axis
	// (x for the horizontal axis, y for the vertical axis, y growing down).
	Pos float32

	// Value is the data value at the tick.
	Value float32

	// Label is Value formatted for display.
	Label string
}

// Chart is the base shared by the concrete chart types. It owns the layout
// (margins, tick marks, axis limits), the shared unit rectangle geometry
// and the pipeline that draws the plot frame and ticks.
type Chart struct {
	ctx *Context

	margins   Margins
	tickCount int
	xmin      float32
	xmax      float32
	ymin      float32
	ymax      float32
	xTitle    string
	yTitle    string
	axesColor RGBA

	rectBuf hal.Buffer

	axesShader     hal.ShaderModule
	axesLayout     hal.BindGroupLayout
	axesPipeLayout hal.PipelineLayout
	axesPipeline   hal.RenderPipeline
	axesUniform    hal.Buffer
	axesBind       hal.BindGroup
	axesVerts      hal.Buffer
	axesVertCap    uint32

	// Size and tick count the axes vertex buffer was last filled for.
	axesKey [3]int

	destroyed bool
}

// newChart creates the chart base and its GPU resources.
func newChart(ctx *Context) (*Chart, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	c := &Chart{
		ctx:       ctx,
		margins:   DefaultMargins(),
		tickCount: DefaultTickCount,
		xmin:      0,
		xmax:      1,
		ymin:      0,
		ymax:      1,
		axesColor: Black,
	}
	if err := c.createResources(); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Chart) createResources() error {
	rectBuf, err := gpu.CreateAndUploadBuffer(c.ctx.device, c.ctx.queue, "chart_rect_vertices",
		gpu.Float32sToBytes(rectVertices), gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	c.rectBuf = rectBuf

	shader, err := c.ctx.createShader("chart_axes_shader", axesShaderSource)
	if err != nil {
		return err
	}
	c.axesShader = shader

	layout, err := c.ctx.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "chart_axes_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create axes uniform layout: %w", err)
	}
	c.axesLayout = layout

	pipeLayout, err := c.ctx.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "chart_axes_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.axesLayout},
	})
	if err != nil {
		return fmt.Errorf("create axes pipeline layout: %w", err)
	}
	c.axesPipeLayout = pipeLayout

	c.axesPipeline, err = c.ctx.createPipeline(pipelineDesc{
		label:    "chart_axes_pipeline",
		layout:   c.axesPipeLayout,
		shader:   c.axesShader,
		fragment: "fs_main",
		topology: gputypes.PrimitiveTopologyLineList,
	})
	if err != nil {
		return err
	}

	c.axesUniform, err = c.ctx.createUniformBuffer("chart_axes_uniforms", axesUniformSize)
	if err != nil {
		return err
	}

	bind, err := c.ctx.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "chart_axes_bind",
		Layout: c.axesLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: c.axesUniform.NativeHandle(), Offset: 0, Size: axesUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create axes bind group: %w", err)
	}
	c.axesBind = bind

	return c.ensureAxesCapacity(axesVertexCount(c.tickCount))
}

// ensureAxesCapacity grows the axes vertex buffer to hold n vertices.
func (c *Chart) ensureAxesCapacity(n uint32) error {
	if c.axesVerts != nil && n <= c.axesVertCap {
		return nil
	}
	buf, _, err := gpu.CreateBuffer(c.ctx.device, "chart_axes_vertices",
		uint64(n)*pointVertexStride, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	if c.axesVerts != nil {
		c.ctx.device.DestroyBuffer(c.axesVerts)
	}
	c.axesVerts = buf
	c.axesVertCap = n
	c.axesKey = [3]int{}
	return nil
}

// Context returns the context the chart was created with.
func (c *Chart) Context() *Context { return c.ctx }

// LeftMargin returns the left margin in pixels.
func (c *Chart) LeftMargin() int { return c.margins.Left }

// RightMargin returns the right margin in pixels.
func (c *Chart) RightMargin() int { return c.margins.Right }

// TopMargin returns the top margin in pixels.
func (c *Chart) TopMargin() int { return c.margins.Top }

// BottomMargin returns the bottom margin in pixels.
func (c *Chart) BottomMargin() int { return c.margins.Bottom }

// TickSize returns the tick mark length in pixels.
func (c *Chart) TickSize() int { return c.margins.Tick }

// TickCount returns the number of tick intervals per axis.
func (c *Chart) TickCount() int { return c.tickCount }

// Margins returns the current margins.
func (c *Chart) Margins() Margins { return c.margins }

// SetMargins replaces the chart margins and tick size.
func (c *Chart) SetMargins(m Margins) error {
	if m.Left < 0 || m.Right < 0 || m.Top < 0 || m.Bottom < 0 || m.Tick < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidMargins, m)
	}
	c.margins = m
	c.axesKey = [3]int{}
	return nil
}

// SetTickCount sets the number of tick intervals per axis. Each axis gets
// n+1 tick marks.
func (c *Chart) SetTickCount(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: tick count %d", ErrInvalidMargins, n)
	}
	c.tickCount = n
	return nil
}

// SetAxesLimits sets the data range shown on each axis.
func (c *Chart) SetAxesLimits(xmin, xmax, ymin, ymax float32) error {
	if !(xmax > xmin) || !(ymax > ymin) {
		return fmt.Errorf("%w: x [%g, %g], y [%g, %g]", ErrInvalidLimits, xmin, xmax, ymin, ymax)
	}
	c.xmin, c.xmax, c.ymin, c.ymax = xmin, xmax, ymin, ymax
	return nil
}

// XMin returns the lower x axis limit.
func (c *Chart) XMin() float32 { return c.xmin }

// XMax returns the upper x axis limit.
func (c *Chart) XMax() float32 { return c.xmax }

// YMin returns the lower y axis limit.
func (c *Chart) YMin() float32 { return c.ymin }

// YMax returns the upper y axis limit.
func (c *Chart) YMax() float32 { return c.ymax }

// SetXAxisTitle sets the horizontal axis title.
func (c *Chart) SetXAxisTitle(title string) { c.xTitle = title }

// SetYAxisTitle sets the vertical axis title.
func (c *Chart) SetYAxisTitle(title string) { c.yTitle = title }

// XAxisTitle returns the horizontal axis title.
func (c *Chart) XAxisTitle() string { return c.xTitle }

// YAxisTitle returns the vertical axis title.
func (c *Chart) YAxisTitle() string { return c.yTitle }

// SetAxesColor sets the color of the plot frame and tick marks.
func (c *Chart) SetAxesColor(color RGBA) { c.axesColor = color }

// AxesColor returns the color of the plot frame and tick marks.
func (c *Chart) AxesColor() RGBA { return c.axesColor }

// RectangleBuffer returns the shared unit rectangle vertex buffer.
func (c *Chart) RectangleBuffer() hal.Buffer { return c.rectBuf }

// PlotArea returns the plot rectangle inside a viewport of the given size,
// in viewport pixels with a top-left origin.
func (c *Chart) PlotArea(width, height int) Rect {
	m := c.margins
	return Rect{
		X:      m.Left + m.Tick,
		Y:      m.Top,
		Width:  width - (m.Left + m.Right + m.Tick),
		Height: height - (m.Bottom + m.Top + m.Tick),
	}
}

// PlotTransform returns the matrix mapping [-1, 1]² onto the plot area, in
// the NDC of a viewport of the given size.
func (c *Chart) PlotTransform(width, height int) Mat4 {
	if width <= 0 || height <= 0 {
		return Identity4()
	}
	m := c.margins
	w := float32(width)
	h := float32(height)
	r := c.PlotArea(width, height)

	sx := float32(r.Width) / w
	sy := float32(r.Height) / h
	ox := -1 + 2*float32(m.Left+m.Tick)/w + sx
	oy := -1 + 2*float32(m.Bottom+m.Tick)/h + sy
	return Translate4(ox, oy).Multiply(Scale4(sx, sy))
}

// Ticks returns the tick marks of both axes for a viewport of the given
// size. Each axis has TickCount()+1 ticks spaced evenly over its limits.
func (c *Chart) Ticks(width, height int) (x, y []Tick) {
	r := c.PlotArea(width, height)
	n := c.tickCount
	p := message.NewPrinter(language.English)

	xstep := (c.xmax - c.xmin) / float32(n)
	ystep := (c.ymax - c.ymin) / float32(n)
	xprec := labelPrecision(xstep)
	yprec := labelPrecision(ystep)

	x = make([]Tick, n+1)
	y = make([]Tick, n+1)
	for i := 0; i <= n; i++ {
		f := float32(i) / float32(n)

		xv := c.xmin + float32(i)*xstep
		x[i] = Tick{
			Pos:   float32(r.X) + f*float32(r.Width),
			Value: xv,
			Label: p.Sprintf("%.*f", xprec, xv),
		}

		yv := c.ymin + float32(i)*ystep
		y[i] = Tick{
			Pos:   float32(r.Y+r.Height) - f*float32(r.Height),
			Value: yv,
			Label: p.Sprintf("%.*f", yprec, yv),
		}
	}
	return x, y
}

// labelPrecision returns the number of decimals needed to print multiples
// of step without visible rounding, capped at 6.
func labelPrecision(step float32) int {
	step = math32.Abs(step)
	prec := 0
	for prec < 6 {
		scaled := step * math32.Pow(10, float32(prec))
		if r := math32.Floor(scaled + 0.5); r >= 1 && math32.Abs(scaled-r) < 1e-3*scaled {
			break
		}
		prec++
	}
	return prec
}

// axesVertexCount returns the number of line-list vertices the frame and
// ticks need: four frame edges plus n+1 ticks on each axis, two vertices
// per line.
func axesVertexCount(n int) uint32 {
	return uint32(2 * (4 + 2*(n+1))) //nolint:gosec // tick count is small
}

// axesVertices returns the frame and tick lines of a viewport of the given
// size as NDC line-list vertices.
func (c *Chart) axesVertices(width, height int) []float32 {
	r := c.PlotArea(width, height)
	w := float32(width)
	h := float32(height)
	ndc := func(px, py float32) (float32, float32) {
		return 2*px/w - 1, 1 - 2*py/h
	}

	left := float32(r.X)
	top := float32(r.Y)
	right := float32(r.X + r.Width)
	bottom := float32(r.Y + r.Height)
	tick := float32(c.margins.Tick)

	verts := make([]float32, 0, 2*axesVertexCount(c.tickCount))
	line := func(x0, y0, x1, y1 float32) {
		ax, ay := ndc(x0, y0)
		bx, by := ndc(x1, y1)
		verts = append(verts, ax, ay, bx, by)
	}

	line(left, top, right, top)
	line(right, top, right, bottom)
	line(right, bottom, left, bottom)
	line(left, bottom, left, top)

	xt, yt := c.Ticks(width, height)
	for _, t := range xt {
		line(t.Pos, bottom, t.Pos, bottom+tick)
	}
	for _, t := range yt {
		line(left-tick, t.Pos, left, t.Pos)
	}
	return verts
}

// renderChart draws the plot frame and tick marks into the viewport at
// (x, y) of the given size. The viewport and scissor are set to that
// rectangle.
func (c *Chart) renderChart(rp hal.RenderPassEncoder, x, y, width, height int) {
	if c.destroyed || width <= 0 || height <= 0 || c.PlotArea(width, height).Empty() {
		return
	}
	if err := c.ensureAxesCapacity(axesVertexCount(c.tickCount)); err != nil {
		c.ctx.log().Warn("chart: axes buffer unavailable", "err", err)
		return
	}

	key := [3]int{width, height, c.tickCount}
	if key != c.axesKey {
		if err := c.ctx.queue.WriteBuffer(c.axesVerts, 0, gpu.Float32sToBytes(c.axesVertices(width, height))); err != nil {
			c.ctx.log().Warn("chart: axes vertex upload failed", "err", err)
			return
		}
		c.axesKey = key
	}
	color := c.axesColor.vec4()
	if err := c.ctx.queue.WriteBuffer(c.axesUniform, 0, gpu.Float32sToBytes(color[:])); err != nil {
		c.ctx.log().Warn("chart: axes uniform upload failed", "err", err)
		return
	}

	setViewport(rp, x, y, width, height)
	rp.SetPipeline(c.axesPipeline)
	rp.SetBindGroup(0, c.axesBind, nil)
	rp.SetVertexBuffer(0, c.axesVerts, 0)
	rp.Draw(axesVertexCount(c.tickCount), 1, 0, 0)
}

// setViewport points the viewport and scissor at the given rectangle.
func setViewport(rp hal.RenderPassEncoder, x, y, width, height int) {
	rp.SetViewport(float32(x), float32(y), float32(width), float32(height), 0, 1)
	setScissor(rp, Rect{X: x, Y: y, Width: width, Height: height})
}

// setScissor clips to r. Negative origins are clamped to zero.
func setScissor(rp hal.RenderPassEncoder, r Rect) {
	if r.X < 0 {
		r.Width += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.Height += r.Y
		r.Y = 0
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	rp.SetScissorRect(uint32(r.X), uint32(r.Y), uint32(r.Width), uint32(r.Height)) //nolint:gosec // clamped above
}

// Destroy releases the chart's GPU resources. Safe to call multiple times.
func (c *Chart) Destroy() {
	if c.destroyed || c.ctx == nil {
		return
	}
	c.destroyed = true
	device := c.ctx.device
	if c.axesBind != nil {
		device.DestroyBindGroup(c.axesBind)
		c.axesBind = nil
	}
	if c.axesPipeline != nil {
		device.DestroyRenderPipeline(c.axesPipeline)
		c.axesPipeline = nil
	}
	if c.axesPipeLayout != nil {
		device.DestroyPipelineLayout(c.axesPipeLayout)
		c.axesPipeLayout = nil
	}
	if c.axesLayout != nil {
		device.DestroyBindGroupLayout(c.axesLayout)
		c.axesLayout = nil
	}
	if c.axesShader != nil {
		device.DestroyShaderModule(c.axesShader)
		c.axesShader = nil
	}
	if c.axesUniform != nil {
		device.DestroyBuffer(c.axesUniform)
		c.axesUniform = nil
	}
	if c.axesVerts != nil {
		device.DestroyBuffer(c.axesVerts)
		c.axesVerts = nil
	}
	if c.rectBuf != nil {
		device.DestroyBuffer(c.rectBuf)
		c.rectBuf = nil
	}
}

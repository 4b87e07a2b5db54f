// Package chart draws GPU-accelerated charts on a WebGPU HAL device.
//
// # Overview
//
// A Histogram draws one vertical bar per bin from frequency data that lives
// in a GPU buffer. All bars are drawn with two instanced draws over a shared
// unit rectangle: bar corners are computed in the vertex shader from the
// instance index, the bin count and the chart's maximum Y value, so updating
// the data is a single buffer write.
//
// The layout shared by every chart type (margins, tick marks, axis limits,
// titles and the plot frame) lives in Chart, which Histogram embeds.
//
// # Quick Start
//
//	import "github.com/gogpu/chart"
//
//	ctx, err := chart.NewContext(device, queue)
//	if err != nil {
//	    return err
//	}
//
//	h, err := chart.NewHistogram(ctx, 32, chart.Float32)
//	if err != nil {
//	    return err
//	}
//	defer h.Destroy()
//
//	_ = h.SetAxesLimits(0, 32, 0, 100)
//	_ = chart.SetFrequencies(h, freqs) // []float32, len 32
//
//	// Inside a render pass targeting ctx.Format():
//	h.Render(rp, 0, 0, 800, 600)
//
// # Element Types
//
// Frequencies may be stored as Float32, Int32, Uint32 or Uint8. The type is
// fixed when the histogram is created; any other DataType yields a
// *TypeError.
//
// # Coordinate System
//
// Render takes the chart rectangle in render target pixels:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// Inside the plot area, data coordinates follow the axis limits with Y
// increasing up.
//
// # Offscreen Rendering
//
// Target renders into an offscreen texture and reads it back as an
// *image.RGBA. DrawLabels overlays tick labels and axis titles on such an
// image.
package chart

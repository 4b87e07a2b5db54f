package chart

import (
	"log/slog"

	"github.com/gogpu/gputypes"
)

// Option configures a Context during creation.
// Use functional options to customize Context behavior.
//
// Example:
//
//	// Defaults: BGRA8Unorm target, no MSAA, no validation
//	ctx, err := chart.NewContext(device, queue)
//
//	// Render into an RGBA surface with 4x MSAA and shader validation
//	ctx, err := chart.NewContext(device, queue,
//	    chart.WithFormat(gputypes.TextureFormatRGBA8Unorm),
//	    chart.WithSampleCount(4),
//	    chart.WithDebug(true))
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	format      gputypes.TextureFormat
	sampleCount uint32
	debug       bool
	logger      *slog.Logger
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{
		format:      gputypes.TextureFormatBGRA8Unorm,
		sampleCount: 1,
		debug:       false,
		logger:      nil, // Falls back to Logger() if nil
	}
}

// WithFormat sets the color format of the render targets the charts will
// draw into. Pipelines are compiled for exactly this format.
func WithFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithSampleCount sets the MSAA sample count of the render targets.
// Values below 1 are treated as 1.
func WithSampleCount(n uint32) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.sampleCount = n
	}
}

// WithDebug enables debug checks: shaders are validated with naga before
// module creation and every draw logs its parameters at debug level.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithLogger sets a logger for one Context instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

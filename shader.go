package chart

import (
	_ "embed"
	"strings"
)

// Embedded WGSL shader sources.

//go:embed shaders/histogram.wgsl
var histogramShaderTemplate string

//go:embed shaders/axes.wgsl
var axesShaderSource string

// freqLoaders holds, per element type, the storage array element type and
// the body of load_freq. Storage buffers have no 8-bit element type, so
// Uint8 frequencies are read as packed little-endian u32 words.
var freqLoaders = map[DataType][2]string{
	Float32: {"f32", "return freqs[bin];"},
	Int32:   {"i32", "return f32(freqs[bin]);"},
	Uint32:  {"u32", "return f32(freqs[bin]);"},
	Uint8:   {"u32", "let word = freqs[bin / 4u];\n    return f32((word >> ((bin % 4u) * 8u)) & 0xffu);"},
}

// histogramShaderSource returns the bar shader specialized for t. ok is false
// for unsupported types.
func histogramShaderSource(t DataType) (src string, ok bool) {
	if !t.Valid() {
		return "", false
	}
	l := freqLoaders[t]
	r := strings.NewReplacer("{{ELEM}}", l[0], "{{LOAD}}", l[1])
	return r.Replace(histogramShaderTemplate), true
}

package chart

import (
	"strings"
	"testing"

	"github.com/gogpu/chart/internal/gpu"
)

func TestHistogramShaderVariantsCompile(t *testing.T) {
	for _, dt := range []DataType{Float32, Int32, Uint32, Uint8} {
		t.Run(dt.String(), func(t *testing.T) {
			src, ok := histogramShaderSource(dt)
			if !ok {
				t.Fatalf("histogramShaderSource(%v) not ok", dt)
			}
			if strings.Contains(src, "{{") {
				t.Fatal("template placeholders left in shader source")
			}
			for _, entry := range []string{"fn vs_main", "fn fs_fill", "fn fs_outline"} {
				if !strings.Contains(src, entry) {
					t.Errorf("shader missing %q", entry)
				}
			}
			if err := gpu.ValidateWGSL(src); err != nil {
				t.Errorf("naga rejected %v shader: %v", dt, err)
			}
		})
	}
}

func TestHistogramShaderElementTypes(t *testing.T) {
	tests := []struct {
		dt   DataType
		elem string
	}{
		{Float32, "array<f32>"},
		{Int32, "array<i32>"},
		{Uint32, "array<u32>"},
		// Storage buffers have no 8-bit elements; bytes are unpacked from words.
		{Uint8, "array<u32>"},
	}
	for _, tt := range tests {
		src, _ := histogramShaderSource(tt.dt)
		if !strings.Contains(src, tt.elem) {
			t.Errorf("%v shader does not declare %s", tt.dt, tt.elem)
		}
	}
}

func TestHistogramShaderUnsupported(t *testing.T) {
	if _, ok := histogramShaderSource(DataType(0x1402)); ok {
		t.Error("histogramShaderSource accepted an unsupported type")
	}
}

func TestAxesShaderCompiles(t *testing.T) {
	if err := gpu.ValidateWGSL(axesShaderSource); err != nil {
		t.Errorf("naga rejected axes shader: %v", err)
	}
}

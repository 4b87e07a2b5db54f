package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// ErrEmptyShader is returned when a shader source is empty.
var ErrEmptyShader = errors.New("gpu: shader source is empty")

// ValidateWGSL runs the WGSL source through the naga front end and SPIR-V
// back end. A nil error means every stage of the translation succeeded.
func ValidateWGSL(source string) error {
	if source == "" {
		return ErrEmptyShader
	}
	if _, err := naga.Compile(source); err != nil {
		return fmt.Errorf("validate shader: %w", err)
	}
	return nil
}

// CompileShader creates a shader module from WGSL source. When validate is
// set the source is first checked with naga so that shader errors surface
// with a parser diagnostic instead of a driver failure.
func CompileShader(device hal.Device, label, source string, validate bool) (hal.ShaderModule, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	if source == "" {
		return nil, fmt.Errorf("%s: %w", label, ErrEmptyShader)
	}
	if validate {
		if err := ValidateWGSL(source); err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		slogger().Debug("shader validated", "label", label, "bytes", len(source))
	}
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	return shader, nil
}

package chart

import (
	"fmt"

	"github.com/gogpu/chart/internal/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pointVertexStride is the byte stride of a vertex holding a single
// vec2<f32> position (location 0).
const pointVertexStride = 8

// pointVertexLayout returns the vertex buffer layout shared by every chart
// pipeline: one per-vertex float32x2 position at location 0.
func pointVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: pointVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // point
			},
		},
	}
}

// pipelineDesc is the part of a render pipeline that differs between the
// chart pipelines.
type pipelineDesc struct {
	label      string
	layout     hal.PipelineLayout
	shader     hal.ShaderModule
	fragment   string
	topology   gputypes.PrimitiveTopology
	vertexMain string
}

// createPipeline builds a render pipeline targeting the context's color
// format and sample count, with premultiplied alpha blending and no
// depth/stencil attachment.
func (c *Context) createPipeline(d pipelineDesc) (hal.RenderPipeline, error) {
	vertexMain := d.vertexMain
	if vertexMain == "" {
		vertexMain = "vs_main"
	}
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  d.label,
		Layout: d.layout,
		Vertex: hal.VertexState{
			Module:     d.shader,
			EntryPoint: vertexMain,
			Buffers:    pointVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     d.shader,
			EntryPoint: d.fragment,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    c.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: d.topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: c.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", d.label, err)
	}
	c.log().Debug("pipeline created", "label", d.label, "topology", d.topology, "samples", c.sampleCount)
	return pipeline, nil
}

// createUniformBuffer creates a uniform buffer of size bytes.
func (c *Context) createUniformBuffer(label string, size uint64) (hal.Buffer, error) {
	buf, _, err := gpu.CreateBuffer(c.device, label, size,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	return buf, err
}

// createShader compiles WGSL source, validating it first in debug mode.
func (c *Context) createShader(label, source string) (hal.ShaderModule, error) {
	return gpu.CompileShader(c.device, label, source, c.debug)
}

package chart

import (
	"fmt"
	"image"
	"time"
	"unsafe"

	"github.com/gogpu/chart/internal/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// targetWaitTimeout bounds how long Draw and Image wait for the GPU.
const (
	targetWaitTimeout  = 5 * time.Second
	targetPollInterval = 200 * time.Microsecond
)

// Target is an offscreen render target sized for one or more charts. It
// renders into a single-sample color texture in the context format,
// resolving from an MSAA texture when the context sample count is above 1,
// and can read the result back as an image.
type Target struct {
	ctx    *Context
	width  uint32
	height uint32

	colorTex  hal.Texture
	colorView hal.TextureView
	msaaTex   hal.Texture
	msaaView  hal.TextureView
}

// NewTarget creates an offscreen target of the given size in pixels.
func NewTarget(ctx *Context, width, height int) (*Target, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	switch ctx.format {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, ctx.format)
	}

	t := &Target{ctx: ctx, width: uint32(width), height: uint32(height)} //nolint:gosec // checked positive above
	if err := t.createTextures(); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

func (t *Target) createTextures() error {
	device := t.ctx.device
	size := hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1}

	colorTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "chart_target_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.ctx.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target color texture: %w", err)
	}
	t.colorTex = colorTex

	colorView, err := device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label: "chart_target_color_view",
	})
	if err != nil {
		return fmt.Errorf("create target color view: %w", err)
	}
	t.colorView = colorView

	if t.ctx.sampleCount <= 1 {
		return nil
	}

	msaaTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "chart_target_msaa",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   t.ctx.sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.ctx.format,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create target MSAA texture: %w", err)
	}
	t.msaaTex = msaaTex

	msaaView, err := device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
		Label: "chart_target_msaa_view",
	})
	if err != nil {
		return fmt.Errorf("create target MSAA view: %w", err)
	}
	t.msaaView = msaaView
	return nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return int(t.width) }

// Height returns the target height in pixels.
func (t *Target) Height() int { return int(t.height) }

// Draw clears the target to clear, calls draw with an open render pass, and
// submits the pass. It blocks until the GPU has finished.
func (t *Target) Draw(clear RGBA, draw func(rp hal.RenderPassEncoder)) error {
	if t.colorView == nil {
		return ErrDestroyed
	}
	device := t.ctx.device
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "chart_target_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("chart_target_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	attachment := hal.RenderPassColorAttachment{
		View:       t.colorView,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: gputypes.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A},
	}
	if t.msaaView != nil {
		attachment.View = t.msaaView
		attachment.ResolveTarget = t.colorView
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "chart_target_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{attachment},
	})
	if draw != nil {
		draw(rp)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)
	return t.submitAndWait(cmdBuf)
}

// Image copies the target contents back to the CPU as an RGBA image.
func (t *Target) Image() (*image.RGBA, error) {
	if t.colorTex == nil {
		return nil, ErrDestroyed
	}
	device := t.ctx.device
	w, h := t.width, t.height

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "chart_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("chart_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// WebGPU requires BytesPerRow aligned to 256 bytes.
	pitch := gpu.AlignedBytesPerRow(w)
	stagingSize := uint64(pitch) * uint64(h)
	stagingBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "chart_readback_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(stagingBuf)

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.colorTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)
	if err := t.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	readback, err := t.readStaging(stagingBuf, stagingSize)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	pixels := gpu.StripRowPadding(readback, w, h, pitch)
	if t.ctx.format == gputypes.TextureFormatBGRA8Unorm {
		gpu.ConvertBGRAToRGBA(pixels, img.Pix, int(w*h))
	} else {
		copy(img.Pix, pixels)
	}
	return img, nil
}

// readStaging maps the first size bytes of a finished staging buffer and
// copies them out.
func (t *Target) readStaging(buf hal.Buffer, size uint64) ([]byte, error) {
	device := t.ctx.device
	mapping, err := device.MapBuffer(buf, 0, size)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := device.UnmapBuffer(buf); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return out, nil
}

// submitAndWait submits cmdBuf and polls the queue until the submission has
// completed or targetWaitTimeout passes.
func (t *Target) submitAndWait(cmdBuf hal.CommandBuffer) error {
	queue := t.ctx.queue
	index, err := queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	deadline := time.Now().Add(targetWaitTimeout)
	for queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: submission %d", ErrGPUTimeout, index)
		}
		time.Sleep(targetPollInterval)
	}
	return nil
}

// Destroy releases the target textures. Safe to call multiple times.
func (t *Target) Destroy() {
	device := t.ctx.device
	if t.msaaView != nil {
		device.DestroyTextureView(t.msaaView)
		t.msaaView = nil
	}
	if t.msaaTex != nil {
		device.DestroyTexture(t.msaaTex)
		t.msaaTex = nil
	}
	if t.colorView != nil {
		device.DestroyTextureView(t.colorView)
		t.colorView = nil
	}
	if t.colorTex != nil {
		device.DestroyTexture(t.colorTex)
		t.colorTex = nil
	}
}

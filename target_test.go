package chart

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestNewTargetErrors(t *testing.T) {
	ctx := newTestContext(t)

	if _, err := NewTarget(nil, 10, 10); !errors.Is(err, ErrNilContext) {
		t.Errorf("nil context: %v, want ErrNilContext", err)
	}
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := NewTarget(ctx, size[0], size[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewTarget(%d, %d) = %v, want ErrInvalidDimensions", size[0], size[1], err)
		}
	}

	float := newTestContext(t, WithFormat(gputypes.TextureFormatRGBA16Float))
	if _, err := NewTarget(float, 10, 10); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("RGBA16Float target: %v, want ErrUnsupportedFormat", err)
	}
}

func TestTargetDrawAndImage(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"bgra", nil},
		{"rgba", []Option{WithFormat(gputypes.TextureFormatRGBA8Unorm)}},
		{"msaa", []Option{WithSampleCount(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(t, tt.opts...)
			target, err := NewTarget(ctx, 100, 50)
			if err != nil {
				t.Fatalf("NewTarget() = %v", err)
			}
			defer target.Destroy()

			if target.Width() != 100 || target.Height() != 50 {
				t.Errorf("size = %dx%d, want 100x50", target.Width(), target.Height())
			}
			if (target.msaaTex != nil) != (ctx.SampleCount() > 1) {
				t.Errorf("MSAA texture presence does not match sample count %d", ctx.SampleCount())
			}

			called := false
			if err := target.Draw(White, func(hal.RenderPassEncoder) { called = true }); err != nil {
				t.Fatalf("Draw() = %v", err)
			}
			if !called {
				t.Error("Draw did not call the draw function")
			}
			if err := target.Draw(Black, nil); err != nil {
				t.Errorf("Draw(nil) = %v", err)
			}

			img, err := target.Image()
			if err != nil {
				t.Fatalf("Image() = %v", err)
			}
			if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
				t.Errorf("image bounds = %v, want 100x50", b)
			}
		})
	}
}

func TestTargetDestroy(t *testing.T) {
	ctx := newTestContext(t)
	target, err := NewTarget(ctx, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	target.Destroy()
	target.Destroy()

	if err := target.Draw(White, nil); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Draw after Destroy = %v, want ErrDestroyed", err)
	}
	if _, err := target.Image(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Image after Destroy = %v, want ErrDestroyed", err)
	}
}

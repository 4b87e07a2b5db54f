package chart

import (
	"errors"
	"math"
	"testing"
)

func newTestChart(t *testing.T) *Chart {
	t.Helper()
	c, err := newChart(newTestContext(t))
	if err != nil {
		t.Fatalf("newChart() = %v", err)
	}
	t.Cleanup(c.Destroy)
	return c
}

func TestNewChartNilContext(t *testing.T) {
	if _, err := newChart(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("newChart(nil) = %v, want ErrNilContext", err)
	}
}

func TestChartDefaults(t *testing.T) {
	c := newTestChart(t)

	if c.LeftMargin() != 68 || c.RightMargin() != 8 || c.TopMargin() != 8 || c.BottomMargin() != 32 {
		t.Errorf("margins = %+v, want 68/8/8/32", c.Margins())
	}
	if c.TickSize() != 10 {
		t.Errorf("TickSize() = %d, want 10", c.TickSize())
	}
	if c.TickCount() != 5 {
		t.Errorf("TickCount() = %d, want 5", c.TickCount())
	}
	if c.XMin() != 0 || c.XMax() != 1 || c.YMin() != 0 || c.YMax() != 1 {
		t.Errorf("limits = [%v,%v]x[%v,%v], want [0,1]x[0,1]", c.XMin(), c.XMax(), c.YMin(), c.YMax())
	}
	if c.AxesColor() != Black {
		t.Errorf("AxesColor() = %+v, want black", c.AxesColor())
	}
	if c.RectangleBuffer() == nil {
		t.Error("RectangleBuffer() = nil")
	}
}

func TestRectVertices(t *testing.T) {
	if got := len(rectVertices) / 2; got != rectFillCount+rectOutlineCount {
		t.Fatalf("rect vertex count = %d, want %d", got, rectFillCount+rectOutlineCount)
	}
	// The outline must be closed.
	first := rectOutlineFirst * 2
	last := (rectOutlineFirst + rectOutlineCount - 1) * 2
	if rectVertices[first] != rectVertices[last] || rectVertices[first+1] != rectVertices[last+1] {
		t.Error("outline strip is not closed")
	}
	// Every vertex is a unit-square corner.
	for i, v := range rectVertices {
		if v != 0 && v != 1 {
			t.Errorf("rectVertices[%d] = %v, want 0 or 1", i, v)
		}
	}
}

func TestChartSetMargins(t *testing.T) {
	c := newTestChart(t)

	m := Margins{Left: 40, Right: 4, Top: 4, Bottom: 20, Tick: 6}
	if err := c.SetMargins(m); err != nil {
		t.Fatalf("SetMargins() = %v", err)
	}
	if c.Margins() != m {
		t.Errorf("Margins() = %+v, want %+v", c.Margins(), m)
	}

	bad := []Margins{
		{Left: -1},
		{Right: -1},
		{Top: -1},
		{Bottom: -1},
		{Tick: -1},
	}
	for _, b := range bad {
		if err := c.SetMargins(b); !errors.Is(err, ErrInvalidMargins) {
			t.Errorf("SetMargins(%+v) = %v, want ErrInvalidMargins", b, err)
		}
	}
	if c.Margins() != m {
		t.Error("rejected margins must not be applied")
	}
}

func TestChartSetTickCount(t *testing.T) {
	c := newTestChart(t)
	if err := c.SetTickCount(0); !errors.Is(err, ErrInvalidMargins) {
		t.Errorf("SetTickCount(0) = %v, want error", err)
	}
	if err := c.SetTickCount(8); err != nil {
		t.Fatalf("SetTickCount(8) = %v", err)
	}
	x, y := c.Ticks(800, 600)
	if len(x) != 9 || len(y) != 9 {
		t.Errorf("tick counts = %d, %d, want 9, 9", len(x), len(y))
	}
}

func TestChartSetAxesLimits(t *testing.T) {
	c := newTestChart(t)
	nan := float32(math.NaN())

	tests := []struct {
		name                   string
		xmin, xmax, ymin, ymax float32
		wantErr                bool
	}{
		{"valid", -4, 4, 0, 1000, false},
		{"empty x", 1, 1, 0, 1, true},
		{"inverted y", 0, 1, 5, 2, true},
		{"NaN", 0, nan, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SetAxesLimits(tt.xmin, tt.xmax, tt.ymin, tt.ymax)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLimits) {
					t.Errorf("SetAxesLimits() = %v, want ErrInvalidLimits", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetAxesLimits() = %v", err)
			}
			if c.XMin() != tt.xmin || c.XMax() != tt.xmax || c.YMin() != tt.ymin || c.YMax() != tt.ymax {
				t.Error("limits not stored")
			}
		})
	}
}

func TestChartTitles(t *testing.T) {
	c := newTestChart(t)
	c.SetXAxisTitle("bin")
	c.SetYAxisTitle("count")
	if c.XAxisTitle() != "bin" || c.YAxisTitle() != "count" {
		t.Errorf("titles = %q, %q", c.XAxisTitle(), c.YAxisTitle())
	}
}

func TestChartPlotArea(t *testing.T) {
	c := newTestChart(t)

	got := c.PlotArea(800, 600)
	want := Rect{X: 78, Y: 8, Width: 714, Height: 550}
	if got != want {
		t.Errorf("PlotArea(800, 600) = %+v, want %+v", got, want)
	}
	if !c.PlotArea(80, 40).Empty() {
		t.Error("PlotArea smaller than the margins should be empty")
	}
}

func TestChartPlotTransform(t *testing.T) {
	c := newTestChart(t)

	sizes := [][2]int{{800, 600}, {320, 240}, {1024, 200}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		m := c.PlotTransform(w, h)
		r := c.PlotArea(w, h)

		// Pixel edges of the plot area in viewport NDC (y up).
		left := 2*float32(r.X)/float32(w) - 1
		right := 2*float32(r.X+r.Width)/float32(w) - 1
		top := 1 - 2*float32(r.Y)/float32(h)
		bottom := 1 - 2*float32(r.Y+r.Height)/float32(h)

		x0, y0 := m.TransformPoint(-1, -1)
		x1, y1 := m.TransformPoint(1, 1)
		if !near(x0, left) || !near(y0, bottom) {
			t.Errorf("%dx%d: (-1,-1) -> (%v, %v), want (%v, %v)", w, h, x0, y0, left, bottom)
		}
		if !near(x1, right) || !near(y1, top) {
			t.Errorf("%dx%d: (1,1) -> (%v, %v), want (%v, %v)", w, h, x1, y1, right, top)
		}
	}

	if c.PlotTransform(0, 600) != Identity4() {
		t.Error("PlotTransform of an empty viewport should be the identity")
	}
}

func TestChartTicks(t *testing.T) {
	c := newTestChart(t)
	r := c.PlotArea(800, 600)

	x, y := c.Ticks(800, 600)
	wantLabels := []string{"0.0", "0.2", "0.4", "0.6", "0.8", "1.0"}
	for i, tk := range x {
		if tk.Label != wantLabels[i] {
			t.Errorf("x[%d].Label = %q, want %q", i, tk.Label, wantLabels[i])
		}
	}
	if x[0].Pos != float32(r.X) || x[5].Pos != float32(r.X+r.Width) {
		t.Errorf("x tick span = [%v, %v], want [%d, %d]", x[0].Pos, x[5].Pos, r.X, r.X+r.Width)
	}
	// y ticks run bottom to top.
	if y[0].Pos != float32(r.Y+r.Height) || y[5].Pos != float32(r.Y) {
		t.Errorf("y tick span = [%v, %v], want [%d, %d]", y[0].Pos, y[5].Pos, r.Y+r.Height, r.Y)
	}

	if err := c.SetAxesLimits(0, 10, 0, 5000); err != nil {
		t.Fatal(err)
	}
	x, y = c.Ticks(800, 600)
	if x[5].Label != "10" {
		t.Errorf("x[5].Label = %q, want %q", x[5].Label, "10")
	}
	if y[5].Label != "5,000" {
		t.Errorf("y[5].Label = %q, want %q", y[5].Label, "5,000")
	}
	if y[5].Value != 5000 {
		t.Errorf("y[5].Value = %v, want 5000", y[5].Value)
	}
}

func TestLabelPrecision(t *testing.T) {
	tests := []struct {
		step float32
		want int
	}{
		{1, 0},
		{200, 0},
		{0.5, 1},
		{0.2, 1},
		{0.25, 2},
		{0.001, 3},
		{0.125, 3},
		{0, 6},
	}
	for _, tt := range tests {
		if got := labelPrecision(tt.step); got != tt.want {
			t.Errorf("labelPrecision(%v) = %d, want %d", tt.step, got, tt.want)
		}
	}
}

func TestAxesVertices(t *testing.T) {
	c := newTestChart(t)

	for _, n := range []int{1, 5, 10} {
		if err := c.SetTickCount(n); err != nil {
			t.Fatal(err)
		}
		verts := c.axesVertices(800, 600)
		if got, want := uint32(len(verts)/2), axesVertexCount(n); got != want {
			t.Errorf("n=%d: %d vertices, want %d", n, got, want)
		}
		for i, v := range verts {
			if v < -1 || v > 1 {
				t.Errorf("n=%d: vertex component %d = %v outside NDC", n, i, v)
				break
			}
		}
	}
}

func TestChartDestroyIdempotent(t *testing.T) {
	c, err := newChart(newTestContext(t))
	if err != nil {
		t.Fatal(err)
	}
	c.Destroy()
	c.Destroy()
	if c.RectangleBuffer() != nil {
		t.Error("RectangleBuffer() should be nil after Destroy")
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

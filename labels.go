package chart

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelGap is the space between a tick mark and its label, in pixels.
const labelGap = 3

// DrawLabels draws the tick labels and axis titles of c onto img. (x, y,
// width, height) is the chart rectangle that was passed to Render, in img
// pixels.
//
// GPU rendering covers bars, frame and ticks only; DrawLabels is meant for
// images read back from a Target.
func DrawLabels(img draw.Image, c *Chart, x, y, width, height int) {
	if img == nil || c == nil || c.PlotArea(width, height).Empty() {
		return
	}
	face := basicfont.Face7x13
	src := image.NewUniform(c.axesColor.Color())
	d := &font.Drawer{Dst: img, Src: src, Face: face}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := metrics.Height.Ceil()

	r := c.PlotArea(width, height)
	tick := c.margins.Tick
	xt, yt := c.Ticks(width, height)

	// x labels: centered under each tick mark.
	baseline := y + r.Y + r.Height + tick + labelGap + ascent
	for _, t := range xt {
		adv := d.MeasureString(t.Label).Ceil()
		px := x + int(t.Pos) - adv/2
		d.Dot = fixed.P(px, baseline)
		d.DrawString(t.Label)
	}

	// y labels: right-aligned left of each tick mark, vertically centered.
	for _, t := range yt {
		adv := d.MeasureString(t.Label).Ceil()
		px := x + r.X - tick - labelGap - adv
		py := y + int(t.Pos) + ascent/2
		d.Dot = fixed.P(px, py)
		d.DrawString(t.Label)
	}

	if c.xTitle != "" {
		adv := d.MeasureString(c.xTitle).Ceil()
		px := x + r.X + (r.Width-adv)/2
		py := baseline + lineHeight
		d.Dot = fixed.P(px, py)
		d.DrawString(c.xTitle)
	}

	if c.yTitle != "" {
		drawVertical(img, d, c.yTitle, x+labelGap, y+r.Y+r.Height/2)
	}
}

// drawVertical draws s rotated 90° counter-clockwise, centered vertically
// on cy with its top edge at left.
func drawVertical(dst draw.Image, d *font.Drawer, s string, left, cy int) {
	adv := d.MeasureString(s).Ceil()
	lineHeight := d.Face.Metrics().Height.Ceil()
	if adv <= 0 || lineHeight <= 0 {
		return
	}

	tmp := image.NewRGBA(image.Rect(0, 0, adv, lineHeight))
	td := &font.Drawer{
		Dst:  tmp,
		Src:  d.Src,
		Face: d.Face,
		Dot:  fixed.P(0, d.Face.Metrics().Ascent.Ceil()),
	}
	td.DrawString(s)

	top := cy - adv/2
	for sy := 0; sy < lineHeight; sy++ {
		for sx := 0; sx < adv; sx++ {
			px := tmp.RGBAAt(sx, sy)
			if px.A == 0 {
				continue
			}
			// (sx, sy) -> (sy, adv-1-sx)
			draw.Draw(dst, image.Rect(left+sy, top+adv-1-sx, left+sy+1, top+adv-sx),
				image.NewUniform(px), image.Point{}, draw.Over)
		}
	}
}

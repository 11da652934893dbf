//go:build ebiten

package ui

import (
	"image/color"
	"math"
	"strconv"

	"meca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	historySamples = 512
	traceHeight    = 64
	traceMargin    = 8
)

var (
	densityTint = color.RGBA{R: 230, G: 60, B: 60, A: 220}
	valueTint   = color.RGBA{R: 40, G: 110, B: 230, A: 220}
	markerTint  = color.RGBA{R: 250, G: 200, B: 40, A: 200}
	traceShade  = color.RGBA{R: 255, G: 255, B: 255, A: 160}
)

// Overlay draws optional traces on top of the spacetime view. Key 1 toggles
// the density trace, 2 the normalized value trace and 3 the marker under
// the current generation.
type Overlay struct {
	sim         core.Sim
	scale       int
	showDensity bool
	showValue   bool
	showMarker  bool

	density *History
	value   *History
	lastT   int
	buf     []float64

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{
		sim:        sim,
		scale:      scale,
		showMarker: true,
		density:    NewHistory(historySamples),
		value:      NewHistory(historySamples),
		lastT:      -1,
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle keys and samples the current generation.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showDensity = !o.showDensity
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showValue = !o.showValue
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showMarker = !o.showMarker
	}
	o.sample()
}

// Reset drops the recorded traces.
func (o *Overlay) Reset() {
	o.density.Reset()
	o.value.Reset()
	o.lastT = -1
}

func (o *Overlay) sample() {
	provider, ok := o.sim.(core.ParameterProvider)
	if !ok {
		return
	}
	snap := provider.Parameters()
	t, ok := lookupFloat(snap, "t")
	if !ok {
		return
	}
	gen := int(t)
	if gen < o.lastT {
		o.Reset()
	}
	if gen == o.lastT {
		return
	}
	o.lastT = gen
	if d, ok := lookupFloat(snap, "density"); ok {
		o.density.Push(d)
	}
	v, okV := lookupFloat(snap, "value")
	w, okW := lookupFloat(snap, "w")
	if okV && okW && w > 0 {
		o.value.Push(v / w)
	}
}

func lookupFloat(s core.ParameterSnapshot, key string) (float64, bool) {
	p, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(p.Value, 64)
	return f, err == nil
}

// Draw paints the enabled traces over the spacetime view.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o == nil || o.sim == nil {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	size := o.sim.Size()
	viewW := float64(size.W * scale)
	if o.showMarker {
		o.drawLine(screen, 0, float64(scale)/2, viewW, float64(scale)/2, math.Max(1, float64(scale)/2), markerTint)
	}
	if !o.showDensity && !o.showValue {
		return
	}
	w := size.W*scale - 2*traceMargin
	top := float64(size.H*scale - traceHeight - traceMargin)
	if w <= 0 || top < 0 {
		return
	}
	o.drawRect(screen, traceMargin, top, float64(w), traceHeight, traceShade)
	if o.showDensity {
		o.drawTrace(screen, o.density, w, top, densityTint)
	}
	if o.showValue {
		o.drawTrace(screen, o.value, w, top, valueTint)
	}
}

func (o *Overlay) drawTrace(screen *ebiten.Image, h *History, w int, top float64, col color.RGBA) {
	o.buf = h.Values(o.buf[:0])
	pts := sparkline(o.buf, w, traceHeight)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		o.drawLine(screen,
			float64(traceMargin+a.X), top+float64(a.Y),
			float64(traceMargin+b.X), top+float64(b.Y),
			1.5, col)
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

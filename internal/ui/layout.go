package ui

import (
	"image"
	"math"
	"strconv"
	"strings"
	"unicode"

	"meca/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 36
	infoLineHeight = 16
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
)

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

// panelTitle capitalizes the sim name for the HUD header.
func panelTitle(name string) string {
	if name == "" {
		return "Controls"
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + " Controls"
}

// formatFloat picks a precision from the control step, falling back to the
// shortest representation for read-only values.
func formatFloat(step, value float64) string {
	switch {
	case step <= 0:
		s := strconv.FormatFloat(value, 'f', 4, 64)
		s = strings.TrimRight(s, "0")
		return strings.TrimSuffix(s, ".")
	case step < 0.001:
		return strconv.FormatFloat(value, 'f', 4, 64)
	case step < 0.01:
		return strconv.FormatFloat(value, 'f', 3, 64)
	case step < 0.1:
		return strconv.FormatFloat(value, 'f', 2, 64)
	default:
		return strconv.FormatFloat(value, 'f', 1, 64)
	}
}

// infoKeys lists the read-only values shown under the controls.
var infoKeys = []string{"t", "ones", "density", "value", "sensitivity", "policy", "boundary", "pattern"}

// nextInt applies one step of ctrl in direction dir, clamped to the bounds.
// ok is false when the value would not change.
func nextInt(ctrl core.ParameterControl, cur, dir int) (int, bool) {
	step := int(math.Round(ctrl.Step))
	if step <= 0 {
		step = 1
	}
	target := cur + dir*step
	if ctrl.HasMin {
		target = max(target, int(math.Round(ctrl.Min)))
	}
	if ctrl.HasMax {
		target = min(target, int(math.Round(ctrl.Max)))
	}
	return target, target != cur
}

// nextFloat is nextInt for float controls, with a default step of 0.05.
func nextFloat(ctrl core.ParameterControl, cur float64, dir int) (float64, bool) {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	target := cur + float64(dir)*step
	if ctrl.HasMin && target < ctrl.Min {
		target = ctrl.Min
	}
	if ctrl.HasMax && target > ctrl.Max {
		target = ctrl.Max
	}
	return target, math.Abs(target-cur) >= 1e-9
}

// infoLines renders the read-only snapshot values as "Label: value".
func infoLines(s core.ParameterSnapshot) []string {
	var out []string
	for _, key := range infoKeys {
		p, ok := s.Lookup(key)
		if !ok {
			continue
		}
		v := p.Value
		if p.Type == core.ParamTypeFloat {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				v = formatFloat(0, f)
			}
		}
		out = append(out, p.Label+": "+v)
	}
	return out
}

// History is a fixed-capacity ring of samples, oldest first.
type History struct {
	buf   []float64
	start int
	n     int
}

// NewHistory allocates room for capacity samples.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]float64, capacity)}
}

// Push appends v, dropping the oldest sample when full.
func (h *History) Push(v float64) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = v
		h.n++
		return
	}
	h.buf[h.start] = v
	h.start = (h.start + 1) % len(h.buf)
}

// Len reports the number of stored samples.
func (h *History) Len() int { return h.n }

// Reset drops every sample.
func (h *History) Reset() { h.start, h.n = 0, 0 }

// Values appends the samples to dst, oldest first.
func (h *History) Values(dst []float64) []float64 {
	for i := 0; i < h.n; i++ {
		dst = append(dst, h.buf[(h.start+i)%len(h.buf)])
	}
	return dst
}

// sparkline maps samples in [0,1] onto a w by h box: x spreads the samples
// evenly, y = 0 is the top so 1 plots at the top edge.
func sparkline(values []float64, w, h int) []image.Point {
	if len(values) == 0 || w <= 0 || h <= 0 {
		return nil
	}
	pts := make([]image.Point, len(values))
	span := len(values) - 1
	for i, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		x := 0
		if span > 0 {
			x = i * (w - 1) / span
		}
		pts[i] = image.Pt(x, int((1-v)*float64(h-1)+0.5))
	}
	return pts
}

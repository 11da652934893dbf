package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultCellSize is the pixel size of one cell in a spacetime image.
const DefaultCellSize = 4

const titleHeight = 16

// Panel line colors.
var (
	ValueColor      = color.RGBA{R: 255, A: 255}
	OnesColor       = color.RGBA{B: 255, A: 255}
	ValueDeltaColor = color.RGBA{R: 255, G: 200, A: 255}
	OnesDeltaColor  = color.RGBA{G: 255, B: 255, A: 255}
)

// SpacetimeOptions sizes a spacetime diagram.
type SpacetimeOptions struct {
	Cells    int
	Steps    int
	CellSize int
	// Panel widens the image by a quarter to plot value, ones and their
	// step-to-step changes next to the lattice.
	Panel bool
	// Title, when set, is written in a strip above the first generation.
	Title string
}

// Spacetime paints one lattice generation per row, time running downwards.
type Spacetime struct {
	opts   SpacetimeOptions
	img    *image.RGBA
	line   *image.RGBA
	gc     *drawing.RasterGraphicContext
	top    int
	panelX float64

	prev struct {
		ok                    bool
		t                     int
		value, ones           float64
		valueDelta, onesDelta float64
	}
}

// NewSpacetime allocates a white canvas of cellSize*(cells+1) by
// cellSize*(steps+1) pixels, plus the panel and title strip when requested.
func NewSpacetime(opts SpacetimeOptions) (*Spacetime, error) {
	if opts.Cells <= 0 || opts.Steps < 0 {
		return nil, errors.New("render: spacetime needs a positive cell count")
	}
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	cs := opts.CellSize
	w := cs * (opts.Cells + 1)
	if opts.Panel {
		w = int(float64(w) * 1.25)
	}
	top := 0
	if opts.Title != "" {
		top = titleHeight
	}
	h := top + cs*(opts.Steps+1)

	s := &Spacetime{
		opts:   opts,
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		line:   image.NewRGBA(image.Rect(0, 0, opts.Cells, 1)),
		top:    top,
		panelX: float64(cs * (opts.Cells + 1)),
	}
	draw.Draw(s.img, s.img.Bounds(), image.White, image.Point{}, draw.Src)
	if opts.Title != "" {
		d := font.Drawer{
			Dst:  s.img,
			Src:  image.Black,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(2, 12),
		}
		d.DrawString(opts.Title)
	}
	if opts.Panel {
		gc, err := drawing.NewRasterGraphicContext(s.img)
		if err != nil {
			return nil, err
		}
		gc.SetLineWidth(1)
		s.gc = gc
	}
	return s, nil
}

// Image returns the canvas.
func (s *Spacetime) Image() *image.RGBA { return s.img }

// Bounds returns the rectangle occupied by generation t.
func (s *Spacetime) Bounds(t int) image.Rectangle {
	cs := s.opts.CellSize
	y := s.top + t*cs
	return image.Rect(0, y, s.opts.Cells*cs, y+cs)
}

// AddRow paints generation t, one color per cell. Rows outside the canvas
// are ignored.
func (s *Spacetime) AddRow(t int, colors []color.RGBA) {
	if t < 0 || t > s.opts.Steps || len(colors) != s.opts.Cells {
		return
	}
	fillColorsRGBA(s.line.Pix, colors)
	xdraw.NearestNeighbor.Scale(s.img, s.Bounds(t), s.line, s.line.Bounds(), draw.Src, nil)
}

// AddStats plots value and ones for generation t, and from the second sample
// on their absolute change, as segments joined to the previous generation.
func (s *Spacetime) AddStats(t int, value float64, ones int) {
	if s.gc == nil {
		return
	}
	o := float64(ones)
	valueDelta := math.Abs(value - s.prev.value)
	onesDelta := math.Abs(o - s.prev.ones)
	if s.prev.ok {
		s.segment(ValueColor, s.prev.t, s.prev.value, t, value)
		s.segment(OnesColor, s.prev.t, s.prev.ones, t, o)
		if s.prev.t > 0 {
			s.segment(ValueDeltaColor, s.prev.t, s.prev.valueDelta, t, valueDelta)
			s.segment(OnesDeltaColor, s.prev.t, s.prev.onesDelta, t, onesDelta)
		}
	}
	s.prev.ok = true
	s.prev.t = t
	s.prev.value, s.prev.ones = value, o
	s.prev.valueDelta, s.prev.onesDelta = valueDelta, onesDelta
}

func (s *Spacetime) segment(c color.RGBA, t0 int, v0 float64, t1 int, v1 float64) {
	cs := float64(s.opts.CellSize)
	maxX := float64(s.img.Bounds().Dx() - 1)
	x := func(v float64) float64 { return math.Min(s.panelX+v*cs/4, maxX) }
	y := func(t int) float64 { return float64(s.top) + float64(t)*cs }

	s.gc.BeginPath()
	s.gc.SetStrokeColor(c)
	s.gc.MoveTo(x(v0), y(t0))
	s.gc.LineTo(x(v1), y(t1))
	s.gc.Stroke()
}

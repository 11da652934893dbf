package meca

import (
	"image/color"
	"math"
	"strings"
)

// ColorScheme selects how a generation is painted.
type ColorScheme uint8

const (
	// SchemeBlackWhite paints true cells black on white.
	SchemeBlackWhite ColorScheme = iota
	// SchemeOmega shades every cell by its memory intensity.
	SchemeOmega
	// SchemeActivation colors true cells by the inputs that produced them.
	SchemeActivation
)

// ParseColorScheme accepts the scheme names used on the command line.
func ParseColorScheme(s string) (ColorScheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "black-white", "bw", "none":
		return SchemeBlackWhite, nil
	case "omega", "omega-color":
		return SchemeOmega, nil
	case "activation", "activation-color":
		return SchemeActivation, nil
	}
	return 0, configErr("color scheme", s, "valid values are black-white, omega, activation")
}

func (s ColorScheme) String() string {
	switch s {
	case SchemeOmega:
		return "omega"
	case SchemeActivation:
		return "activation"
	default:
		return "black-white"
	}
}

var (
	colorWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorBlack = color.RGBA{A: 255}
	colorGreen = color.RGBA{G: 255, A: 255}
	colorRed   = color.RGBA{R: 255, A: 255}
	colorBlue  = color.RGBA{B: 255, A: 255}
)

// OmegaColor shades a cell from its state and intensity c: true cells are
// gray 1-c, false cells fade from white to yellow as c grows.
func OmegaColor(state bool, c float64) color.RGBA {
	inv := uint8(math.Round((1 - c) * 255))
	if state {
		return color.RGBA{R: inv, G: inv, B: inv, A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: inv, A: 255}
}

// ActivationColor classifies a true cell by the predecessor inputs that fed
// the rule: both true black, only the neighbor green, only self red,
// neither blue.
func ActivationColor(self, neighbor bool) color.RGBA {
	switch {
	case self && neighbor:
		return colorBlack
	case neighbor:
		return colorGreen
	case self:
		return colorRed
	default:
		return colorBlue
	}
}

// Colors appends one color per cell to dst. SchemeActivation classifies a
// true cell by the inputs it read at its last update, so in-place policies
// see partially updated neighbors and cells skipped by a step keep their
// class. Cells never updated paint black.
func (r *Row) Colors(scheme ColorScheme, dst []color.RGBA) []color.RGBA {
	for i, c := range r.cells {
		switch scheme {
		case SchemeOmega:
			dst = append(dst, OmegaColor(c.state, c.Intensity()))
		case SchemeActivation:
			self, neighbor, ok := r.Inputs(i)
			switch {
			case !c.state:
				dst = append(dst, colorWhite)
			case !ok:
				dst = append(dst, colorBlack)
			default:
				dst = append(dst, ActivationColor(self, neighbor))
			}
		default:
			if c.state {
				dst = append(dst, colorBlack)
			} else {
				dst = append(dst, colorWhite)
			}
		}
	}
	return dst
}

const (
	displayStateBit      = 0x80
	displayIntensityMask = 0x7f
)

// encodeDisplay packs a cell into a palette index: the high bit is the state
// and the low seven bits the quantized intensity.
func encodeDisplay(c Cell) uint8 {
	v := uint8(math.Round(c.Intensity() * displayIntensityMask))
	if c.state {
		v |= displayStateBit
	}
	return v
}

var (
	omegaPalette      = buildOmegaPalette()
	blackWhitePalette = buildBlackWhitePalette()
)

// Palette maps the display values exposed by Automaton.Cells to colors.
func Palette() []color.RGBA {
	return omegaPalette
}

// BlackWhitePalette ignores the intensity bits and paints true cells black.
func BlackWhitePalette() []color.RGBA {
	return blackWhitePalette
}

func buildBlackWhitePalette() []color.RGBA {
	palette := make([]color.RGBA, 256)
	for i := range palette {
		if i&displayStateBit != 0 {
			palette[i] = colorBlack
		} else {
			palette[i] = colorWhite
		}
	}
	return palette
}

func buildOmegaPalette() []color.RGBA {
	palette := make([]color.RGBA, 256)
	for i := range palette {
		state := i&displayStateBit != 0
		c := float64(i&displayIntensityMask) / displayIntensityMask
		palette[i] = OmegaColor(state, c)
	}
	return palette
}

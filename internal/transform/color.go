package transform

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// Modulation holds multipliers where 1 leaves the channel unchanged.
type Modulation struct {
	Brightness float64
	Saturation float64
	Contrast   float64
}

func (m Modulation) identity() bool {
	return m.Brightness == 1 && m.Saturation == 1 && m.Contrast == 1
}

// Apply runs brightness, saturation then contrast in a single pixel pass.
func (m Modulation) Apply(img image.Image) *image.NRGBA {
	if m.identity() {
		return imaging.Clone(img)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)

		r, g, b = r*m.Brightness, g*m.Brightness, b*m.Brightness

		l := luma(r, g, b)
		r = l + (r-l)*m.Saturation
		g = l + (g-l)*m.Saturation
		b = l + (b-l)*m.Saturation

		r = (r-128)*m.Contrast + 128
		g = (g-128)*m.Contrast + 128
		b = (b-128)*m.Contrast + 128

		return color.NRGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: c.A}
	})
}

type recipe struct {
	mod  Modulation
	tint color.NRGBA
}

var recipes = map[model.Filter]recipe{
	model.FilterSepia:    {mod: Modulation{Brightness: 1, Saturation: 0.3, Contrast: 1}, tint: color.NRGBA{R: 112, G: 66, B: 20, A: 255}},
	model.FilterVintage:  {mod: Modulation{Brightness: 1.05, Saturation: 0.7, Contrast: 1}, tint: color.NRGBA{R: 240, G: 200, B: 160, A: 255}},
	model.FilterCool:     {mod: Modulation{Brightness: 1, Saturation: 0.9, Contrast: 1}, tint: color.NRGBA{R: 150, G: 180, B: 230, A: 255}},
	model.FilterWarm:     {mod: Modulation{Brightness: 1.05, Saturation: 1.1, Contrast: 1}, tint: color.NRGBA{R: 255, G: 200, B: 150, A: 255}},
	model.FilterDramatic: {mod: Modulation{Brightness: 0.9, Saturation: 1.3, Contrast: 1.4}, tint: color.NRGBA{R: 200, G: 200, B: 220, A: 255}},
}

// ApplyFilter runs the named recipe: its own modulation, then a tint that
// keeps each pixel's luminance and takes its chroma from the tint colour.
func ApplyFilter(img image.Image, f model.Filter) (*image.NRGBA, error) {
	rc, ok := recipes[f]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", f)
	}
	return Tint(rc.mod.Apply(img), rc.tint), nil
}

func Tint(img image.Image, tint color.NRGBA) *image.NRGBA {
	tl := luma(float64(tint.R), float64(tint.G), float64(tint.B))
	if tl == 0 {
		return imaging.Grayscale(img)
	}
	fr, fg, fb := float64(tint.R)/tl, float64(tint.G)/tl, float64(tint.B)/tl
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		l := luma(float64(c.R), float64(c.G), float64(c.B))
		return color.NRGBA{R: clamp(l * fr), G: clamp(l * fg), B: clamp(l * fb), A: c.A}
	})
}

func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

func clamp(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

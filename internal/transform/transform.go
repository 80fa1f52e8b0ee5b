// Package transform runs the fixed pixel pipeline of a conversion on top of
// disintegration/imaging.
package transform

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fhuszti/conversions-ms-go/internal/model"
)

type stepFunc func(img image.Image) (image.Image, error)

type step struct {
	name string
	run  stepFunc
}

// Pipeline applies ImageOptions in this order, skipping unset steps:
// rotate, flip, flop, grayscale, blur, sharpen, modulate, filter, resize, preview.
type Pipeline struct {
	// PreviewDimension bounds the longest side when ImageOptions.Preview is set.
	PreviewDimension int
}

func NewPipeline(previewDimension int) *Pipeline {
	return &Pipeline{PreviewDimension: previewDimension}
}

// Steps lists the step names that o would run, in order.
func (p *Pipeline) Steps(o model.ImageOptions) []string {
	steps := p.plan(o)
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}

// Apply runs the pipeline. ctx is checked between steps; the first failing
// step aborts the run.
func (p *Pipeline) Apply(ctx context.Context, img image.Image, o model.ImageOptions) (image.Image, error) {
	for _, s := range p.plan(o) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := s.run(img)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		img = out
	}
	return img, nil
}

func (p *Pipeline) plan(o model.ImageOptions) []step {
	var steps []step
	if o.Rotate != nil && math.Mod(*o.Rotate, 360) != 0 {
		deg := *o.Rotate
		steps = append(steps, step{"rotate", func(img image.Image) (image.Image, error) {
			return rotate(img, deg), nil
		}})
	}
	if o.Flip {
		steps = append(steps, step{"flip", func(img image.Image) (image.Image, error) {
			return imaging.FlipV(img), nil
		}})
	}
	if o.Flop {
		steps = append(steps, step{"flop", func(img image.Image) (image.Image, error) {
			return imaging.FlipH(img), nil
		}})
	}
	if o.Grayscale {
		steps = append(steps, step{"grayscale", func(img image.Image) (image.Image, error) {
			return imaging.Grayscale(img), nil
		}})
	}
	if o.Blur != nil && *o.Blur > 0 {
		sigma := *o.Blur
		steps = append(steps, step{"blur", func(img image.Image) (image.Image, error) {
			return imaging.Blur(img, sigma), nil
		}})
	}
	if o.Sharpen != nil && *o.Sharpen > 0 {
		sigma := *o.Sharpen
		steps = append(steps, step{"sharpen", func(img image.Image) (image.Image, error) {
			return imaging.Sharpen(img, sigma), nil
		}})
	}
	if o.HasModulation() {
		m := Modulation{Brightness: 1, Saturation: 1, Contrast: 1}
		if o.Brightness != nil {
			m.Brightness = *o.Brightness
		}
		if o.Saturation != nil {
			m.Saturation = *o.Saturation
		}
		if o.Contrast != nil {
			m.Contrast = *o.Contrast
		}
		steps = append(steps, step{"modulate", func(img image.Image) (image.Image, error) {
			return m.Apply(img), nil
		}})
	}
	if o.Filter != "" {
		f := o.Filter
		steps = append(steps, step{"filter", func(img image.Image) (image.Image, error) {
			return ApplyFilter(img, f)
		}})
	}
	if o.HasResize() {
		w, h, fit := 0, 0, o.Fit
		if o.Width != nil {
			w = *o.Width
		}
		if o.Height != nil {
			h = *o.Height
		}
		steps = append(steps, step{"resize", func(img image.Image) (image.Image, error) {
			return Resize(img, w, h, fit)
		}})
	}
	if o.Preview && p.PreviewDimension > 0 {
		d := p.PreviewDimension
		steps = append(steps, step{"preview", func(img image.Image) (image.Image, error) {
			return imaging.Fit(img, d, d, imaging.Lanczos), nil
		}})
	}
	return steps
}

// rotate turns img clockwise by deg, using the exact quarter turns when possible.
func rotate(img image.Image, deg float64) image.Image {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	}
	// imaging rotates counter-clockwise
	return imaging.Rotate(img, -d, color.Transparent)
}

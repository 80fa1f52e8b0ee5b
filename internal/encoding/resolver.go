package encoding

import (
	"errors"
	"fmt"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

var ErrUnsupportedFormat = errors.New("no encoder for format")

type policy struct {
	bare     func(f model.Format, o model.ImageOptions) Params
	optimise func(f model.Format, o model.ImageOptions) Params
}

var policies = map[model.Codec]policy{
	model.CodecJPEG: {bare: jpegBare, optimise: jpegOptimised},
	model.CodecPNG:  {bare: pngBare, optimise: pngOptimised},
	model.CodecWebP: {bare: webpBare, optimise: webpOptimised},
	model.CodecAVIF: {bare: avifBare, optimise: avifOptimised},
	model.CodecSVG:  {bare: passthrough, optimise: passthrough},
}

// Resolve picks encoder parameters for target.
//
// Without Optimize only the per-format defaults and the user's
// quality/progressive/lossless flags apply; a platform hint is ignored.
// With Optimize the high-effort preset applies and a platform hint then
// replaces its quality and chroma, nothing else.
func Resolve(target model.Format, o model.ImageOptions) (Params, error) {
	pol, ok := policies[target.Codec()]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, target)
	}
	if !o.Optimize {
		return pol.bare(target, o), nil
	}
	p := pol.optimise(target, o)
	if p.Passthrough || o.Platform == "" {
		return p, nil
	}
	if preset, ok := PresetFor(o.Platform); ok {
		p = preset.apply(p)
	}
	return p, nil
}

func passthrough(f model.Format, _ model.ImageOptions) Params {
	return Params{Format: f, Passthrough: true}
}

func jpegBare(f model.Format, o model.ImageOptions) Params {
	return Params{
		Format:      f,
		Quality:     o.QualityOr(DefaultQuality),
		Progressive: o.Progressive,
	}
}

func jpegOptimised(f model.Format, o model.ImageOptions) Params {
	return Params{
		Format:         f,
		Quality:        o.QualityOr(DefaultQuality),
		Chroma:         Chroma420,
		Progressive:    true,
		OptimizeCoding: true,
	}
}

func pngBare(f model.Format, _ model.ImageOptions) Params {
	return Params{Format: f}
}

func pngOptimised(f model.Format, o model.ImageOptions) Params {
	p := Params{
		Format:      f,
		Compression: 9,
		Palette:     true,
	}
	// lossless png keeps full colour, only deflate effort goes up
	if o.Lossless {
		p.Palette = false
		return p
	}
	p.Quality = o.QualityOr(100)
	p.PaletteColors = paletteColors(p.Quality)
	return p
}

func webpBare(f model.Format, o model.ImageOptions) Params {
	return Params{
		Format:   f,
		Quality:  o.QualityOr(DefaultQuality),
		Lossless: o.Lossless,
		Exact:    true,
	}
}

func webpOptimised(f model.Format, o model.ImageOptions) Params {
	return Params{
		Format:   f,
		Quality:  o.QualityOr(DefaultQuality),
		Chroma:   Chroma420,
		Lossless: o.Lossless,
	}
}

func avifBare(f model.Format, o model.ImageOptions) Params {
	return Params{
		Format:   f,
		Quality:  o.QualityOr(DefaultQuality),
		Lossless: o.Lossless,
	}
}

func avifOptimised(f model.Format, o model.ImageOptions) Params {
	return Params{
		Format:   f,
		Quality:  o.QualityOr(DefaultQuality),
		Chroma:   Chroma420,
		Effort:   9,
		Lossless: o.Lossless,
	}
}

// paletteColors maps quality 1..100 onto 2..256 palette entries.
func paletteColors(quality int) int {
	n := quality * 256 / 100
	if n < 2 {
		return 2
	}
	if n > 256 {
		return 256
	}
	return n
}

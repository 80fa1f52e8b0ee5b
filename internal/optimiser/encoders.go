package optimiser

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/gen2brain/avif"
	"github.com/gen2brain/jpegli"
)

func subsampling(c encoding.Chroma) image.YCbCrSubsampleRatio {
	switch c {
	case encoding.Chroma444:
		return image.YCbCrSubsampleRatio444
	default:
		return image.YCbCrSubsampleRatio420
	}
}

func NewJPEGEncoder() Encoder {
	return EncoderFunc(func(w io.Writer, img image.Image, p encoding.Params) error {
		opts := &jpegli.EncodingOptions{
			Quality:           p.Quality,
			ChromaSubsampling: subsampling(p.Chroma),
			OptimizeCoding:    p.OptimizeCoding,
		}
		if p.Progressive {
			opts.ProgressiveLevel = 2
		}
		return jpegli.Encode(w, img, opts)
	})
}

func NewPNGEncoder() Encoder {
	return EncoderFunc(func(w io.Writer, img image.Image, p encoding.Params) error {
		enc := &png.Encoder{CompressionLevel: pngLevel(p.Compression)}
		if p.Palette {
			img = reducePalette(img, p.PaletteColors)
		}
		return enc.Encode(w, img)
	})
}

func pngLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.DefaultCompression
	case level <= 3:
		return png.BestSpeed
	case level >= 9:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

// reducePalette quantises img to at most n colours with Floyd-Steinberg dithering.
func reducePalette(img image.Image, n int) *image.Paletted {
	if n < 2 || n > 256 {
		n = 256
	}
	q := quantize.MedianCutQuantizer{AddTransparent: true}
	pal := q.Quantize(make(color.Palette, 0, n), img)
	b := img.Bounds()
	out := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(out, b, img, b.Min)
	return out
}

func NewWebPEncoder() Encoder {
	return EncoderFunc(func(w io.Writer, img image.Image, p encoding.Params) error {
		return webp.Encode(w, img, &webp.Options{
			Lossless: p.Lossless,
			Quality:  float32(p.Quality),
			Exact:    p.Exact,
		})
	})
}

// avifDefaultSpeed is the fastest libaom preset.
const avifDefaultSpeed = 10

func NewAVIFEncoder() Encoder {
	return EncoderFunc(func(w io.Writer, img image.Image, p encoding.Params) error {
		opts := avif.Options{
			Quality:           p.Quality,
			QualityAlpha:      p.Quality,
			Speed:             avifDefaultSpeed,
			ChromaSubsampling: subsampling(p.Chroma),
		}
		if p.Effort > 0 {
			opts.Speed = avifDefaultSpeed - p.Effort
		}
		if p.Lossless {
			opts.Quality = 100
			opts.QualityAlpha = 100
			opts.ChromaSubsampling = image.YCbCrSubsampleRatio444
		}
		return avif.Encode(w, img, opts)
	})
}

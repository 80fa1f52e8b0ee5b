package optimiser

import (
	"image"
	"io"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
)

// Encoder writes img in one codec using resolved parameters.
type Encoder interface {
	Encode(w io.Writer, img image.Image, p encoding.Params) error
}

// EncoderFunc adapts a plain function to Encoder.
type EncoderFunc func(w io.Writer, img image.Image, p encoding.Params) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image, p encoding.Params) error {
	return f(w, img, p)
}

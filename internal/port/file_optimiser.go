package port

import (
	"image"
	"io"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/optimiser"
)

// ImageCodec probes, decodes and encodes images.
type ImageCodec interface {
	Supports(c model.Codec) bool
	Probe(r io.Reader) (optimiser.Probe, error)
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image, p encoding.Params) error
}

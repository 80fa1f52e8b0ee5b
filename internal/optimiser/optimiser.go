package optimiser

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	_ "golang.org/x/image/webp"
)

var (
	ErrNoEncoder     = errors.New("no encoder registered")
	ErrUnknownFormat = errors.New("unrecognised image data")
)

// Probe is the header-only view of an image.
type Probe struct {
	Width  int
	Height int
	Format model.Format
}

// Optimiser decodes images and encodes them through a per-codec dispatch table.
type Optimiser struct {
	encoders map[model.Codec]Encoder
}

func NewOptimiser(encoders map[model.Codec]Encoder) *Optimiser {
	logger.Info(context.Background(), "initialising optimiser...")
	return &Optimiser{encoders: encoders}
}

// NewDefaultOptimiser wires the production encoders.
func NewDefaultOptimiser() *Optimiser {
	return NewOptimiser(map[model.Codec]Encoder{
		model.CodecJPEG: NewJPEGEncoder(),
		model.CodecPNG:  NewPNGEncoder(),
		model.CodecWebP: NewWebPEncoder(),
		model.CodecAVIF: NewAVIFEncoder(),
	})
}

// Supports reports whether an encoder exists for c.
func (o *Optimiser) Supports(c model.Codec) bool {
	_, ok := o.encoders[c]
	return ok
}

// Probe reads only the image header.
func (o *Optimiser) Probe(r io.Reader) (Probe, error) {
	cfg, name, err := image.DecodeConfig(r)
	if err != nil {
		return Probe{}, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	f, ok := model.FormatFromCodec(name)
	if !ok {
		return Probe{}, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return Probe{Width: cfg.Width, Height: cfg.Height, Format: f}, nil
}

func (o *Optimiser) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("optimiser: failed to decode image: %w", err)
	}
	return img, nil
}

func (o *Optimiser) Encode(w io.Writer, img image.Image, p encoding.Params) error {
	enc, ok := o.encoders[p.Codec()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEncoder, p.Format)
	}
	if err := enc.Encode(w, img, p); err != nil {
		return fmt.Errorf("optimiser: failed to encode %s: %w", p.Format, err)
	}
	return nil
}

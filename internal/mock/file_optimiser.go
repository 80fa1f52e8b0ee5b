package mock

import (
	"image"
	"io"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/optimiser"
)

// MockCodec implements port.ImageCodec for tests.
type MockCodec struct {
	Unsupported map[model.Codec]bool
	ProbeOut    optimiser.Probe
	DecodeOut   image.Image
	EncodeOut   []byte

	ProbeErr  error
	DecodeErr error
	EncodeErr error

	// EncodeHook runs before Encode returns, e.g. to block until a deadline.
	EncodeHook func()

	DecodeCalled bool
	EncodeCalled bool
	EncodeParams encoding.Params
}

func (m *MockCodec) Supports(c model.Codec) bool {
	return !m.Unsupported[c]
}

func (m *MockCodec) Probe(r io.Reader) (optimiser.Probe, error) {
	if m.ProbeErr != nil {
		return optimiser.Probe{}, m.ProbeErr
	}
	return m.ProbeOut, nil
}

func (m *MockCodec) Decode(r io.Reader) (image.Image, error) {
	m.DecodeCalled = true
	if m.DecodeErr != nil {
		return nil, m.DecodeErr
	}
	if m.DecodeOut != nil {
		return m.DecodeOut, nil
	}
	return image.NewNRGBA(image.Rect(0, 0, m.ProbeOut.Width, m.ProbeOut.Height)), nil
}

func (m *MockCodec) Encode(w io.Writer, img image.Image, p encoding.Params) error {
	m.EncodeCalled = true
	m.EncodeParams = p
	if m.EncodeHook != nil {
		m.EncodeHook()
	}
	if m.EncodeErr != nil {
		return m.EncodeErr
	}
	_, err := w.Write(m.EncodeOut)
	return err
}

package conversion

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/fhuszti/conversions-ms-go/internal/mock"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/optimiser"
	"github.com/fhuszti/conversions-ms-go/internal/uuid"
)

const svgDoc = `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4"/></svg>`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestValidator() *Validator {
	return NewValidator(Limits{MaxUploadBytes: 100 << 20, MaxDimension: 10000}, optimiser.NewDefaultOptimiser())
}

type fixture struct {
	quota *mock.MockQuota
	exec  *mock.MockExecutor
	disp  *mock.MockDispatcher
	strg  *mock.Storage
}

func newFixture(plan model.PlanTier) *fixture {
	return &fixture{
		quota: &mock.MockQuota{Plan: plan},
		exec:  &mock.MockExecutor{},
		disp:  &mock.MockDispatcher{},
	}
}

func (f *fixture) deps() Deps {
	d := Deps{
		Validator:  newTestValidator(),
		Executor:   f.exec,
		Quota:      f.quota,
		Dispatcher: f.disp,
		NewID:      uuid.Generator(uuid.NewUUID),
	}
	if f.strg != nil {
		d.Results = f.strg
	}
	return d
}

func intp(v int) *int { return &v }

package encoding

import (
	"errors"
	"testing"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

func intPtr(v int) *int { return &v }

func TestResolve_BareDefaults(t *testing.T) {
	tests := []struct {
		name   string
		target model.Format
		opts   model.ImageOptions
		want   Params
	}{
		{
			name:   "jpeg default quality",
			target: model.FormatJPEG,
			want:   Params{Format: model.FormatJPEG, Quality: 80},
		},
		{
			name:   "jpg keeps spelling and progressive flag",
			target: model.FormatJPG,
			opts:   model.ImageOptions{Quality: intPtr(65), Progressive: true},
			want:   Params{Format: model.FormatJPG, Quality: 65, Progressive: true},
		},
		{
			name:   "png leaves compression unset",
			target: model.FormatPNG,
			opts:   model.ImageOptions{Quality: intPtr(50)},
			want:   Params{Format: model.FormatPNG},
		},
		{
			name:   "webp lossless",
			target: model.FormatWebP,
			opts:   model.ImageOptions{Lossless: true},
			want:   Params{Format: model.FormatWebP, Quality: 80, Lossless: true, Exact: true},
		},
		{
			name:   "avif",
			target: model.FormatAVIF,
			want:   Params{Format: model.FormatAVIF, Quality: 80},
		},
		{
			name:   "platform ignored without optimize",
			target: model.FormatJPEG,
			opts:   model.ImageOptions{Platform: model.PlatformLinkedIn},
			want:   Params{Format: model.FormatJPEG, Quality: 80},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.target, tc.opts)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Resolve() = %+v; want %+v", got, tc.want)
			}
		})
	}
}

func TestResolve_OptimisedPresets(t *testing.T) {
	jpeg, _ := Resolve(model.FormatJPEG, model.ImageOptions{Optimize: true})
	if !jpeg.OptimizeCoding || !jpeg.Progressive || jpeg.Chroma != Chroma420 || jpeg.Quality != 80 {
		t.Errorf("jpeg optimised = %+v", jpeg)
	}

	png, _ := Resolve(model.FormatPNG, model.ImageOptions{Optimize: true, Quality: intPtr(50)})
	if png.Compression != 9 || !png.Palette || png.PaletteColors != 128 {
		t.Errorf("png optimised = %+v", png)
	}

	pngLossless, _ := Resolve(model.FormatPNG, model.ImageOptions{Optimize: true, Lossless: true})
	if pngLossless.Palette || pngLossless.Compression != 9 {
		t.Errorf("png lossless optimised = %+v", pngLossless)
	}

	avif, _ := Resolve(model.FormatAVIF, model.ImageOptions{Optimize: true})
	if avif.Effort != 9 || avif.Chroma != Chroma420 {
		t.Errorf("avif optimised = %+v", avif)
	}

	webp, _ := Resolve(model.FormatWebP, model.ImageOptions{Optimize: true})
	if webp.Exact || webp.Chroma != Chroma420 || webp.Effort != 0 {
		t.Errorf("webp optimised = %+v", webp)
	}
}

func TestResolve_PlatformOverridesOnlyQualityAndChroma(t *testing.T) {
	got, err := Resolve(model.FormatJPEG, model.ImageOptions{
		Optimize: true,
		Quality:  intPtr(40),
		Platform: model.PlatformLinkedIn,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := Params{
		Format:         model.FormatJPEG,
		Quality:        90,
		Chroma:         Chroma444,
		Progressive:    true,
		OptimizeCoding: true,
	}
	if got != want {
		t.Errorf("Resolve() = %+v; want %+v", got, want)
	}
}

func TestResolve_SVGPassthrough(t *testing.T) {
	for _, opt := range []bool{false, true} {
		got, err := Resolve(model.FormatSVG, model.ImageOptions{Optimize: opt, Platform: model.PlatformInstagram})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !got.Passthrough || got.Quality != 0 {
			t.Errorf("optimize=%v: got %+v; want passthrough", opt, got)
		}
	}
}

func TestResolve_Unsupported(t *testing.T) {
	_, err := Resolve(model.Format("gif"), model.ImageOptions{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

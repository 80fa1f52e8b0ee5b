package transform

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// Resize fits img into a w x h box according to fit. A zero side is derived
// from the aspect ratio. The image is never enlarged: when the box would
// upscale, it is shrunk by the same factor first.
func Resize(img image.Image, w, h int, fit model.FitMode) (image.Image, error) {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if w <= 0 && h <= 0 {
		return img, nil
	}
	if w <= 0 {
		w = max(1, int(math.Round(float64(srcW)*float64(h)/float64(srcH))))
	}
	if h <= 0 {
		h = max(1, int(math.Round(float64(srcH)*float64(w)/float64(srcW))))
	}
	sx, sy := float64(w)/float64(srcW), float64(h)/float64(srcH)

	switch fit {
	case model.FitCover, "":
		w, h = shrinkBox(w, h, math.Max(sx, sy))
		return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos), nil
	case model.FitContain:
		w, h = shrinkBox(w, h, math.Min(sx, sy))
		fitted := imaging.Fit(img, w, h, imaging.Lanczos)
		canvas := imaging.New(w, h, image.Transparent)
		return imaging.PasteCenter(canvas, fitted), nil
	case model.FitFill:
		return imaging.Resize(img, min(w, srcW), min(h, srcH), imaging.Lanczos), nil
	case model.FitInside:
		return imaging.Fit(img, w, h, imaging.Lanczos), nil
	case model.FitOutside:
		s := math.Min(math.Max(sx, sy), 1)
		ow := max(1, int(math.Round(float64(srcW)*s)))
		oh := max(1, int(math.Round(float64(srcH)*s)))
		if ow == srcW && oh == srcH {
			return img, nil
		}
		return imaging.Resize(img, ow, oh, imaging.Lanczos), nil
	default:
		return nil, fmt.Errorf("unknown fit mode %q", fit)
	}
}

func shrinkBox(w, h int, scale float64) (int, int) {
	if scale <= 1 {
		return w, h
	}
	return max(1, int(math.Round(float64(w)/scale))), max(1, int(math.Round(float64(h)/scale)))
}

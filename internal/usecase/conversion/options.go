package conversion

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/validation"
)

// Limits are the service-wide ceilings that apply whatever the plan.
type Limits struct {
	MaxUploadBytes int64
	MaxDimension   int
}

// Validator checks a conversion request before any pixel work happens.
type Validator struct {
	limits Limits
	codec  port.ImageCodec
}

func NewValidator(limits Limits, codec port.ImageCodec) *Validator {
	return &Validator{limits: limits, codec: codec}
}

var intFields = []string{"quality", "width", "height"}
var floatFields = []string{"rotate", "blur", "sharpen", "brightness", "contrast", "saturation"}
var boolFields = []string{"flip", "flop", "grayscale", "optimize", "progressive", "lossless", "preview"}

// ParseOptions turns raw form fields into ImageOptions. Unknown keys are
// ignored, empty values mean "not set".
func (v *Validator) ParseOptions(raw port.RawOptions) (model.ImageOptions, error) {
	var o model.ImageOptions
	errs := map[string]string{}

	ints := map[string]**int{"quality": &o.Quality, "width": &o.Width, "height": &o.Height}
	for _, k := range intFields {
		s := strings.TrimSpace(raw[k])
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs[k] = "numeric"
			continue
		}
		*ints[k] = &n
	}

	floats := map[string]**float64{
		"rotate": &o.Rotate, "blur": &o.Blur, "sharpen": &o.Sharpen,
		"brightness": &o.Brightness, "contrast": &o.Contrast, "saturation": &o.Saturation,
	}
	for _, k := range floatFields {
		s := strings.TrimSpace(raw[k])
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			errs[k] = "numeric"
			continue
		}
		*floats[k] = &f
	}

	bools := map[string]*bool{
		"flip": &o.Flip, "flop": &o.Flop, "grayscale": &o.Grayscale, "optimize": &o.Optimize,
		"progressive": &o.Progressive, "lossless": &o.Lossless, "preview": &o.Preview,
	}
	for _, k := range boolFields {
		s := strings.TrimSpace(raw[k])
		if s == "" {
			continue
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			errs[k] = "boolean"
			continue
		}
		*bools[k] = b
	}

	o.Fit = model.FitMode(strings.ToLower(strings.TrimSpace(raw["fit"])))
	o.Filter = model.Filter(strings.ToLower(strings.TrimSpace(raw["filter"])))
	o.Platform = model.Platform(strings.ToLower(strings.TrimSpace(raw["platform"])))

	if len(errs) > 0 {
		return model.ImageOptions{}, invalid("invalid options", errs)
	}
	return o, v.ValidateOptions(o)
}

// ValidateOptions enforces the option ranges and the dimension ceiling.
func (v *Validator) ValidateOptions(o model.ImageOptions) error {
	errs := map[string]string{}
	if err := validation.ValidateStruct(o); err != nil {
		m := validation.ErrorsToMap(err)
		if m == nil {
			return invalid(err.Error(), nil)
		}
		for k, tag := range m {
			errs[k] = tag
		}
	}
	if o.Width != nil && *o.Width > v.limits.MaxDimension {
		errs["width"] = "max"
	}
	if o.Height != nil && *o.Height > v.limits.MaxDimension {
		errs["height"] = "max"
	}
	if len(errs) > 0 {
		return invalid("invalid options", errs)
	}
	return nil
}

// ParseTarget resolves the requested output format.
func (v *Validator) ParseTarget(s string) (model.Format, error) {
	if strings.TrimSpace(s) == "" {
		return "", invalid("target format is required", map[string]string{"targetFormat": "required"})
	}
	f, ok := model.ParseFormat(s)
	if !ok {
		return "", unsupported(s, "")
	}
	return f, nil
}

// Source is what validation learnt about the uploaded file.
type Source struct {
	Format model.Format
	Width  int
	Height int
}

// ValidateSource checks the upload against the hard size ceiling, identifies
// its format from content and rejects oversized dimensions. declared may be
// empty; when set it must agree with the content.
func (v *Validator) ValidateSource(data []byte, declared string, target model.Format) (Source, error) {
	if len(data) == 0 {
		return Source{}, invalid("file is empty", map[string]string{"file": "required"})
	}
	if v.limits.MaxUploadBytes > 0 && int64(len(data)) > v.limits.MaxUploadBytes {
		return Source{}, &ValidationError{
			Kind: ErrFileTooLarge,
			Msg:  "file exceeds the maximum upload size of " + strconv.FormatInt(v.limits.MaxUploadBytes>>20, 10) + " MB",
		}
	}

	var want model.Format
	if strings.TrimSpace(declared) != "" {
		f, ok := model.ParseFormat(declared)
		if !ok {
			return Source{}, unsupported(declared, "")
		}
		want = f
	}

	if isSVG(data) {
		if want != "" && want != model.FormatSVG {
			return Source{}, invalid("file content does not match the declared format", map[string]string{"sourceFormat": want.String()})
		}
		if target != model.FormatSVG {
			return Source{}, unsupported(model.FormatSVG.String(), "svg can only be passed through")
		}
		return Source{Format: model.FormatSVG}, nil
	}

	if target == model.FormatSVG {
		return Source{}, unsupported(target.String(), "raster images cannot be converted to svg")
	}

	probe, err := v.codec.Probe(bytes.NewReader(data))
	if err != nil {
		return Source{}, unsupported("unknown", "file is not a supported image")
	}
	if want != "" && want.Codec() != probe.Format.Codec() {
		return Source{}, invalid("file content does not match the declared format", map[string]string{"sourceFormat": want.String()})
	}
	if probe.Width > v.limits.MaxDimension || probe.Height > v.limits.MaxDimension {
		return Source{}, invalid("image dimensions exceed the maximum of "+strconv.Itoa(v.limits.MaxDimension)+" pixels", map[string]string{"dimensions": "max"})
	}

	f := probe.Format
	if want != "" {
		f = want
	}
	return Source{Format: f, Width: probe.Width, Height: probe.Height}, nil
}

func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.ToLower(bytes.TrimSpace(head))
	if bytes.HasPrefix(head, []byte("<svg")) {
		return true
	}
	return bytes.HasPrefix(head, []byte("<?xml")) && bytes.Contains(head, []byte("<svg"))
}

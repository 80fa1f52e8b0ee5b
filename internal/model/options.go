package model

type FitMode string

const (
	FitCover   FitMode = "cover"
	FitContain FitMode = "contain"
	FitFill    FitMode = "fill"
	FitInside  FitMode = "inside"
	FitOutside FitMode = "outside"
)

var FitModes = []FitMode{FitCover, FitContain, FitFill, FitInside, FitOutside}

// Filter names a fixed colour recipe applied after user modulation.
type Filter string

const (
	FilterSepia    Filter = "sepia"
	FilterVintage  Filter = "vintage"
	FilterCool     Filter = "cool"
	FilterWarm     Filter = "warm"
	FilterDramatic Filter = "dramatic"
)

var Filters = []Filter{FilterSepia, FilterVintage, FilterCool, FilterWarm, FilterDramatic}

// Platform is a social network hint used to bias encode quality when optimising.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformPinterest Platform = "pinterest"
)

var Platforms = []Platform{PlatformInstagram, PlatformFacebook, PlatformTwitter, PlatformLinkedIn, PlatformPinterest}

// ImageOptions is the validated transformation bundle of one conversion.
// Nil numeric fields mean "not requested".
type ImageOptions struct {
	Quality     *int     `json:"quality,omitempty" validate:"omitnil,min=1,max=100"`
	Width       *int     `json:"width,omitempty" validate:"omitnil,min=1"`
	Height      *int     `json:"height,omitempty" validate:"omitnil,min=1"`
	Fit         FitMode  `json:"fit,omitempty" validate:"omitempty,fitmode"`
	Rotate      *float64 `json:"rotate,omitempty" validate:"omitnil,min=-360,max=360"`
	Flip        bool     `json:"flip,omitempty"`
	Flop        bool     `json:"flop,omitempty"`
	Grayscale   bool     `json:"grayscale,omitempty"`
	Blur        *float64 `json:"blur,omitempty" validate:"omitnil,min=0,max=100"`
	Sharpen     *float64 `json:"sharpen,omitempty" validate:"omitnil,min=0,max=100"`
	Brightness  *float64 `json:"brightness,omitempty" validate:"omitnil,min=0,max=3"`
	Contrast    *float64 `json:"contrast,omitempty" validate:"omitnil,min=0,max=3"`
	Saturation  *float64 `json:"saturation,omitempty" validate:"omitnil,min=0,max=3"`
	Filter      Filter   `json:"filter,omitempty" validate:"omitempty,filtername"`
	Optimize    bool     `json:"optimize,omitempty"`
	Progressive bool     `json:"progressive,omitempty"`
	Lossless    bool     `json:"lossless,omitempty"`
	Platform    Platform `json:"platform,omitempty" validate:"omitempty,platform"`
	Preview     bool     `json:"preview,omitempty"`
}

// HasModulation reports whether any of brightness, saturation or contrast is set.
func (o ImageOptions) HasModulation() bool {
	return o.Brightness != nil || o.Saturation != nil || o.Contrast != nil
}

// HasResize reports whether a target box was requested.
func (o ImageOptions) HasResize() bool {
	return o.Width != nil || o.Height != nil
}

// QualityOr returns the requested quality, or def when none was given.
func (o ImageOptions) QualityOr(def int) int {
	if o.Quality == nil {
		return def
	}
	return *o.Quality
}

// ConversionRequest is the immutable input of one conversion.
type ConversionRequest struct {
	Data         []byte
	Filename     string
	SourceFormat Format
	TargetFormat Format
	Options      ImageOptions
}

func (r ConversionRequest) Size() int64 { return int64(len(r.Data)) }

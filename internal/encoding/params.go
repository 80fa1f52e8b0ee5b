// Package encoding turns a target format and user options into concrete
// encoder parameters.
package encoding

import "github.com/fhuszti/conversions-ms-go/internal/model"

// Chroma is a chroma subsampling ratio. Empty leaves the encoder default.
type Chroma string

const (
	ChromaDefault Chroma = ""
	Chroma420     Chroma = "4:2:0"
	Chroma444     Chroma = "4:4:4"
)

const DefaultQuality = 80

// Params are the resolved settings handed to an encoder.
type Params struct {
	Format      model.Format `json:"format"`
	Passthrough bool         `json:"passthrough,omitempty"`

	Quality int    `json:"quality,omitempty"`
	Chroma  Chroma `json:"chroma,omitempty"`

	// Effort is 0 (encoder default) to 9 (slowest, smallest). Only avif reads it.
	Effort int `json:"effort,omitempty"`
	// Compression is the png deflate level; 0 leaves it unset.
	Compression int `json:"compression,omitempty"`

	Progressive    bool `json:"progressive,omitempty"`
	Lossless       bool `json:"lossless,omitempty"`
	OptimizeCoding bool `json:"optimizeCoding,omitempty"`
	// Exact keeps colour values under fully transparent webp pixels.
	Exact bool `json:"exact,omitempty"`

	Palette       bool `json:"palette,omitempty"`
	PaletteColors int  `json:"paletteColors,omitempty"`
}

func (p Params) Codec() model.Codec { return p.Format.Codec() }

// PlatformPreset is the only part of the encode policy a platform hint may touch.
type PlatformPreset struct {
	Quality int
	Chroma  Chroma
}

var platformPresets = map[model.Platform]PlatformPreset{
	model.PlatformInstagram: {Quality: 82, Chroma: Chroma420},
	model.PlatformFacebook:  {Quality: 85, Chroma: Chroma420},
	model.PlatformTwitter:   {Quality: 85, Chroma: Chroma420},
	model.PlatformLinkedIn:  {Quality: 90, Chroma: Chroma444},
	model.PlatformPinterest: {Quality: 90, Chroma: Chroma444},
}

// PresetFor returns the override for p, if one exists.
func PresetFor(p model.Platform) (PlatformPreset, bool) {
	pp, ok := platformPresets[p]
	return pp, ok
}

func (pp PlatformPreset) apply(p Params) Params {
	p.Quality = pp.Quality
	p.Chroma = pp.Chroma
	if p.Palette {
		p.PaletteColors = paletteColors(p.Quality)
	}
	return p
}

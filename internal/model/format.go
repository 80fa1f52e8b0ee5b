package model

import (
	"path/filepath"
	"strings"
)

// Format is a user-facing image format name. jpg and jpeg share a codec but
// keep their own spelling in output filenames and reported metadata.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
	FormatSVG  Format = "svg"
)

// Codec identifies the encoder family behind a Format.
type Codec string

const (
	CodecJPEG Codec = "jpeg"
	CodecPNG  Codec = "png"
	CodecWebP Codec = "webp"
	CodecAVIF Codec = "avif"
	CodecSVG  Codec = "svg"
)

var formatCodecs = map[Format]Codec{
	FormatPNG:  CodecPNG,
	FormatJPG:  CodecJPEG,
	FormatJPEG: CodecJPEG,
	FormatWebP: CodecWebP,
	FormatAVIF: CodecAVIF,
	FormatSVG:  CodecSVG,
}

var codecMimeTypes = map[Codec]string{
	CodecJPEG: "image/jpeg",
	CodecPNG:  "image/png",
	CodecWebP: "image/webp",
	CodecAVIF: "image/avif",
	CodecSVG:  "image/svg+xml",
}

// ParseFormat normalises s ("PNG", ".jpg", "image/webp") into a supported Format.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, ".")
	if strings.HasPrefix(s, "image/") {
		for c, mt := range codecMimeTypes {
			if mt == s {
				return Format(c), true
			}
		}
		return "", false
	}
	f := Format(s)
	if _, ok := formatCodecs[f]; !ok {
		return "", false
	}
	return f, true
}

// FormatFromFilename guesses a Format from the file extension.
func FormatFromFilename(name string) (Format, bool) {
	return ParseFormat(filepath.Ext(name))
}

// FormatFromCodec maps a decoder name as reported by image.DecodeConfig.
func FormatFromCodec(name string) (Format, bool) {
	if name == "jpeg" {
		return FormatJPEG, true
	}
	return ParseFormat(name)
}

func (f Format) Codec() Codec { return formatCodecs[f] }

func (f Format) MimeType() string { return codecMimeTypes[f.Codec()] }

func (f Format) Extension() string { return "." + string(f) }

// IsRaster reports whether the format goes through the pixel pipeline.
func (f Format) IsRaster() bool {
	c, ok := formatCodecs[f]
	return ok && c != CodecSVG
}

func (f Format) String() string { return string(f) }

// OutputFilename swaps the extension of the original name for the target one.
func OutputFilename(original string, target Format) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" || base == "." || base == "/" {
		base = "converted"
	}
	return base + target.Extension()
}

package model

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   Format
		wantOK bool
	}{
		{"png", FormatPNG, true},
		{" JPG ", FormatJPG, true},
		{".jpeg", FormatJPEG, true},
		{"image/webp", FormatWebP, true},
		{"image/jpeg", FormatJPEG, true},
		{"image/svg+xml", FormatSVG, true},
		{"avif", FormatAVIF, true},
		{"gif", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseFormat(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestFormat_CodecAndMime(t *testing.T) {
	if FormatJPG.Codec() != CodecJPEG || FormatJPEG.Codec() != CodecJPEG {
		t.Error("jpg and jpeg must share the jpeg codec")
	}
	if FormatJPG.MimeType() != "image/jpeg" {
		t.Errorf("MimeType = %q", FormatJPG.MimeType())
	}
	if FormatSVG.IsRaster() {
		t.Error("svg must not be raster")
	}
	if !FormatAVIF.IsRaster() {
		t.Error("avif must be raster")
	}
}

func TestOutputFilename(t *testing.T) {
	if got := OutputFilename("holiday.photo.png", FormatJPG); got != "holiday.photo.jpg" {
		t.Errorf("got %q", got)
	}
	if got := OutputFilename("", FormatWebP); got != "converted.webp" {
		t.Errorf("got %q", got)
	}
}

func TestCompressionRatio(t *testing.T) {
	if got := CompressionRatio(1000, 250); got != 0.75 {
		t.Errorf("got %v; want 0.75", got)
	}
	if got := CompressionRatio(0, 10); got != 0 {
		t.Errorf("got %v; want 0", got)
	}
}

func TestLimitsFor_FallsBackToFree(t *testing.T) {
	if LimitsFor("gold") != LimitsFor(PlanFree) {
		t.Error("unknown tier should resolve to free limits")
	}
	if !LimitsFor(PlanBusiness).Unlimited() {
		t.Error("business must be unlimited")
	}
}

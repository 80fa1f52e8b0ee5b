package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OutputMetadata describes an encoded result. It is stored as JSON in the history table.
type OutputMetadata struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Size             int64   `json:"size"`
	Format           Format  `json:"format"`
	CompressionRatio float64 `json:"compressionRatio"`
}

func (m OutputMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal OutputMetadata: %w", err)
	}
	return b, nil
}

func (m *OutputMetadata) Scan(src interface{}) error {
	if src == nil {
		*m = OutputMetadata{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("OutputMetadata.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal OutputMetadata: %w", err)
	}
	return nil
}

// CompressionRatio is 1 - newSize/originalSize; 0 when the original size is unknown.
func CompressionRatio(originalSize, newSize int64) float64 {
	if originalSize <= 0 {
		return 0
	}
	return 1 - float64(newSize)/float64(originalSize)
}

// ConversionResult is built once by NewSuccessResult or NewFailureResult and
// treated as a value afterwards.
type ConversionResult struct {
	Success          bool            `json:"success"`
	Data             []byte          `json:"data,omitempty"`
	Filename         string          `json:"filename,omitempty"`
	Metadata         *OutputMetadata `json:"metadata,omitempty"`
	DownloadURL      string          `json:"downloadUrl,omitempty"`
	Error            string          `json:"error,omitempty"`
	Code             string          `json:"code,omitempty"`
	OriginalFilename string          `json:"originalFilename"`
}

func NewSuccessResult(originalFilename, filename string, data []byte, meta OutputMetadata) ConversionResult {
	return ConversionResult{
		Success:          true,
		Data:             data,
		Filename:         filename,
		Metadata:         &meta,
		OriginalFilename: originalFilename,
	}
}

func NewFailureResult(originalFilename, code, message string) ConversionResult {
	return ConversionResult{
		Success:          false,
		Error:            message,
		Code:             code,
		OriginalFilename: originalFilename,
	}
}

// WithDownloadURL returns a copy of r carrying an archive link.
func (r ConversionResult) WithDownloadURL(url string) ConversionResult {
	r.DownloadURL = url
	return r
}

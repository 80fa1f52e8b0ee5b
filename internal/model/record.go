package model

import (
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/uuid"
)

// ConversionRecord is one row of the conversion history.
type ConversionRecord struct {
	ID               uuid.UUID       `json:"id"`
	Identity         string          `json:"identity"`
	OriginalFilename string          `json:"originalFilename"`
	SourceFormat     Format          `json:"sourceFormat"`
	TargetFormat     Format          `json:"targetFormat"`
	OriginalSize     int64           `json:"originalSize"`
	OutputSize       int64           `json:"outputSize"`
	Success          bool            `json:"success"`
	ErrorCode        *string         `json:"errorCode,omitempty"`
	Metadata         *OutputMetadata `json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

package port

import (
	"context"
	"io"
	"time"
)

// ResultStore archives encoded outputs and hands out download links.
type ResultStore interface {
	SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, contentType string) error
	GeneratePresignedDownloadURL(ctx context.Context, fileKey string, expiry time.Duration) (string, error)
}

package mock

import (
	"context"
	"io"
	"time"
)

// Storage implements the result store interface for tests.
type Storage struct {
	// captured inputs
	ObjectKey   string
	SavedData   []byte
	ContentType string
	TTL         time.Duration

	// errors
	GenerateDownloadLinkErr error
	SaveErr                 error

	// call flags
	GenerateDownloadLinkCalled bool
	SaveCalled                 bool
}

func (m *Storage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, contentType string) error {
	m.SaveCalled = true
	m.ObjectKey = fileKey
	m.ContentType = contentType
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.SavedData = data
	return nil
}

func (m *Storage) GeneratePresignedDownloadURL(ctx context.Context, fileKey string, expiry time.Duration) (string, error) {
	m.GenerateDownloadLinkCalled = true
	m.ObjectKey = fileKey
	m.TTL = expiry
	if m.GenerateDownloadLinkErr != nil {
		return "", m.GenerateDownloadLinkErr
	}
	return "https://example.com/download/" + fileKey, nil
}

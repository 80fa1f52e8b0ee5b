package integration

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/storage"
	"github.com/fhuszti/conversions-ms-go/test/testutil"
)

func newArchive(t *testing.T, bucket string) *storage.MinioStorage {
	t.Helper()
	strg, err := storage.NewStorage(minioEndpoint, testutil.MinIOAccessKey, testutil.MinIOSecretKey, false, bucket)
	if err != nil {
		t.Fatalf("minio client: %v", err)
	}
	if err := strg.InitBucket(context.Background()); err != nil {
		t.Fatalf("init bucket: %v", err)
	}
	return strg
}

func TestMinioStorage_SaveAndDownload(t *testing.T) {
	ctx := context.Background()
	strg := newArchive(t, "archive-save")

	// a second init is a no-op
	if err := strg.InitBucket(ctx); err != nil {
		t.Fatalf("init bucket twice: %v", err)
	}

	body := []byte("converted bytes")
	key := "user-1/abc/cat.webp"
	if err := strg.SaveFile(ctx, key, bytes.NewReader(body), int64(len(body)), "image/webp"); err != nil {
		t.Fatalf("save: %v", err)
	}

	link, err := strg.GeneratePresignedDownloadURL(ctx, key, 5*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	resp, err := http.Get(link)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(got, body) {
		t.Errorf("body = %q; want %q", got, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/webp" {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="cat.webp"`) {
		t.Errorf("content disposition = %q", cd)
	}
}

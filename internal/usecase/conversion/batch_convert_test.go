package conversion

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

func batchFiles(t *testing.T, names ...string) []port.UploadedFile {
	files := make([]port.UploadedFile, len(names))
	for i, n := range names {
		files[i] = port.UploadedFile{Name: n, Data: pngBytes(t, 8, 8)}
	}
	return files
}

func TestConvertBatch_TooManyFiles(t *testing.T) {
	f := newFixture(model.PlanFree)
	svc := NewBatchConverter(f.deps())

	_, err := svc.ConvertBatch(context.Background(), port.BatchConvertInput{
		Identity:     "u",
		Files:        batchFiles(t, "a.png", "b.png", "c.png", "d.png"),
		TargetFormat: "jpg",
	})
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
	var aerr *AdmissionError
	if !errors.As(err, &aerr) || aerr.Limit != 3 {
		t.Fatalf("expected limit 3, got %+v", aerr)
	}
	if len(f.exec.Requests) != 0 || f.quota.Used != 0 {
		t.Errorf("nothing should be processed")
	}
}

func TestConvertBatch_NotEnoughQuotaLeft(t *testing.T) {
	f := newFixture(model.PlanFree)
	f.quota.Used = 8
	svc := NewBatchConverter(f.deps())

	_, err := svc.ConvertBatch(context.Background(), port.BatchConvertInput{
		Identity:     "u",
		Files:        batchFiles(t, "a.png", "b.png", "c.png"),
		TargetFormat: "jpg",
	})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	var aerr *AdmissionError
	if !errors.As(err, &aerr) || aerr.Remaining != 2 {
		t.Fatalf("expected remaining 2, got %+v", aerr)
	}
	if len(f.exec.Requests) != 0 || f.quota.Used != 8 {
		t.Errorf("nothing should be processed")
	}
}

func TestConvertBatch_PartialFailure(t *testing.T) {
	f := newFixture(model.PlanFree)
	f.exec.Err = errors.New("decoder crashed")
	f.exec.FailFor = map[string]bool{"b.png": true}
	svc := NewBatchConverter(f.deps())

	files := batchFiles(t, "a.png", "b.png", "c.png")
	out, err := svc.ConvertBatch(context.Background(), port.BatchConvertInput{
		Identity:     "u",
		Files:        files,
		TargetFormat: "jpeg",
		Quality:      "60",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := out.Outcome
	if o.Total != 3 || o.Succeeded != 2 || o.Failed != 1 {
		t.Fatalf("unexpected counters %+v", o)
	}
	wantOrder := []string{"a.png", "b.png", "c.png"}
	for i, r := range o.Results {
		if r.OriginalFilename != wantOrder[i] {
			t.Errorf("result %d is %q, want %q", i, r.OriginalFilename, wantOrder[i])
		}
	}
	if o.Results[1].Success || o.Results[0].Filename != "a.jpeg" {
		t.Errorf("unexpected results %+v", o.Results)
	}
	if f.quota.Used != 2 || out.Usage.Used != 2 {
		t.Errorf("used = %d (snapshot %d), want 2", f.quota.Used, out.Usage.Used)
	}
	if o.ID == "" {
		t.Errorf("expected a batch id")
	}
	for _, p := range f.exec.Params {
		if p.Quality != 60 {
			t.Errorf("quality = %d, want 60", p.Quality)
		}
	}
}

func TestConvertBatch_InvalidFileDoesNotStopOthers(t *testing.T) {
	f := newFixture(model.PlanPro)
	ok := batchFiles(t, "a.png", "c.png")
	files := []port.UploadedFile{ok[0], {Name: "notes.txt", Data: []byte("hello")}, ok[1]}

	out, err := NewBatchConverter(f.deps()).ConvertBatch(context.Background(), port.BatchConvertInput{
		Identity:     "u",
		Files:        files,
		TargetFormat: "webp",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome.Succeeded != 2 || out.Outcome.Results[1].Code != CodeUnsupportedFormat {
		t.Fatalf("unexpected outcome %+v", out.Outcome)
	}
	if len(f.exec.Requests) != 2 {
		t.Errorf("executor ran %d times, want 2", len(f.exec.Requests))
	}
}

func TestConvertBatch_CommitRefused(t *testing.T) {
	f := newFixture(model.PlanFree)
	f.quota.DenyIncrement = true

	out, err := NewBatchConverter(f.deps()).ConvertBatch(context.Background(), port.BatchConvertInput{
		Identity:     "u",
		Files:        batchFiles(t, "a.png", "b.png"),
		TargetFormat: "png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome.Failed != 2 {
		t.Fatalf("expected both files to fail, got %+v", out.Outcome)
	}
	for _, r := range out.Outcome.Results {
		if r.Code != CodeQuotaExceeded || len(r.Data) != 0 {
			t.Errorf("unexpected result %+v", r)
		}
	}
}

func TestConvertBatch_BadInput(t *testing.T) {
	f := newFixture(model.PlanFree)
	svc := NewBatchConverter(f.deps())

	_, err := svc.ConvertBatch(context.Background(), port.BatchConvertInput{Identity: "u", TargetFormat: "png"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("empty batch: expected ErrValidation, got %v", err)
	}
	_, err = svc.ConvertBatch(context.Background(), port.BatchConvertInput{
		Identity: "u", Files: batchFiles(t, "a.png"), TargetFormat: "png", Quality: "abc",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("bad quality: expected ErrValidation, got %v", err)
	}
	_, err = svc.ConvertBatch(context.Background(), port.BatchConvertInput{
		Identity: "u", Files: batchFiles(t, "a.png"), TargetFormat: "bmp",
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("bad target: expected ErrUnsupportedFormat, got %v", err)
	}
	if f.quota.CanConvertCalls != 0 {
		t.Errorf("quota should not be consulted for malformed input")
	}
}

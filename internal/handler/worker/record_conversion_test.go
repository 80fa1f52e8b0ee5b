package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/conversions-ms-go/internal/mock"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/task"
	"github.com/fhuszti/conversions-ms-go/internal/uuid"
)

func payload(identity string) task.RecordConversionPayload {
	return task.RecordConversionPayload{Record: model.ConversionRecord{
		ID:           uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		Identity:     identity,
		SourceFormat: model.FormatJPEG,
		TargetFormat: model.FormatWebP,
		Success:      true,
	}}
}

func TestRecordConversionHandler_MissingIdentity(t *testing.T) {
	repo := &mock.MockHistoryRepo{}
	if err := RecordConversionHandler(context.Background(), payload(""), repo); err == nil {
		t.Fatal("expected error for a record without identity")
	}
	if len(repo.Created) != 0 {
		t.Error("repository should not be called")
	}
}

func TestRecordConversionHandler_RepoError(t *testing.T) {
	repoErr := errors.New("db fail")
	repo := &mock.MockHistoryRepo{CreateErr: repoErr}

	err := RecordConversionHandler(context.Background(), payload("user-1"), repo)
	if !errors.Is(err, repoErr) {
		t.Fatalf("got error %v; want %v", err, repoErr)
	}
}

func TestRecordConversionHandler_Success(t *testing.T) {
	repo := &mock.MockHistoryRepo{}

	if err := RecordConversionHandler(context.Background(), payload("user-1"), repo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Created) != 1 {
		t.Fatalf("expected one write, got %d", len(repo.Created))
	}
	if got := repo.Created[0]; got.Identity != "user-1" || got.TargetFormat != model.FormatWebP {
		t.Errorf("unexpected record %+v", got)
	}
}

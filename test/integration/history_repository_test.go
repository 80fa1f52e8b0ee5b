package integration

import (
	"context"
	"testing"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/conversions-ms-go/internal/uuid"
)

func TestHistoryRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := mariadb.NewHistoryRepository(setupDB(t).DB)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	code := "processing_timeout"
	recs := []model.ConversionRecord{
		{
			ID: uuid.NewUUID(), Identity: "user-1", OriginalFilename: "a.png",
			SourceFormat: model.FormatPNG, TargetFormat: model.FormatWebP,
			OriginalSize: 100, OutputSize: 40, Success: true,
			Metadata:  &model.OutputMetadata{Width: 10, Height: 10, Format: model.FormatWebP, Size: 40, CompressionRatio: 2.5},
			CreatedAt: base,
		},
		{
			ID: uuid.NewUUID(), Identity: "user-1", OriginalFilename: "b.jpg",
			SourceFormat: model.FormatJPEG, TargetFormat: model.FormatAVIF,
			OriginalSize: 200, ErrorCode: &code,
			CreatedAt: base.Add(time.Minute),
		},
		{
			ID: uuid.NewUUID(), Identity: "user-2", OriginalFilename: "c.jpg",
			SourceFormat: model.FormatJPG, TargetFormat: model.FormatPNG,
			OriginalSize: 300, OutputSize: 300, Success: true,
			CreatedAt: base.Add(2 * time.Minute),
		},
	}
	for i := range recs {
		if err := repo.Create(ctx, &recs[i]); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	// redelivery of the same task must not fail
	if err := repo.Create(ctx, &recs[0]); err != nil {
		t.Fatalf("duplicate create: %v", err)
	}

	got, err := repo.ListByIdentity(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != recs[1].ID {
		t.Errorf("expected newest first, got %s", got[0].OriginalFilename)
	}
	if got[0].ErrorCode == nil || *got[0].ErrorCode != code || got[0].Success {
		t.Errorf("failure record not round-tripped: %+v", got[0])
	}
	if got[1].Metadata == nil || got[1].Metadata.CompressionRatio != 2.5 {
		t.Errorf("metadata not round-tripped: %+v", got[1].Metadata)
	}
	if !got[1].CreatedAt.Equal(base) {
		t.Errorf("created_at = %v; want %v", got[1].CreatedAt, base)
	}

	limited, err := repo.ListByIdentity(ctx, "user-1", 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected the limit to apply, got %d", len(limited))
	}
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t).DB
	if _, err := db.Exec(`INSERT INTO subscribers (identity, plan) VALUES ('acme', 'business'), ('solo', 'pro')`); err != nil {
		t.Fatalf("seed subscribers: %v", err)
	}
	repo := mariadb.NewPlanRepository(db)

	tests := map[string]model.PlanTier{
		"acme":   model.PlanBusiness,
		"solo":   model.PlanPro,
		"nobody": model.PlanFree,
	}
	for identity, want := range tests {
		got, err := repo.PlanFor(ctx, identity)
		if err != nil {
			t.Fatalf("%s: %v", identity, err)
		}
		if got != want {
			t.Errorf("%s: plan = %s; want %s", identity, got, want)
		}
	}
}

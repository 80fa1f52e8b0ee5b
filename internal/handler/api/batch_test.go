package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/conversions-ms-go/internal/mock"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/usecase/conversion"
)

func TestBatchConvertHandler_Success(t *testing.T) {
	var outcome model.BatchOutcome
	outcome.ID = "batch-1"
	outcome.Add(model.NewSuccessResult("a.png", "a.jpg", []byte("JPEG"), model.OutputMetadata{Size: 4, Format: model.FormatJPG}))
	outcome.Add(model.NewFailureResult("b.txt", conversion.CodeUnsupportedFormat, "unsupported"))
	svc := &mock.MockBatchConverter{Out: port.BatchConvertOutput{
		Outcome: outcome,
		Usage:   model.UsageSnapshot{Plan: model.PlanFree, Used: 1, Limit: 10, Remaining: 9},
	}}

	req := multipartRequest(t, "/conversions/batch", map[string]string{"targetFormat": "jpg", "quality": "70"},
		upload{"files[]", "a.png", []byte("one")},
		upload{"files[]", "b.txt", []byte("two")},
	)
	rec := httptest.NewRecorder()
	BatchConvertHandler(svc, planUsage(model.PlanPro), 1<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if len(svc.In.Files) != 2 || svc.In.Files[1].Name != "b.txt" || svc.In.Quality != "70" || svc.In.TargetFormat != "jpg" {
		t.Fatalf("unexpected input %+v", svc.In)
	}
	if rec.Header().Get("X-Usage-Remaining") != "9" {
		t.Errorf("missing usage headers")
	}

	var got struct {
		Outcome struct {
			ID        string `json:"id"`
			Total     int    `json:"total"`
			Succeeded int    `json:"succeeded"`
			Failed    int    `json:"failed"`
			Results   []struct {
				Success bool   `json:"success"`
				Data    string `json:"data"`
				Code    string `json:"code"`
			} `json:"results"`
		} `json:"outcome"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Outcome.Total != 2 || got.Outcome.Succeeded != 1 || got.Outcome.Failed != 1 {
		t.Errorf("unexpected counters %+v", got.Outcome)
	}
	if got.Outcome.Results[0].Data != base64.StdEncoding.EncodeToString([]byte("JPEG")) {
		t.Errorf("data should be base64, got %q", got.Outcome.Results[0].Data)
	}
	if got.Outcome.Results[1].Code != conversion.CodeUnsupportedFormat {
		t.Errorf("code = %q", got.Outcome.Results[1].Code)
	}
}

func TestBatchConvertHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		files      []upload
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no files",
			wantStatus: http.StatusBadRequest,
			wantCode:   conversion.CodeValidation,
		},
		{
			name:  "batch too large",
			files: []upload{{"files[]", "a.png", []byte("x")}},
			svcErr: &conversion.AdmissionError{
				Reason: conversion.ErrBatchTooLarge, Plan: model.PlanFree, Remaining: 10, Limit: 3,
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   conversion.CodeBatchTooLarge,
		},
		{
			name:  "not enough quota",
			files: []upload{{"files", "a.png", []byte("x")}},
			svcErr: &conversion.AdmissionError{
				Reason: conversion.ErrQuotaExceeded, Plan: model.PlanFree, Remaining: 1, Limit: 10,
			},
			wantStatus: http.StatusPaymentRequired,
			wantCode:   conversion.CodeQuotaExceeded,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockBatchConverter{Err: tc.svcErr}
			req := multipartRequest(t, "/conversions/batch", map[string]string{"targetFormat": "png"}, tc.files...)
			rec := httptest.NewRecorder()
			BatchConvertHandler(svc, planUsage(model.PlanPro), 1<<20).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), `"code":"`+tc.wantCode+`"`) {
				t.Errorf("body %s does not carry code %s", rec.Body.String(), tc.wantCode)
			}
		})
	}
}

func planUsage(tier model.PlanTier) *mock.MockUsageReader {
	limits := model.LimitsFor(tier)
	return &mock.MockUsageReader{Out: model.UsageSnapshot{
		Plan:      tier,
		Limit:     limits.MaxConversions,
		Remaining: limits.MaxConversions,
		Limits:    limits,
	}}
}

func TestBatchConvertHandler_RejectsOverPlanBatchBeforeReading(t *testing.T) {
	svc := &mock.MockBatchConverter{}
	usage := planUsage(model.PlanFree)
	req := multipartRequest(t, "/conversions/batch", map[string]string{"targetFormat": "webp"},
		upload{"files[]", "1.png", []byte("one")},
		upload{"files[]", "2.png", []byte("two")},
		upload{"files[]", "3.png", []byte("three")},
		upload{"files[]", "4.png", []byte("four")},
	)
	rec := httptest.NewRecorder()

	BatchConvertHandler(svc, usage, 1<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; want 422, body %s", rec.Code, rec.Body.String())
	}
	if svc.Called {
		t.Fatal("batch service should not run for an over-plan batch")
	}
	if usage.Identity != "user-42" {
		t.Errorf("usage resolved for %q", usage.Identity)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != conversion.CodeBatchTooLarge || body.Plan != "free" || body.Limit == nil || *body.Limit != 3 {
		t.Errorf("unexpected error body %+v", body)
	}
}

func TestBatchConvertHandler_BodyCapFollowsPlan(t *testing.T) {
	// free allows 3 files of 5 MB; the hard ceiling of 1 KB per file wins.
	svc := &mock.MockBatchConverter{}
	req := multipartRequest(t, "/conversions/batch", map[string]string{"targetFormat": "webp"},
		upload{"files[]", "big.png", make([]byte, 2<<20)},
	)
	rec := httptest.NewRecorder()

	BatchConvertHandler(svc, planUsage(model.PlanFree), 1024).ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d; want 413", rec.Code)
	}
	if svc.Called {
		t.Fatal("batch service should not run when the body is over the cap")
	}
}

func TestBatchConvertHandler_LeavesOversizedFilesUnread(t *testing.T) {
	usage := planUsage(model.PlanFree)
	usage.Out.Limits.MaxFileSizeMB = 1
	svc := &mock.MockBatchConverter{}
	req := multipartRequest(t, "/conversions/batch", map[string]string{"targetFormat": "webp"},
		upload{"files[]", "small.png", []byte("small")},
		upload{"files[]", "big.png", make([]byte, 1<<20+1)},
	)
	rec := httptest.NewRecorder()

	BatchConvertHandler(svc, usage, 4<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if len(svc.In.Files) != 2 {
		t.Fatalf("files = %d; want 2", len(svc.In.Files))
	}
	big := svc.In.Files[1]
	if big.Data != nil || big.Bytes() != 1<<20+1 {
		t.Errorf("oversized file should carry only its size, got %d bytes of data, size %d", len(big.Data), big.Bytes())
	}
	if string(svc.In.Files[0].Data) != "small" {
		t.Errorf("small file = %q", svc.In.Files[0].Data)
	}
}

func TestBatchConvertHandler_UsageFailure(t *testing.T) {
	svc := &mock.MockBatchConverter{}
	usage := &mock.MockUsageReader{Err: errors.New("redis down")}
	req := multipartRequest(t, "/conversions/batch", map[string]string{"targetFormat": "webp"},
		upload{"files[]", "a.png", []byte("a")},
	)
	rec := httptest.NewRecorder()

	BatchConvertHandler(svc, usage, 1<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", rec.Code)
	}
	if svc.Called {
		t.Fatal("batch service should not run without a plan")
	}
}

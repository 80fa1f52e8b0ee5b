package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/conversions-ms-go/internal/usecase/conversion"
)

// StatusFor maps a conversion error to its HTTP status.
func StatusFor(err error) int {
	switch conversion.CodeOf(err) {
	case conversion.CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case conversion.CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case conversion.CodeBatchTooLarge:
		return http.StatusUnprocessableEntity
	case conversion.CodeQuotaExceeded:
		return http.StatusPaymentRequired
	case conversion.CodePlanFeature:
		return http.StatusForbidden
	case conversion.CodeRateLimited:
		return http.StatusTooManyRequests
	case conversion.CodeValidation:
		return http.StatusBadRequest
	case conversion.CodeProcessingTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeConversionError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := ErrorResponse{Error: err.Error(), Code: conversion.CodeOf(err)}

	var verr *conversion.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	var aerr *conversion.AdmissionError
	if errors.As(err, &aerr) {
		body.Plan = string(aerr.Plan)
		body.Remaining = &aerr.Remaining
		body.Limit = &aerr.Limit
	}
	var perr *conversion.ProcessingError
	if errors.As(err, &perr) {
		WriteErrorResponse(r.Context(), w, status, body, perr.Cause)
		return
	}
	if status >= http.StatusInternalServerError {
		body.Error = "Could not convert image"
		body.Code = conversion.CodeProcessingFailed
		WriteErrorResponse(r.Context(), w, status, body, err)
		return
	}
	WriteErrorResponse(r.Context(), w, status, body, nil)
}

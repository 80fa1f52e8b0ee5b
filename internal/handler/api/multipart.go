package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/fhuszti/conversions-ms-go/internal/api_context"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/usecase/conversion"
)

// AnonymousIdentity is used when no identity middleware ran.
const AnonymousIdentity = "anonymous"

// multipartMemory is how much of a form is buffered in memory before
// spilling to disk.
const multipartMemory = 32 << 20

// multipartOverhead is the room left above a file ceiling for boundaries,
// part headers and form fields.
const multipartOverhead = 1 << 20

func identityOf(r *http.Request) string {
	if id, ok := api_context.IdentityFromContext(r.Context()); ok {
		return id
	}
	return AnonymousIdentity
}

// parseMultipart caps the body at maxFiles plus multipartOverhead and parses
// the form. An oversized body comes back as a file-too-large validation error.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxFiles int64) error {
	if maxFiles > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxFiles+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &conversion.ValidationError{
				Kind: conversion.ErrFileTooLarge,
				Msg:  fmt.Sprintf("request exceeds the maximum upload size of %d MB", maxFiles>>20),
			}
		}
		return &conversion.ValidationError{
			Kind:   conversion.ErrValidation,
			Msg:    "request must be multipart/form-data",
			Fields: map[string]string{"body": "multipart"},
		}
	}
	return nil
}

func readUpload(fh *multipart.FileHeader) (port.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return port.UploadedFile{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer func() {
		_ = f.Close()
	}()
	data, err := io.ReadAll(f)
	if err != nil {
		return port.UploadedFile{}, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return port.UploadedFile{Name: fh.Filename, Data: data}, nil
}

func formValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if vs := r.MultipartForm.Value[k]; len(vs) > 0 && strings.TrimSpace(vs[0]) != "" {
			return vs[0]
		}
	}
	return ""
}

// rawOptions collects every single-valued form field; unknown keys are
// ignored downstream.
func rawOptions(r *http.Request) port.RawOptions {
	opts := make(port.RawOptions, len(r.MultipartForm.Value))
	for k, vs := range r.MultipartForm.Value {
		if len(vs) > 0 {
			opts[k] = vs[0]
		}
	}
	return opts
}

package scolaryapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// Request describes one API call.
// JSON takes precedence over Body; Body is sent as-is with ContentType.
type Request struct {
	Method      string
	JSON        any
	Body        io.Reader
	ContentType string
	Query       url.Values
	Headers     map[string]string
	// Anonymous skips the Authorization header.
	Anonymous bool
}

// Blob is a binary response such as a rendered PDF.
type Blob struct {
	ContentType string
	Data        []byte
}

func (r Request) encode() ([]byte, string, error) {
	if r.JSON != nil {
		b, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("scolaryapi: encode json: %w", err)
		}
		return b, "application/json", nil
	}
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("scolaryapi: read request body: %w", err)
		}
		return b, r.ContentType, nil
	}
	return nil, "", nil
}

// FilePart is one file of a multipart upload.
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// MultipartBody builds a multipart/form-data body from plain fields and files.
// It returns the body and its Content-Type (with boundary).
func MultipartBody(fields map[string]string, files ...FilePart) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("scolaryapi: write field %s: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("scolaryapi: create file part %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("scolaryapi: copy file %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("scolaryapi: close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"blogcms/internal/service"
)

// requestValues reads a flat JSON object or a form body into one map.
func requestValues(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		values := map[string]string{}
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return flatten(r.PostForm), nil
}

func flatten(form map[string][]string) map[string]string {
	values := make(map[string]string, len(form))
	for k, v := range form {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	return values
}

// multipartValues parses an upload form. file is nil when the field was left
// empty; the caller closes it otherwise.
func (h *Handlers) multipartValues(w http.ResponseWriter, r *http.Request, fileField string) (map[string]string, *service.Upload, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+1<<20)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, nil, nil, fieldTooLarge(fileField, h.Cfg.MaxUploadSize)
		}
		return nil, nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}
	if r.PostForm == nil {
		if err := r.ParseForm(); err != nil {
			return nil, nil, nil, fmt.Errorf("parse form: %w", err)
		}
	}

	values := flatten(r.PostForm)

	file, header, err := r.FormFile(fileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return values, nil, nil, nil
		}
		return nil, nil, nil, fmt.Errorf("read %s: %w", fileField, err)
	}

	if header.Size > h.Cfg.MaxUploadSize {
		file.Close()
		return values, nil, nil, fieldTooLarge(fileField, h.Cfg.MaxUploadSize)
	}

	return values, &service.Upload{FileName: header.Filename, Reader: file, Size: header.Size}, file, nil
}

func fieldTooLarge(field string, limit int64) error {
	return &service.ValidationError{Fields: map[string][]string{
		field: {fmt.Sprintf("File is too large. The limit is %d MB.", limit>>20)},
	}}
}

func pageParam(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// safeNext only follows local redirects.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

package utils

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// ErrMissingFile is returned when the multipart field holds no file.
var ErrMissingFile = errors.New("missing upload file")

// SaveTempUpload buffers the multipart file in field to a temporary file.
// The returned cleanup removes it and is safe to call more than once.
func SaveTempUpload(c *gin.Context, field string) (string, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", func() {}, ErrMissingFile
		}
		return "", func() {}, fmt.Errorf("failed to read form file %q: %w", field, err)
	}

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	cleanup := func() { os.Remove(path) }
	if err := c.SaveUploadedFile(header, path); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("failed to save upload: %w", err)
	}
	return path, cleanup, nil
}

// FormFields flattens the non-file multipart values into a document.
// Repeated keys keep every value as a list.
func FormFields(c *gin.Context) (map[string]interface{}, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	fields := make(map[string]interface{}, len(form.Value))
	for key, values := range form.Value {
		if len(values) == 1 {
			fields[key] = values[0]
			continue
		}
		fields[key] = values
	}
	return fields, nil
}

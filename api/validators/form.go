package validators

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
)

const maxUploadBytes = 5 << 20

// IsMultipart reports whether the request carries a multipart form body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}

// ParseForm loads a multipart form body, capping the upload size.
func ParseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return nil
}

// FormImage extracts an uploaded file from a parsed multipart form. A missing
// file is not an error; the caller decides whether the upload is required.
func FormImage(r *http.Request, field string) (filename, contentType string, data []byte, err error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", "", nil, nil
		}
		return "", "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded file")
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return "", "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded file")
	}
	if len(data) > maxUploadBytes {
		return "", "", nil, pkgerrors.New(pkgerrors.CodeValidation, "uploaded file too large")
	}

	filename = filepath.Base(header.Filename)
	contentType = header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return filename, contentType, data, nil
}

// FormValue returns a trimmed form field value.
func FormValue(r *http.Request, field string) string {
	return strings.TrimSpace(r.FormValue(field))
}

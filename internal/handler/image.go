package handler

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/devicehub/devicehub/internal/blob"
)

// imageField is the multipart form field carrying an upload.
const imageField = "image"

// readImage reads an image upload from either a multipart form field named
// "image" or the raw request body. Uploads larger than limit are rejected
// with 413. On failure it writes the response and returns false.
func readImage(w http.ResponseWriter, r *http.Request, limit int64) (*bytes.Reader, bool) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile(imageField)
		if err != nil {
			writeUploadError(w, err)
			return nil, false
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		writeUploadError(w, err)
		return nil, false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "EMPTY_IMAGE", "Image upload is empty")
		return nil, false
	}
	return bytes.NewReader(data), true
}

func writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "Image exceeds the size limit")
		return
	}
	writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Expected an image in field \""+imageField+"\"")
}

// writeImage writes raw PNG bytes.
func writeImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

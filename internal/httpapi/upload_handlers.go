package httpapi

import (
	"errors"
	"io"
	"net/http"

	"storefront.dev/internal/audit"
	"storefront.dev/internal/upload"
)

// uploadFormField is the multipart field clients put the file in.
const uploadFormField = "image"

// Backend selection is the caller's: /uploads hits local disk,
// /uploads/s3 hits object storage. The gateway never auto-detects.

func (a *API) handleLocalUpload(w http.ResponseWriter, r *http.Request) {
	a.handleUpload(w, r, a.localUploads, "local")
}

func (a *API) handleRemoteUpload(w http.ResponseWriter, r *http.Request) {
	a.handleUpload(w, r, a.remoteUploads, "s3")
}

func (a *API) handleUpload(w http.ResponseWriter, r *http.Request, backend upload.Backend, kind string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if backend == nil {
		writeError(w, r, http.StatusServiceUnavailable, kind+" storage is not configured")
		return
	}

	// Headroom over the ingest ceiling for multipart framing; the real
	// limit is enforced by the backend's shared validation.
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+1<<20)

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "no file supplied")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logServerError(r, err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	ref, err := backend.Ingest(r.Context(), upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	})
	if err != nil {
		handleUploadError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "upload.ingest", map[string]any{
		"backend": kind,
		"name":    header.Filename,
		"size":    header.Size,
	})

	writeJSON(w, http.StatusOK, map[string]string{"image": ref})
}

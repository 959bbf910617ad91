package http

import (
	"io"
	"net/http"
	"path"
	"strconv"

	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/storage"

	"github.com/gorilla/mux"
)

// ImageHandler serves report images kept on the local filesystem backend.
type ImageHandler struct {
	store storage.Storage
}

func NewImageHandler(store storage.Storage) *ImageHandler {
	return &ImageHandler{store: store}
}

// Download streams a stored image by key.
func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "Missing key", http.StatusBadRequest)
		return
	}

	exists, size, err := h.store.Exists(r.Context(), key)
	if err != nil {
		// Keys that escape the uploads root are rejected by the backend.
		logger.WarnContext(r.Context(), "Image lookup failed", "key", key, "error", err)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if !exists {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	file, err := h.store.Open(r.Context(), key)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to open stored image", "key", key, "error", err)
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch path.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	io.Copy(w, file)
}

package http

import (
	"errors"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/happycart-demo/internal/capture"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"go.uber.org/zap"
)

// GalleryHandler is a read/delete client over photos kept by the camera service.
type GalleryHandler struct {
	gallery port.PhotoGallery
	logger  *zap.Logger
}

func NewGalleryHandler(gallery port.PhotoGallery, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		gallery: gallery,
		logger:  logger,
	}
}

func (h *GalleryHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	if h.gallery == nil {
		respondError(w, http.StatusServiceUnavailable, "gallery_unavailable", "photo gallery is not configured")
		return
	}

	photos, err := h.gallery.ListPhotos(r.Context())
	if err != nil {
		h.logger.Warn("gallery listing failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "camera_service_error", "failed to fetch photos")
		return
	}

	out := GalleryDTO{Photos: make([]GalleryPhotoDTO, 0, len(photos))}
	for _, p := range photos {
		out.Photos = append(out.Photos, GalleryPhotoDTO{
			Filename: p.Filename,
			URL:      p.URL,
			Path:     p.Path,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *GalleryHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if h.gallery == nil {
		respondError(w, http.StatusServiceUnavailable, "gallery_unavailable", "photo gallery is not configured")
		return
	}

	filename := chi.URLParam(r, "filename")
	if filename == "" || path.Base(filename) != filename || filename == "." || filename == ".." {
		respondError(w, http.StatusBadRequest, "invalid_filename", "filename is invalid")
		return
	}

	if err := h.gallery.DeletePhoto(r.Context(), filename); err != nil {
		if errors.Is(err, capture.ErrPhotoNotFound) {
			respondError(w, http.StatusNotFound, "photo_not_found", "photo not found")
			return
		}
		h.logger.Warn("gallery delete failed", zap.String("filename", filename), zap.Error(err))
		respondError(w, http.StatusBadGateway, "camera_service_error", "failed to delete photo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

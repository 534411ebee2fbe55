package handlers

import (
	"log"
	"net/http"
	"strings"

	"tollgate/models"
	"tollgate/photo"
)

// UploadHandler ingests a single photo.
type UploadHandler struct {
	ingestor *photo.Ingestor
}

func NewUploadHandler(ingestor *photo.Ingestor) *UploadHandler {
	return &UploadHandler{ingestor: ingestor}
}

// Upload stores the photo in {image, filename} and returns its canonical URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req models.UploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, "No image provided", http.StatusBadRequest)
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), req.Image)
	if err != nil {
		log.Printf("❌ Photo upload failed: %v", err)
		writeJSON(w, errorStatus(err), models.UploadResponse{
			Success: false,
			Error:   "Gagal mengupload foto: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Success:  true,
		URL:      result.URL,
		Filename: result.Filename,
		DriveID:  result.RemoteID,
		LocalURL: result.LocalURL,
	})
}

package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tollgate/db"
	"tollgate/middleware"
	"tollgate/models"
	"tollgate/photo"
	"tollgate/report"
)

// IncidentHandler serves the incident listing and its mutations.
type IncidentHandler struct {
	repo      *db.IncidentRepository
	dropdowns *DropdownHandler
	ingestor  *photo.Ingestor
	reports   *report.Service
	audit     *db.AuditLogger
	now       func() time.Time
}

// NewIncidentHandler creates the handler. A nil repo puts it in demo mode:
// reads serve sample data and writes are rejected.
func NewIncidentHandler(repo *db.IncidentRepository, dropdowns *DropdownHandler, ingestor *photo.Ingestor, reports *report.Service, audit *db.AuditLogger) *IncidentHandler {
	return &IncidentHandler{
		repo:      repo,
		dropdowns: dropdowns,
		ingestor:  ingestor,
		reports:   reports,
		audit:     audit,
		now:       time.Now,
	}
}

type listResponse struct {
	Success bool                    `json:"success"`
	Data    []models.IncidentRecord `json:"data"`
	IsDemo  bool                    `json:"isDemo"`
	Message string                  `json:"message,omitempty"`
}

type reportRef struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	LocalURL string `json:"localUrl,omitempty"`
}

type mutationResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    *models.IncidentRecord `json:"data,omitempty"`
	Report  *reportRef             `json:"report,omitempty"`
	Warning string                 `json:"warning,omitempty"`
}

// List returns every incident, or the dropdown options with ?type=dropdowns.
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("type") == "dropdowns" {
		h.dropdowns.GetDropdowns(w, r)
		return
	}

	records, isDemo, message := h.records(r)
	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    records,
		IsDemo:  isDemo,
		Message: message,
	})
}

// records loads the listing, falling back to the sample data when the
// store is not configured or cannot be read.
func (h *IncidentHandler) records(r *http.Request) ([]models.IncidentRecord, bool, string) {
	if h.repo == nil {
		return models.SampleIncidents(h.now()), true, demoMessage
	}
	records, err := h.repo.List(r.Context())
	if err != nil {
		log.Printf("⚠️  Failed to read incidents, serving demo data: %v", err)
		return models.SampleIncidents(h.now()), true, fallbackMessage
	}
	return records, false, ""
}

// Create appends a new incident. Photo fields are ingested first; with
// ?report=1 a report is generated after the row is stored.
func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"isDemo":  true,
			"error":   "Google Sheets belum dikonfigurasi. Data tidak dapat disimpan dalam mode demo.",
		})
		return
	}

	var rec models.IncidentRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := rec.Validate(); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.ingestor != nil {
		rec = h.ingestor.IngestRecord(r.Context(), rec)
	}

	saved, err := h.repo.Append(r.Context(), rec)
	if err != nil {
		log.Printf("❌ Failed to append incident: %v", err)
		writeError(w, "Gagal menyimpan data: "+err.Error(), errorStatus(err))
		return
	}
	log.Printf("✅ Incident stored: %s %s", saved.Date, saved.Gate)
	h.audit.Record(r.Context(), middleware.UserID(r.Context()), "create_incident",
		fmt.Sprintf("Gardu %s, tanggal %s", saved.Gate, saved.Date))

	resp := mutationResponse{Success: true, Message: "Data berhasil disimpan", Data: &saved}
	if r.URL.Query().Get("report") == "1" {
		h.attachReport(r, saved, &resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

// attachReport generates the report of a stored record. A failure becomes a
// warning; the stored row is kept.
func (h *IncidentHandler) attachReport(r *http.Request, rec models.IncidentRecord, resp *mutationResponse) {
	if h.reports == nil {
		resp.Warning = "Laporan PDF tidak tersedia"
		return
	}
	artifact, err := h.reports.Generate(r.Context(), rec)
	if err != nil {
		log.Printf("⚠️  Report after create failed: %v", err)
		resp.Warning = "Data tersimpan, tetapi gagal membuat PDF: " + err.Error()
		return
	}
	url, localURL := artifact.Link()
	resp.Report = &reportRef{URL: url, Filename: artifact.Filename, LocalURL: localURL}
}

// Update overwrites the incident at the position given in the path.
func (h *IncidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, "Google Sheets belum dikonfigurasi", http.StatusBadRequest)
		return
	}

	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	var rec models.IncidentRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := rec.Validate(); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.ingestor != nil {
		rec = h.ingestor.IngestRecord(r.Context(), rec)
	}

	if err := h.repo.Update(r.Context(), position, rec); err != nil {
		log.Printf("❌ Failed to update incident %d: %v", position, err)
		writeError(w, "Gagal memperbarui data: "+err.Error(), errorStatus(err))
		return
	}
	h.audit.Record(r.Context(), middleware.UserID(r.Context()), "update_incident",
		fmt.Sprintf("Baris %d", position))

	rec.ID = position
	writeJSON(w, http.StatusOK, mutationResponse{Success: true, Message: "Data berhasil diperbarui", Data: &rec})
}

// Delete removes the incident at the position given in the path. Later
// incidents move up by one.
func (h *IncidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, "Google Sheets belum dikonfigurasi", http.StatusBadRequest)
		return
	}

	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), position); err != nil {
		log.Printf("❌ Failed to delete incident %d: %v", position, err)
		writeError(w, "Gagal menghapus data: "+err.Error(), errorStatus(err))
		return
	}
	h.audit.Record(r.Context(), middleware.UserID(r.Context()), "delete_incident",
		fmt.Sprintf("Baris %d", position))

	writeJSON(w, http.StatusOK, mutationResponse{Success: true, Message: "Data berhasil dihapus"})
}

func positionParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	position, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "Invalid incident id", http.StatusBadRequest)
		return 0, false
	}
	return position, true
}

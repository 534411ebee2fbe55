package handlers

import (
	"fmt"
	"log"
	"net/http"

	"tollgate/db"
	"tollgate/middleware"
	"tollgate/models"
	"tollgate/report"
)

// ReportHandler renders the PDF report of a submitted record. The incident
// store is never touched.
type ReportHandler struct {
	reports *report.Service
	audit   *db.AuditLogger
}

func NewReportHandler(reports *report.Service, audit *db.AuditLogger) *ReportHandler {
	return &ReportHandler{reports: reports, audit: audit}
}

// Generate handles POST /api/generate-pdf.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var rec models.IncidentRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	artifact, err := h.reports.Generate(r.Context(), rec)
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ReportResponse{
			Success: false,
			Error:   "Gagal membuat PDF: " + err.Error(),
		})
		return
	}
	h.audit.Record(r.Context(), middleware.UserID(r.Context()), "generate_report",
		fmt.Sprintf("%s (Gardu %s, tanggal %s)", artifact.Filename, rec.Gate, rec.Date))

	url, localURL := artifact.Link()
	writeJSON(w, http.StatusOK, models.ReportResponse{
		Success:  true,
		URL:      url,
		Filename: artifact.Filename,
		LocalURL: localURL,
	})
}

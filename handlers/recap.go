package handlers

import (
	"bytes"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tollgate/db"
	"tollgate/middleware"
	"tollgate/photo"
	"tollgate/recap"
)

// RecapHandler serves recap statistics and exports.
type RecapHandler struct {
	incidents *IncidentHandler
	exports   photo.ObjectStore
	audit     *db.AuditLogger
	now       func() time.Time
}

// NewRecapHandler creates the handler. exports may be nil; uploads of
// exports are then rejected.
func NewRecapHandler(incidents *IncidentHandler, exports photo.ObjectStore, audit *db.AuditLogger) *RecapHandler {
	return &RecapHandler{incidents: incidents, exports: exports, audit: audit, now: time.Now}
}

type recapResponse struct {
	Success bool               `json:"success"`
	IsDemo  bool               `json:"isDemo"`
	Message string             `json:"message,omitempty"`
	Period  recap.Period       `json:"period"`
	Label   string             `json:"label"`
	Stats   recap.Stats        `json:"stats"`
	Monthly []recap.MonthTotal `json:"monthly"`
	Years   []int              `json:"years"`
}

// parsePeriod reads ?year= and ?month=. The year defaults to the current
// one and month 0 or absent selects the whole year.
func (h *RecapHandler) parsePeriod(r *http.Request) (recap.Period, bool) {
	q := r.URL.Query()
	p := recap.Period{Year: h.now().Year()}

	if v := strings.TrimSpace(q.Get("year")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1 {
			return p, false
		}
		p.Year = year
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" && v != "all" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 0 || month > 12 {
			return p, false
		}
		p.Month = month
	}
	return p, true
}

// GetRecap handles GET /api/recap.
func (h *RecapHandler) GetRecap(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(r)
	if !ok {
		writeError(w, "Invalid year or month", http.StatusBadRequest)
		return
	}

	all, isDemo, message := h.incidents.records(r)
	selected := recap.Filter(all, period)

	writeJSON(w, http.StatusOK, recapResponse{
		Success: true,
		IsDemo:  isDemo,
		Message: message,
		Period:  period,
		Label:   period.Label(),
		Stats:   recap.Compute(selected),
		Monthly: recap.MonthlyBreakdown(all, period.Year),
		Years:   recap.Years(all, h.now()),
	})
}

// Export handles GET /api/recap/export?format=csv|xlsx. With upload=1 the
// file is stored in the object store and its URL returned.
func (h *RecapHandler) Export(w http.ResponseWriter, r *http.Request) {
	period, ok := h.parsePeriod(r)
	if !ok {
		writeError(w, "Invalid year or month", http.StatusBadRequest)
		return
	}

	all, _, _ := h.incidents.records(r)
	selected := recap.Filter(all, period)

	var buf bytes.Buffer
	var ext, contentType string
	var err error
	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "csv":
		ext, contentType = ".csv", "text/csv"
		err = recap.WriteCSV(&buf, selected)
	case "xlsx":
		ext, contentType = ".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = recap.WriteXLSX(&buf, selected, period)
	default:
		writeError(w, "Unsupported export format: "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("❌ Failed to build recap export: %v", err)
		writeError(w, "Failed to build export", http.StatusInternalServerError)
		return
	}

	filename := recap.ExportName(period) + ext
	h.audit.Record(r.Context(), middleware.UserID(r.Context()), "export_recap", filename)

	if r.URL.Query().Get("upload") == "1" {
		h.upload(w, r, filename, contentType, buf.Bytes())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("⚠️  Failed to write export: %v", err)
		return
	}
	log.Printf("📊 Recap export %s: %d incidents", filename, len(selected))
}

func (h *RecapHandler) upload(w http.ResponseWriter, r *http.Request, filename, contentType string, data []byte) {
	if h.exports == nil {
		writeError(w, "No object store configured for exports", http.StatusBadRequest)
		return
	}
	obj, err := h.exports.Upload(r.Context(), filename, contentType, data)
	if err != nil {
		log.Printf("❌ Failed to upload export %s: %v", filename, err)
		writeError(w, "Failed to upload export", http.StatusBadGateway)
		return
	}
	log.Printf("☁️  Recap export uploaded: %s", obj.URL)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"url":      obj.URL,
		"filename": filename,
	})
}


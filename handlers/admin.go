package handlers

import (
	"net/http"
	"strconv"

	"tollgate/auth"
	"tollgate/db"
	"tollgate/models"
)

type AdminHandler struct {
	users *auth.UserDirectory
	audit *db.AuditLogger
}

func NewAdminHandler(users *auth.UserDirectory, audit *db.AuditLogger) *AdminHandler {
	return &AdminHandler{users: users, audit: audit}
}

// GetUsers returns all dashboard users
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users := h.users.List()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

// GetAuditLogs returns the audit entries recorded by this process, newest
// first. ?limit= caps the number of entries.
func (h *AdminHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	entries := h.audit.Entries()
	if entries == nil {
		entries = []models.AuditLog{}
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"logs":    entries,
		"count":   len(entries),
	})
}

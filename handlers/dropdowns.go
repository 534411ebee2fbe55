package handlers

import (
	"log"
	"net/http"

	"tollgate/dropdown"
	"tollgate/models"
)

// DropdownHandler serves the reference-sheet options.
type DropdownHandler struct {
	loader *dropdown.Loader
}

// NewDropdownHandler creates the handler. A nil loader serves sample options.
func NewDropdownHandler(loader *dropdown.Loader) *DropdownHandler {
	return &DropdownHandler{loader: loader}
}

type dropdownResponse struct {
	Success  bool                     `json:"success"`
	Data     models.DropdownOptionSet `json:"data"`
	Resolved map[string][]string      `json:"resolved"`
	IsDemo   bool                     `json:"isDemo"`
	Message  string                   `json:"message,omitempty"`
}

// GetDropdowns returns the raw option groups and the options resolved for
// every select field of the form.
func (h *DropdownHandler) GetDropdowns(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeJSON(w, http.StatusOK, demoDropdowns(dropdown.DefaultSynonyms(), demoMessage))
		return
	}

	set, err := h.loader.Load(r.Context())
	if err != nil {
		log.Printf("⚠️  Failed to load dropdowns, serving demo options: %v", err)
		writeJSON(w, http.StatusOK, demoDropdowns(h.loader.Synonyms(), fallbackMessage))
		return
	}

	writeJSON(w, http.StatusOK, dropdownResponse{
		Success:  true,
		Data:     set.Options(),
		Resolved: set.ResolveForm(),
	})
}

func demoDropdowns(synonyms dropdown.Synonyms, message string) dropdownResponse {
	set := dropdown.FromOptions(models.SampleDropdowns(), synonyms)
	return dropdownResponse{
		Success:  true,
		Data:     set.Options(),
		Resolved: set.ResolveForm(),
		IsDemo:   true,
		Message:  message,
	}
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/prateekgoyal/proposalhub/internal/search"
)

type AdminHandler struct {
	svc     *search.Service
	verbose bool
}

func NewAdminHandler(svc *search.Service, verbose bool) *AdminHandler {
	return &AdminHandler{svc: svc, verbose: verbose}
}

// RebuildIndex runs a blocking, all-or-nothing reindex. Admin only; the
// role check happens in the router middleware.
func (h *AdminHandler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Force bool `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Rebuild(r.Context(), body.Force)
	if err != nil {
		writeServiceError(w, err, h.verbose)
		return
	}
	writeOK(w, map[string]interface{}{
		"document_count": res.DocumentCount,
		"rebuild_time":   res.RebuildTimeMs,
		"forced":         res.Forced,
		"skipped":        res.Skipped,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prateekgoyal/proposalhub/internal/search"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeOK(w http.ResponseWriter, data map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range data {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

// writeServiceError maps service errors onto the envelope. Validation
// errors carry per-field messages; unexpected errors stay generic unless
// verbose (non-production) mode is on.
func writeServiceError(w http.ResponseWriter, err error, verbose bool) {
	var ve *search.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "validation failed",
			"errors":  ve.Fields,
		})
		return
	}
	if errors.Is(err, search.ErrNotFound) {
		writeFail(w, http.StatusNotFound, "document not found")
		return
	}
	if errors.Is(err, search.ErrRebuildInProgress) {
		writeFail(w, http.StatusConflict, "index rebuild already in progress")
		return
	}

	message := "internal server error"
	if verbose {
		message = err.Error()
	}
	writeFail(w, http.StatusInternalServerError, message)
}

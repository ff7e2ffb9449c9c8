package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prateekgoyal/proposalhub/internal/analytics"
)

type AnalyticsHandler struct {
	svc     *analytics.Service
	verbose bool
}

func NewAnalyticsHandler(svc *analytics.Service, verbose bool) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, verbose: verbose}
}

func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	report, err := h.svc.Aggregate(r.Context(), from, to, limit)
	if err != nil {
		writeServiceError(w, err, h.verbose)
		return
	}
	writeOK(w, map[string]interface{}{"analytics": report})
}

// parseDateRange reads date_from/date_to query params as RFC 3339 or plain
// dates.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	parse := func(key string) (*time.Time, error) {
		s := r.URL.Query().Get(key)
		if s == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("invalid %s, expected RFC3339 or YYYY-MM-DD", key)
	}

	from, err := parse("date_from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parse("date_to")
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

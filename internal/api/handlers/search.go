package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prateekgoyal/proposalhub/internal/search"
)

type SearchHandler struct {
	svc     *search.Service
	verbose bool
}

func NewSearchHandler(svc *search.Service, verbose bool) *SearchHandler {
	return &SearchHandler{svc: svc, verbose: verbose}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req search.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.execute(w, r, &req)
}

// SearchGet is the simplified GET variant: q, limit, offset.
func (h *SearchHandler) SearchGet(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	req := search.Request{
		Query:     r.URL.Query().Get("q"),
		Limit:     limit,
		Offset:    offset,
		Highlight: true,
	}
	h.execute(w, r, &req)
}

func (h *SearchHandler) execute(w http.ResponseWriter, r *http.Request, req *search.Request) {
	resp, err := h.svc.Search(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.verbose)
		return
	}
	writeOK(w, map[string]interface{}{
		"results":    resp.Results,
		"pagination": resp.Pagination,
		"search":     resp.Search,
		"timing":     resp.Timing,
	})
}

func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suggestions, err := h.svc.Suggestions(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeServiceError(w, err, h.verbose)
		return
	}
	writeOK(w, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

func (h *SearchHandler) Highlight(w http.ResponseWriter, r *http.Request) {
	h.fragment(w, r, true)
}

func (h *SearchHandler) Snippet(w http.ResponseWriter, r *http.Request) {
	h.fragment(w, r, false)
}

func (h *SearchHandler) fragment(w http.ResponseWriter, r *http.Request, whole bool) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query().Get("q")
	snippetLength, _ := strconv.Atoi(r.URL.Query().Get("snippet_length"))
	opts := search.FragmentOptions{
		OpenTag:       r.URL.Query().Get("open_tag"),
		CloseTag:      r.URL.Query().Get("close_tag"),
		SnippetLength: snippetLength,
	}

	var (
		frag interface{}
		err  error
	)
	if whole {
		frag, err = h.svc.Highlight(r.Context(), id, q, opts)
	} else {
		frag, err = h.svc.Snippet(r.Context(), id, q, opts)
	}
	if err != nil {
		writeServiceError(w, err, h.verbose)
		return
	}
	writeOK(w, map[string]interface{}{"document": frag})
}

func (h *SearchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.svc.Stats(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, h.verbose)
		return
	}
	writeOK(w, map[string]interface{}{"stats": stats})
}

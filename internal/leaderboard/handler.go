package leaderboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
)

// maxBodySize bounds a submission body.
const maxBodySize = 1 << 12

// Handler serves the leaderboard API:
//
//	POST /api/record          submit {"username", "score"}
//	GET  /api/records         ?page=1&sorting=score_desc
//	GET  /api/records/live    websocket feed of new records
type Handler struct {
	store  *Store
	hub    *Hub
	logger *log.Logger
	mux    *http.ServeMux
}

// NewHandler creates the API handler. hub may be nil to disable the live feed.
func NewHandler(store *Store, hub *Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{store: store, hub: hub, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /api/record", h.submit)
	h.mux.HandleFunc("GET /api/records", h.records)
	if hub != nil {
		h.mux.Handle("GET /api/records/live", hub)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	rec, err := h.store.Add(sub)
	switch {
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidScore):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("store record", "err", err)
		writeError(w, http.StatusInternalServerError, "could not store record")
		return
	}

	h.logger.Info("record submitted", "username", rec.Username, "score", rec.Score)
	if h.hub != nil {
		h.hub.Broadcast(rec)
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) records(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	n := 1
	if s := q.Get("page"); s != "" {
		var err error
		if n, err = strconv.Atoi(s); err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, ErrInvalidPage.Error())
			return
		}
	}
	sorting, err := ParseSorting(q.Get("sorting"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.Page(n, sorting)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

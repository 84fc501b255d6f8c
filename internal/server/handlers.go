package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/aria-hq/aria-protein-relay/internal/logger"
	"github.com/aria-hq/aria-protein-relay/internal/relay"
)

type handlers struct {
	relay Relay
	log   logger.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *handlers) fetchStructure(w http.ResponseWriter, r *http.Request) {
	payload, err := h.relay.FetchStructure(r.Context(), pathParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writePayload(w, payload)
}

func (h *handlers) searchGene(w http.ResponseWriter, r *http.Request) {
	payload, err := h.relay.SearchByGene(r.Context(), pathParam(r, "name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writePayload(w, payload)
}

// pathParam returns the decoded value of a route parameter. chi matches on the
// raw path when one is present, so the segment may still be escaped.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) writePayload(w http.ResponseWriter, p relay.Payload) {
	w.Header().Set("Content-Type", p.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(p.Body); err != nil {
		h.log.WarnObj("write relay payload", "error", err.Error())
	}
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, relay.StatusFor(err), errorBody{Error: err.Error()})
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WarnObj("write json response", "error", err.Error())
	}
}

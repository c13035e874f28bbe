package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ecowallet/internal/store"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// storeFailure maps a store error onto the response: 404 for a missing
// document, 500 with the error message otherwise.
func (s *Server) storeFailure(w http.ResponseWriter, r *http.Request, err error, op, collection, id string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.events.LogStoreError(r.Context(), err, op, collection, id)
	s.metrics.StoreError(collection, op)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// sanitizeInput trims whitespace and strips control characters other than
// tab and newlines.
func sanitizeInput(v string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(v))
}

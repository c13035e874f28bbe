package http

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"ecowallet/internal/core"
	"ecowallet/internal/log"
)

const collectionTransactions = "transactions"

// handleListTransactions returns every transaction, newest first.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		s.storeFailure(w, r, err, log.OpList, collectionTransactions, "")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = ""
	t.Title = sanitizeInput(t.Title)
	t.Category = sanitizeInput(t.Category)
	t.ApplyDefaults(s.now())
	if !t.Type.IsValid() {
		writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
		return
	}

	created, err := s.store.AddTransaction(r.Context(), t)
	if err != nil {
		s.storeFailure(w, r, err, log.OpCreate, collectionTransactions, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p core.TransactionPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if p.Type != nil && !p.Type.IsValid() {
		writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
		return
	}
	if p.Title != nil {
		title := sanitizeInput(*p.Title)
		p.Title = &title
	}

	updated, err := s.store.UpdateTransaction(r.Context(), id, p)
	if err != nil {
		s.storeFailure(w, r, err, log.OpUpdate, collectionTransactions, id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		s.storeFailure(w, r, err, log.OpDelete, collectionTransactions, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

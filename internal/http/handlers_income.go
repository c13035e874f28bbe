package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecowallet/internal/core"
	"ecowallet/internal/log"
	"ecowallet/internal/store"
)

const collectionIncome = "income"

type incomeRequest struct {
	Amount *core.Amount `json:"amount"`
}

func monthParam(w http.ResponseWriter, r *http.Request) (core.MonthID, bool) {
	month, err := core.ParseMonthID(chi.URLParam(r, "monthId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return month, true
}

// handleGetIncome answers a month without a record with {"amount": 0}.
func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	in, err := s.store.GetIncome(r.Context(), month)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, core.MonthlyIncome{})
		return
	}
	if err != nil {
		s.storeFailure(w, r, err, log.OpRead, collectionIncome, string(month))
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount == nil || req.Amount.IsNegative() {
		writeError(w, http.StatusBadRequest, core.ErrInvalidAmount.Error())
		return
	}

	now := s.now()
	saved, err := s.store.SetIncome(r.Context(), core.MonthlyIncome{ID: month, Amount: *req.Amount, UpdatedAt: &now})
	if err != nil {
		s.storeFailure(w, r, err, log.OpUpsert, collectionIncome, string(month))
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

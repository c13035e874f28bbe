package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecowallet/internal/core"
	"ecowallet/internal/log"
)

const collectionShopping = "shopping"

func (s *Server) handleListShopping(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListShoppingItems(r.Context())
	if err != nil {
		s.storeFailure(w, r, err, log.OpList, collectionShopping, "")
		return
	}
	if items == nil {
		items = []core.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCreateShopping stores a new item with quantity, category, purchase
// flag and creation time defaulted.
func (s *Server) handleCreateShopping(w http.ResponseWriter, r *http.Request) {
	var item core.ShoppingItem
	if err := decodeJSON(w, r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.ID = ""
	item.Name = sanitizeInput(item.Name)
	item.Category = sanitizeInput(item.Category)
	item.IsPurchased = false
	item.ApplyDefaults(s.now())

	created, err := s.store.AddShoppingItem(r.Context(), item)
	if err != nil {
		s.storeFailure(w, r, err, log.OpCreate, collectionShopping, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateShopping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p core.ShoppingPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		writeError(w, http.StatusBadRequest, core.ErrInvalidQuantity.Error())
		return
	}

	updated, err := s.store.UpdateShoppingItem(r.Context(), id, p)
	if err != nil {
		s.storeFailure(w, r, err, log.OpUpdate, collectionShopping, id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteShopping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteShoppingItem(r.Context(), id); err != nil {
		s.storeFailure(w, r, err, log.OpDelete, collectionShopping, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearPurchased(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.ClearPurchased(r.Context())
	if err != nil {
		s.storeFailure(w, r, err, log.OpClear, collectionShopping, "")
		return
	}
	s.logger.InfoContext(r.Context(), "Cleared purchased items", log.FieldItemsCount, n)
	writeJSON(w, http.StatusOK, core.ClearResult{Success: true, Count: n})
}

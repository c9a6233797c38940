package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/username/momoledger/src/logger"
	"github.com/username/momoledger/src/models"
	"github.com/username/momoledger/src/store"
	"github.com/username/momoledger/src/utils"
	"github.com/username/momoledger/src/validation"
)

const statsCacheKey = "stats"

type TransactionHandler struct {
	store      *store.Store
	statsCache *cache.Cache
}

func NewTransactionHandler(txStore *store.Store, statsCache *cache.Cache) *TransactionHandler {
	return &TransactionHandler{
		store:      txStore,
		statsCache: statsCache,
	}
}

// HandleListTransactions serves GET /api/transactions.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := h.store.List()
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"count":  len(txs),
		"data":   txs,
	})
}

// HandleGetTransaction serves GET /api/transactions/{id} via the
// identity index.
func (h *TransactionHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	tx, err := h.store.GetByID(id)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Transaction with ID %d not found", id), http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   tx,
	})
}

// HandleCreateTransaction serves POST /api/transactions.
func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	validation.SanitizeTransactionInput(&in)

	tx, err := h.store.Create(in)
	if err != nil {
		if store.IsValidation(err) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Error creating transaction", "error", err)
		utils.SendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}
	h.invalidateStatsCache()

	logger.FromContext(r.Context()).Info("Transaction created", "id", tx.ID, "type", tx.Type)
	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "Transaction created successfully",
		"data":    tx,
	})
}

// HandleUpdateTransaction serves PUT /api/transactions/{id}. An id in the
// payload never changes the record's identity.
func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	var in models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	validation.SanitizeTransactionInput(&in)

	tx, err := h.store.Update(id, in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Transaction with ID %d not found", id), http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Error updating transaction", "id", id, "error", err)
		utils.SendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	h.invalidateStatsCache()

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Transaction updated successfully",
		"data":    tx,
	})
}

// HandleDeleteTransaction serves DELETE /api/transactions/{id} and
// returns the removed record.
func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	tx, err := h.store.Delete(id)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Transaction with ID %d not found", id), http.StatusNotFound)
		return
	}
	h.invalidateStatsCache()

	logger.FromContext(r.Context()).Info("Transaction deleted", "id", id)
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":              "success",
		"message":             fmt.Sprintf("Transaction %d deleted successfully", id),
		"deleted_transaction": tx,
	})
}

// HandleGetStats serves GET /api/transactions/stats. An empty store
// yields an explicit "no data" envelope, not zeroed aggregates.
func (h *TransactionHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.statsCache.Get(statsCacheKey); found {
		utils.WriteJSON(w, http.StatusOK, cached)
		return
	}

	stats := h.store.Stats()
	if stats == nil {
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "No transactions available",
			"data":    map[string]any{},
		})
		return
	}

	response := map[string]any{
		"status": "success",
		"data":   stats,
	}
	h.statsCache.Set(statsCacheKey, response, cache.DefaultExpiration)
	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *TransactionHandler) invalidateStatsCache() {
	h.statsCache.Delete(statsCacheKey)
}

func (h *TransactionHandler) transactionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid transaction ID: %s", idStr), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"opto-backend/internal/dto"
	"opto-backend/internal/models"
	"opto-backend/internal/store"
	"opto-backend/internal/utils"
)

// TransactionHandler handles transaction CRUD over the flat-file store
type TransactionHandler struct {
	txs *store.TransactionStore
}

// NewTransactionHandler creates a new TransactionHandler instance
func NewTransactionHandler(txs *store.TransactionStore) *TransactionHandler {
	return &TransactionHandler{txs: txs}
}

// List returns all transactions
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Success 200 {array} models.Transaction "Transactions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.txs.List()
	if err != nil {
		log.Printf("transactions: list: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Lookup failed", "Could not read transactions")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, txs)
}

// Get returns a single transaction
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction id"
// @Success 200 {object} models.Transaction "Transaction"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/transactions/{id} [get]
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txs.Get(r.PathValue("id"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Transaction not found", "No transaction with this id")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, tx)
}

// Create adds a new transaction
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionCreateRequest true "Transaction payload"
// @Success 201 {object} models.Transaction "Created transaction"
// @Failure 400 {object} dto.ErrorResponse "Missing required fields"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Description == "" || req.Amount == nil || req.Category == "" ||
		req.Icon == "" || req.Owner == "" || req.Date == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields",
			"Description, amount, category, icon, owner, and date are required")
		return
	}

	tx, err := h.txs.Create(models.Transaction{
		Description: req.Description,
		Amount:      *req.Amount,
		Category:    req.Category,
		Icon:        req.Icon,
		Owner:       req.Owner,
		Date:        req.Date,
	})
	if err != nil {
		log.Printf("transactions: create: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Save failed", "Could not save transaction")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, tx)
}

// Update merges the provided fields over an existing transaction
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction id"
// @Param request body dto.TransactionUpdateRequest true "Fields to update"
// @Success 200 {object} models.Transaction "Updated transaction"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/transactions/{id} [put]
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tx, err := h.txs.Update(r.PathValue("id"), store.TransactionPatch{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Icon:        req.Icon,
		Owner:       req.Owner,
		Date:        req.Date,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Transaction not found", "No transaction with this id")
			return
		}
		log.Printf("transactions: update: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Save failed", "Could not update transaction")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, tx)
}

// Delete removes a transaction
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction id"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.txs.Delete(r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Transaction not found", "No transaction with this id")
			return
		}
		log.Printf("transactions: delete: %v", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Delete failed", "Could not delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opto-backend/internal/models"
	"opto-backend/internal/store"
)

func newTransactionMux(t *testing.T) (*http.ServeMux, *store.TransactionStore) {
	t.Helper()
	txs, err := store.NewTransactionStore(filepath.Join(t.TempDir(), "transactions.json"))
	require.NoError(t, err)

	h := NewTransactionHandler(txs)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transactions", h.List)
	mux.HandleFunc("POST /api/transactions", h.Create)
	mux.HandleFunc("GET /api/transactions/{id}", h.Get)
	mux.HandleFunc("PUT /api/transactions/{id}", h.Update)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.Delete)
	return mux, txs
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestTransactionCRUD(t *testing.T) {
	mux, _ := newTransactionMux(t)

	// empty list
	rec := doJSON(t, mux, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// create
	rec = doJSON(t, mux, http.MethodPost, "/api/transactions", map[string]any{
		"description": "Whole Foods",
		"amount":      -127.45,
		"category":    "Groceries",
		"icon":        "ShoppingCart",
		"owner":       "partner",
		"date":        "Dec 28",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, -127.45, created.Amount)

	// get
	rec = doJSON(t, mux, http.MethodGet, "/api/transactions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// update one field
	rec = doJSON(t, mux, http.MethodPut, "/api/transactions/"+created.ID, map[string]any{
		"amount": -130.00,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, -130.00, updated.Amount)
	assert.Equal(t, "Whole Foods", updated.Description)

	// delete
	rec = doJSON(t, mux, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/transactions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionCreateValidation(t *testing.T) {
	mux, _ := newTransactionMux(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty body", map[string]any{}},
		{"missing amount", map[string]any{
			"description": "Coffee", "category": "Dining", "icon": "Coffee",
			"owner": "me", "date": "Jan 2",
		}},
		{"missing description", map[string]any{
			"amount": -4.5, "category": "Dining", "icon": "Coffee",
			"owner": "me", "date": "Jan 2",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTransactionZeroAmountAllowed(t *testing.T) {
	mux, _ := newTransactionMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/transactions", map[string]any{
		"description": "Balance check", "amount": 0, "category": "Transfer",
		"icon": "CreditCard", "owner": "me", "date": "Jan 2",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestTransactionUnknownID(t *testing.T) {
	mux, _ := newTransactionMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/transactions/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodPut, "/api/transactions/no-such-id", map[string]any{"amount": 1.0})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/api/transactions/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

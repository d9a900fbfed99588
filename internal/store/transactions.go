package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"opto-backend/internal/models"
)

// TransactionStore is the flat-file list of transaction records. The whole
// file is read on every access and rewritten on every mutation. The mutex
// serializes access within this process; concurrent writers from other
// processes can still lose updates.
type TransactionStore struct {
	path string
	mu   sync.Mutex
}

// NewTransactionStore creates a store over the given JSON file, creating the
// parent directory and an empty list if needed.
func NewTransactionStore(path string) (*TransactionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &TransactionStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeAll([]models.Transaction{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// List returns all transactions in file order
func (s *TransactionStore) List() ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(), nil
}

// Get returns one transaction by id, or ErrNotFound
func (s *TransactionStore) Get(id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.readAll() {
		if tx.ID == id {
			return &tx, nil
		}
	}
	return nil, ErrNotFound
}

// Create appends a new transaction with a generated id
func (s *TransactionStore) Create(tx models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = newTransactionID()
	all := append(s.readAll(), tx)
	if err := s.writeAll(all); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Update merges the non-nil fields of patch over the stored record
func (s *TransactionStore) Update(id string, patch TransactionPatch) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if patch.Description != nil {
			all[i].Description = *patch.Description
		}
		if patch.Amount != nil {
			all[i].Amount = *patch.Amount
		}
		if patch.Category != nil {
			all[i].Category = *patch.Category
		}
		if patch.Icon != nil {
			all[i].Icon = *patch.Icon
		}
		if patch.Owner != nil {
			all[i].Owner = *patch.Owner
		}
		if patch.Date != nil {
			all[i].Date = *patch.Date
		}
		if err := s.writeAll(all); err != nil {
			return nil, err
		}
		return &all[i], nil
	}
	return nil, ErrNotFound
}

// Delete removes a transaction. Returns ErrNotFound when the id is unknown.
func (s *TransactionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readAll()
	filtered := all[:0:0]
	for _, tx := range all {
		if tx.ID != id {
			filtered = append(filtered, tx)
		}
	}
	if len(filtered) == len(all) {
		return ErrNotFound
	}
	return s.writeAll(filtered)
}

// Seed writes the given transactions if the store is empty. Returns true
// when seeding happened.
func (s *TransactionStore) Seed(txs []models.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.readAll()) > 0 {
		return false, nil
	}
	if err := s.writeAll(txs); err != nil {
		return false, err
	}
	return true, nil
}

// TransactionPatch is the set of optionally-updated transaction fields
type TransactionPatch struct {
	Description *string
	Amount      *float64
	Category    *string
	Icon        *string
	Owner       *string
	Date        *string
}

// readAll loads the whole file. A missing or malformed file reads as an
// empty list.
func (s *TransactionStore) readAll() []models.Transaction {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []models.Transaction{}
	}
	var txs []models.Transaction
	if err := json.Unmarshal(data, &txs); err != nil || txs == nil {
		return []models.Transaction{}
	}
	return txs
}

func (s *TransactionStore) writeAll(txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write transactions file: %w", err)
	}
	return nil
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newTransactionID builds an id from the millisecond timestamp plus a short
// random base36 suffix.
func newTransactionID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), suffix)
}

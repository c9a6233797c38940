// Package store holds the full transaction set in memory behind two
// synchronized views: an insertion-ordered sequence for listing and
// aggregation, and an id-keyed index for O(1) point lookups. The store is
// volatile; it is rebuilt from the SMS log on every process start.
package store

import (
	"sync"

	"github.com/username/momoledger/src/models"
)

// Store owns both views. Every operation takes the mutex before touching
// either, so a reader can never observe a record present in one view and
// missing from the other.
type Store struct {
	mu      sync.Mutex
	ordered []*models.Transaction
	byID    map[int64]*models.Transaction
	nextID  int64
}

func New() *Store {
	return &Store{
		byID:   make(map[int64]*models.Transaction),
		nextID: 1,
	}
}

// Seed populates the store from the extraction engine's output, assigning
// sequential IDs in input order. The ID counter resumes after the highest
// assigned ID, so later creates never reuse one.
func (s *Store) Seed(txs []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range txs {
		tx := txs[i]
		tx.ID = s.nextID
		s.nextID++
		s.insertLocked(&tx)
	}
}

func (s *Store) insertLocked(tx *models.Transaction) {
	s.ordered = append(s.ordered, tx)
	s.byID[tx.ID] = tx
}

// List returns a snapshot copy of every transaction in insertion order.
func (s *Store) List() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Transaction, len(s.ordered))
	for i, tx := range s.ordered {
		out[i] = *tx
	}
	return out
}

// Len reports the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ordered)
}

// GetByID looks a transaction up through the identity index.
func (s *Store) GetByID(id int64) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.byID[id]
	if !ok {
		return models.Transaction{}, ErrNotFound
	}
	return *tx, nil
}

// SearchLinear scans the ordered sequence for the given ID and reports
// how many comparisons it took. It exists only as the O(n) baseline for
// comparing lookup cost against GetByID; handlers never call it.
func (s *Store) SearchLinear(id int64) (models.Transaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comparisons := 0
	for _, tx := range s.ordered {
		comparisons++
		if tx.ID == id {
			return *tx, comparisons, nil
		}
	}
	return models.Transaction{}, comparisons, ErrNotFound
}

// Create validates the payload, assigns the next ID and inserts the new
// record into both views. Type and amount are required; everything else
// defaults to zero or absent.
func (s *Store) Create(in models.TransactionInput) (models.Transaction, error) {
	if in.Type == nil || *in.Type == "" {
		return models.Transaction{}, &ValidationError{Field: "transaction_type"}
	}
	if in.Amount == nil {
		return models.Transaction{}, &ValidationError{Field: "amount"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	amount := *in.Amount
	tx := &models.Transaction{
		ID:            s.nextID,
		Type:          *in.Type,
		Amount:        &amount,
		Sender:        in.Sender,
		Recipient:     in.Recipient,
		PhoneNumber:   in.PhoneNumber,
		TransactionID: in.TransactionID,
		Date:          in.Date,
	}
	if in.Fee != nil {
		tx.Fee = *in.Fee
	}
	if in.Balance != nil {
		tx.Balance = *in.Balance
	}
	if in.Message != nil {
		tx.Message = *in.Message
	}

	s.nextID++
	s.insertLocked(tx)

	return *tx, nil
}

// Update merges the supplied fields into an existing record. The record's
// identity never changes: an id in the payload is ignored. Both views
// share the record pointer, so a single in-place merge keeps them
// consistent.
func (s *Store) Update(id int64, in models.TransactionInput) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.byID[id]
	if !ok {
		return models.Transaction{}, ErrNotFound
	}

	if in.Type != nil {
		tx.Type = *in.Type
	}
	if in.Amount != nil {
		amount := *in.Amount
		tx.Amount = &amount
	}
	if in.Fee != nil {
		tx.Fee = *in.Fee
	}
	if in.Balance != nil {
		tx.Balance = *in.Balance
	}
	if in.Sender != nil {
		tx.Sender = in.Sender
	}
	if in.Recipient != nil {
		tx.Recipient = in.Recipient
	}
	if in.PhoneNumber != nil {
		tx.PhoneNumber = in.PhoneNumber
	}
	if in.TransactionID != nil {
		tx.TransactionID = in.TransactionID
	}
	if in.Date != nil {
		tx.Date = in.Date
	}
	if in.Message != nil {
		tx.Message = *in.Message
	}

	return *tx, nil
}

// Delete removes a record from both views and returns it so the caller
// can confirm what was deleted. The ID is never reassigned afterwards.
func (s *Store) Delete(id int64) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.byID[id]
	if !ok {
		return models.Transaction{}, ErrNotFound
	}

	delete(s.byID, id)
	for i, candidate := range s.ordered {
		if candidate.ID == id {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}

	return *tx, nil
}

// Stats aggregates over the ordered sequence. It returns nil when the
// store is empty so callers can distinguish "nothing to summarize" from
// aggregates that genuinely sum to zero. Absent amounts count as zero,
// never as skipped records.
func (s *Store) Stats() *models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ordered) == 0 {
		return nil
	}

	stats := &models.Stats{
		TotalTransactions: len(s.ordered),
		TransactionTypes:  make(map[models.TransactionType]int),
	}
	for _, tx := range s.ordered {
		stats.TransactionTypes[tx.Type]++
		stats.TotalAmount += tx.AmountValue()
		stats.TotalFees += tx.Fee
	}
	return stats
}

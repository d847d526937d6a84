package party

import (
	"context"
	"sort"
)

type StubRepository struct {
	ledgers      map[int]Ledger
	transactions map[int]Transaction
	nextLedger   int
	nextTxn      int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		ledgers:      map[int]Ledger{},
		transactions: map[int]Transaction{},
		nextLedger:   1,
		nextTxn:      1,
	}
}

func (r *StubRepository) Cleanup() {
	r.ledgers = map[int]Ledger{}
	r.transactions = map[int]Transaction{}
	r.nextLedger = 1
	r.nextTxn = 1
}

func (r *StubRepository) StoreLedger(_ context.Context, l Ledger) (Ledger, error) {
	l.ID = r.nextLedger
	r.nextLedger++
	r.ledgers[l.ID] = l
	return l, nil
}

func (r *StubRepository) GetLedger(_ context.Context, id int) (Ledger, error) {
	l, ok := r.ledgers[id]
	if !ok {
		return Ledger{}, ErrLedgerNotFound
	}
	return l, nil
}

func (r *StubRepository) UpdateLedger(_ context.Context, l Ledger) (Ledger, error) {
	existing, ok := r.ledgers[l.ID]
	if !ok {
		return Ledger{}, ErrLedgerNotFound
	}
	l.CreatedAt = existing.CreatedAt
	r.ledgers[l.ID] = l
	return l, nil
}

func (r *StubRepository) DeleteLedger(_ context.Context, id int) error {
	if _, ok := r.ledgers[id]; !ok {
		return ErrLedgerNotFound
	}
	delete(r.ledgers, id)
	return nil
}

func (r *StubRepository) ListLedgers(_ context.Context) ([]Ledger, error) {
	ledgers := make([]Ledger, 0, len(r.ledgers))
	for _, l := range r.ledgers {
		ledgers = append(ledgers, l)
	}
	sort.Slice(ledgers, func(i, j int) bool { return ledgers[i].ID < ledgers[j].ID })
	return ledgers, nil
}

func (r *StubRepository) CountTransactions(_ context.Context, partyID int) (int, error) {
	count := 0
	for _, t := range r.transactions {
		if t.PartyID == partyID {
			count++
		}
	}
	return count, nil
}

func (r *StubRepository) StoreTransaction(_ context.Context, t Transaction) (Transaction, error) {
	t.ID = r.nextTxn
	r.nextTxn++
	if l, ok := r.ledgers[t.PartyID]; ok {
		t.PartyName = l.PartyName
	}
	r.transactions[t.ID] = t
	return t, nil
}

func (r *StubRepository) GetTransaction(_ context.Context, id int) (Transaction, error) {
	t, ok := r.transactions[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return t, nil
}

func (r *StubRepository) UpdateTransaction(_ context.Context, t Transaction) (Transaction, error) {
	existing, ok := r.transactions[t.ID]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	t.CreatedAt = existing.CreatedAt
	if l, ok := r.ledgers[t.PartyID]; ok {
		t.PartyName = l.PartyName
	}
	r.transactions[t.ID] = t
	return t, nil
}

func (r *StubRepository) DeleteTransaction(_ context.Context, id int) error {
	if _, ok := r.transactions[id]; !ok {
		return ErrTransactionNotFound
	}
	delete(r.transactions, id)
	return nil
}

func (r *StubRepository) ListTransactions(_ context.Context, filter Filter) ([]Transaction, error) {
	transactions := make([]Transaction, 0)
	for _, t := range r.transactions {
		if filter.PartyID != nil && t.PartyID != *filter.PartyID {
			continue
		}
		if !filter.From.IsZero() && t.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && t.Date.After(filter.To) {
			continue
		}
		transactions = append(transactions, t)
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].ID > transactions[j].ID
	})
	return transactions, nil
}

func (r *StubRepository) TransactionsForParty(_ context.Context, partyID int) ([]Transaction, error) {
	transactions := make([]Transaction, 0)
	for _, t := range r.transactions {
		if t.PartyID == partyID {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		return transactions[i].ID < transactions[j].ID
	})
	return transactions, nil
}

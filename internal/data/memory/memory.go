// Package memory provides in-process implementations of the customer
// directory, account store and operation ledger. They back the demo seeder
// and the engine tests; production wiring uses the postgres and mongo
// implementations instead.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/customer"
	"github.com/digital-banking/account-service/internal/domain/operation"
)

// CustomerDirectory is an in-memory customer.Directory
type CustomerDirectory struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]customer.Customer
}

// NewCustomerDirectory creates an empty in-memory customer directory
func NewCustomerDirectory() *CustomerDirectory {
	return &CustomerDirectory{customers: make(map[uuid.UUID]customer.Customer)}
}

func (d *CustomerDirectory) Create(_ context.Context, cust *customer.Customer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customers[cust.ID] = *cust
	return nil
}

func (d *CustomerDirectory) GetByID(_ context.Context, id uuid.UUID) (*customer.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cust, ok := d.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound{CustomerID: id}
	}
	return &cust, nil
}

func (d *CustomerDirectory) Update(_ context.Context, cust *customer.Customer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.customers[cust.ID]; !ok {
		return customer.ErrCustomerNotFound{CustomerID: cust.ID}
	}
	d.customers[cust.ID] = *cust
	return nil
}

func (d *CustomerDirectory) Delete(_ context.Context, id uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.customers[id]; !ok {
		return customer.ErrCustomerNotFound{CustomerID: id}
	}
	delete(d.customers, id)
	return nil
}

func (d *CustomerDirectory) List(_ context.Context) ([]*customer.Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*customer.Customer, 0, len(d.customers))
	for _, cust := range d.customers {
		c := cust
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (d *CustomerDirectory) Search(ctx context.Context, keyword string) ([]*customer.Customer, error) {
	all, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	if keyword == "" {
		return all, nil
	}

	needle := strings.ToLower(keyword)
	out := make([]*customer.Customer, 0, len(all))
	for _, cust := range all {
		if strings.Contains(strings.ToLower(cust.Name), needle) || strings.Contains(strings.ToLower(cust.Email), needle) {
			out = append(out, cust)
		}
	}
	return out, nil
}

// AccountStore is an in-memory account.Store
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]account.BankAccount
}

// NewAccountStore creates an empty in-memory account store
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[uuid.UUID]account.BankAccount)}
}

func (s *AccountStore) Create(_ context.Context, acc *account.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.ID] = *acc
	return nil
}

func (s *AccountStore) GetByID(_ context.Context, id uuid.UUID) (*account.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}
	return &acc, nil
}

func (s *AccountStore) Update(_ context.Context, acc *account.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[acc.ID]
	if !ok {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}
	if stored.Version != acc.Version-1 {
		return account.ErrConcurrentModification{AccountID: acc.ID}
	}
	s.accounts[acc.ID] = *acc
	return nil
}

func (s *AccountStore) List(_ context.Context) ([]*account.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*account.BankAccount, 0, len(s.accounts))
	for _, acc := range s.accounts {
		a := acc
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *AccountStore) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*account.BankAccount, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*account.BankAccount, 0, len(all))
	for _, acc := range all {
		if acc.CustomerID == customerID {
			out = append(out, acc)
		}
	}
	return out, nil
}

// OperationLedger is an in-memory operation.Ledger preserving append order
type OperationLedger struct {
	mu      sync.RWMutex
	entries []operation.Operation
}

// NewOperationLedger creates an empty in-memory ledger
func NewOperationLedger() *OperationLedger {
	return &OperationLedger{}
}

func (l *OperationLedger) Append(_ context.Context, op *operation.Operation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *op)
	return nil
}

func (l *OperationLedger) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]*operation.Operation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]*operation.Operation, 0)
	for i := range l.entries {
		if l.entries[i].AccountID == accountID {
			op := l.entries[i]
			matched = append(matched, &op)
		}
	}

	if offset >= len(matched) {
		return []*operation.Operation{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (l *OperationLedger) CountByAccount(_ context.Context, accountID uuid.UUID) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var count int64
	for i := range l.entries {
		if l.entries[i].AccountID == accountID {
			count++
		}
	}
	return count, nil
}

package account

import (
	"context"

	"github.com/google/uuid"
)

// Store defines bank account persistence operations. Implementations must
// make Update safe against lost updates, either through the account's
// optimistic-locking version or an equivalent single-writer discipline.
type Store interface {
	Create(ctx context.Context, acc *BankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	Update(ctx context.Context, acc *BankAccount) error
	List(ctx context.Context) ([]*BankAccount, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*BankAccount, error)
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is matches any ErrAccountNotFound when the target carries a nil ID
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || e.AccountID == t.AccountID
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	AccountID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for account: " + e.AccountID.String()
}

package customer

import (
	"context"

	"github.com/google/uuid"
)

// Directory defines customer persistence operations
type Directory interface {
	Create(ctx context.Context, cust *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Update(ctx context.Context, cust *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Customer, error)

	// Search returns customers whose name or email contains the keyword,
	// case-insensitively. An empty keyword behaves like List.
	Search(ctx context.Context, keyword string) ([]*Customer, error)
}

// ErrCustomerNotFound indicates missing customer
type ErrCustomerNotFound struct {
	CustomerID uuid.UUID
}

func (e ErrCustomerNotFound) Error() string {
	return "customer not found: " + e.CustomerID.String()
}

// Is matches any ErrCustomerNotFound when the target carries a nil ID
func (e ErrCustomerNotFound) Is(target error) bool {
	t, ok := target.(ErrCustomerNotFound)
	if !ok {
		return false
	}
	return t.CustomerID == uuid.Nil || e.CustomerID == t.CustomerID
}

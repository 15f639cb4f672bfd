package customer

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName    = errors.New("customer name cannot be empty")
	ErrInvalidEmail = errors.New("customer email is not valid")
)

// Customer represents a bank customer. Accounts reference their owning
// customer by ID; the customer record itself does not embed accounts.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomer creates a new customer with the given name and email
func NewCustomer(name, email string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now()
	return &Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename updates the customer's name and email
func (c *Customer) Rename(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if !validEmail(email) {
		return ErrInvalidEmail
	}

	c.Name = name
	c.Email = email
	c.UpdatedAt = time.Now()
	return nil
}

// validEmail performs a minimal sanity check; full validation is a service
// boundary concern.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

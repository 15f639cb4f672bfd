package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/domain/customer"
)

// CustomerServiceImpl implements the CustomerService interface
type CustomerServiceImpl struct {
	directory customer.Directory
}

// NewCustomerService creates a new customer service
func NewCustomerService(directory customer.Directory) CustomerService {
	return &CustomerServiceImpl{
		directory: directory,
	}
}

// CreateCustomer registers a new customer with the given name and email
func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, name, email string) (*customer.Customer, error) {
	cust, err := customer.NewCustomer(name, email)
	if err != nil {
		return nil, err
	}

	if err := s.directory.Create(ctx, cust); err != nil {
		return nil, err
	}

	return cust, nil
}

// GetCustomerByID retrieves a customer by its ID, returns ErrCustomerNotFound if not found
func (s *CustomerServiceImpl) GetCustomerByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return s.directory.GetByID(ctx, id)
}

// UpdateCustomer changes a customer's name and email
func (s *CustomerServiceImpl) UpdateCustomer(ctx context.Context, id uuid.UUID, name, email string) (*customer.Customer, error) {
	cust, err := s.directory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cust.Rename(name, email); err != nil {
		return nil, err
	}

	if err := s.directory.Update(ctx, cust); err != nil {
		return nil, err
	}

	return cust, nil
}

// DeleteCustomer removes a customer from the directory
func (s *CustomerServiceImpl) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.directory.Delete(ctx, id)
}

// ListCustomers retrieves all customers
func (s *CustomerServiceImpl) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	return s.directory.List(ctx)
}

// SearchCustomers retrieves customers whose name or email matches the keyword
func (s *CustomerServiceImpl) SearchCustomers(ctx context.Context, keyword string) ([]*customer.Customer, error) {
	return s.directory.Search(ctx, keyword)
}

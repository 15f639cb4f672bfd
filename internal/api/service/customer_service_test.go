package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/digital-banking/account-service/internal/domain/customer"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Create(ctx context.Context, cust *customer.Customer) error {
	args := m.Called(ctx, cust)
	return args.Error(0)
}

func (m *MockDirectory) GetByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockDirectory) Update(ctx context.Context, cust *customer.Customer) error {
	args := m.Called(ctx, cust)
	return args.Error(0)
}

func (m *MockDirectory) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDirectory) List(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockDirectory) Search(ctx context.Context, keyword string) ([]*customer.Customer, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		directory := new(MockDirectory)
		directory.On("Create", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

		svc := NewCustomerService(directory)
		cust, err := svc.CreateCustomer(ctx, "Hassan", "hassan@example.com")
		require.NoError(t, err)

		assert.Equal(t, "Hassan", cust.Name)
		assert.NotEqual(t, uuid.Nil, cust.ID)
		directory.AssertExpectations(t)
	})

	t.Run("invalid name never reaches the directory", func(t *testing.T) {
		directory := new(MockDirectory)

		svc := NewCustomerService(directory)
		_, err := svc.CreateCustomer(ctx, "", "hassan@example.com")
		assert.ErrorIs(t, err, customer.ErrEmptyName)
		directory.AssertNotCalled(t, "Create")
	})

	t.Run("directory failure", func(t *testing.T) {
		directory := new(MockDirectory)
		expectedErr := errors.New("db error")
		directory.On("Create", mock.Anything, mock.Anything).Return(expectedErr)

		svc := NewCustomerService(directory)
		_, err := svc.CreateCustomer(ctx, "Hassan", "hassan@example.com")
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestCustomerService_UpdateCustomer(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		existing := &customer.Customer{
			ID:        uuid.New(),
			Name:      "Imane",
			Email:     "imane@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		}

		directory := new(MockDirectory)
		directory.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		directory.On("Update", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

		svc := NewCustomerService(directory)
		updated, err := svc.UpdateCustomer(ctx, existing.ID, "Imane B", "imane.b@example.com")
		require.NoError(t, err)

		assert.Equal(t, "Imane B", updated.Name)
		assert.Equal(t, "imane.b@example.com", updated.Email)
		directory.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		directory := new(MockDirectory)
		directory.On("GetByID", mock.Anything, id).Return(nil, customer.ErrCustomerNotFound{CustomerID: id})

		svc := NewCustomerService(directory)
		_, err := svc.UpdateCustomer(ctx, id, "Nobody", "nobody@example.com")
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound{})
		directory.AssertNotCalled(t, "Update")
	})

	t.Run("invalid rename", func(t *testing.T) {
		existing := &customer.Customer{ID: uuid.New(), Name: "Imane", Email: "imane@example.com"}
		directory := new(MockDirectory)
		directory.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		svc := NewCustomerService(directory)
		_, err := svc.UpdateCustomer(ctx, existing.ID, "", "imane@example.com")
		assert.ErrorIs(t, err, customer.ErrEmptyName)
		directory.AssertNotCalled(t, "Update")
	})
}

func TestCustomerService_Queries(t *testing.T) {
	ctx := context.Background()
	cust := &customer.Customer{ID: uuid.New(), Name: "Mohamed", Email: "mohamed@example.com"}

	t.Run("get by id", func(t *testing.T) {
		directory := new(MockDirectory)
		directory.On("GetByID", mock.Anything, cust.ID).Return(cust, nil)

		svc := NewCustomerService(directory)
		got, err := svc.GetCustomerByID(ctx, cust.ID)
		require.NoError(t, err)
		assert.Equal(t, cust, got)
	})

	t.Run("list", func(t *testing.T) {
		directory := new(MockDirectory)
		directory.On("List", mock.Anything).Return([]*customer.Customer{cust}, nil)

		svc := NewCustomerService(directory)
		all, err := svc.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("search", func(t *testing.T) {
		directory := new(MockDirectory)
		directory.On("Search", mock.Anything, "moh").Return([]*customer.Customer{cust}, nil)

		svc := NewCustomerService(directory)
		found, err := svc.SearchCustomers(ctx, "moh")
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("delete", func(t *testing.T) {
		directory := new(MockDirectory)
		directory.On("Delete", mock.Anything, cust.ID).Return(nil)

		svc := NewCustomerService(directory)
		assert.NoError(t, svc.DeleteCustomer(ctx, cust.ID))
		directory.AssertExpectations(t)
	})
}

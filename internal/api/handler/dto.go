package handler

import (
	"time"

	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/customer"
	"github.com/digital-banking/account-service/internal/domain/operation"
)

// CreateCustomerRequest represents a request to register a customer
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateCustomerRequest represents a request to change a customer's details
type UpdateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateCurrentAccountRequest represents a request to open a CURRENT account
type CreateCurrentAccountRequest struct {
	CustomerID     string `json:"customer_id" binding:"required,uuid"`
	InitialBalance int64  `json:"initial_balance" binding:"min=0"`
	OverdraftLimit int64  `json:"overdraft_limit" binding:"min=0"`
}

// CreateSavingAccountRequest represents a request to open a SAVING account
type CreateSavingAccountRequest struct {
	CustomerID     string  `json:"customer_id" binding:"required,uuid"`
	InitialBalance int64   `json:"initial_balance" binding:"min=0"`
	InterestRate   float64 `json:"interest_rate" binding:"min=0"`
}

// AccountResponse represents a bank account in API responses. OverdraftLimit
// is present for CURRENT accounts, InterestRate for SAVING accounts.
type AccountResponse struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Balance        int64    `json:"balance"`
	Currency       string   `json:"currency"`
	Status         string   `json:"status"`
	CustomerID     string   `json:"customer_id"`
	OverdraftLimit *int64   `json:"overdraft_limit,omitempty"`
	InterestRate   *float64 `json:"interest_rate,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// OperationRequest represents a credit or debit request against one account
type OperationRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description"`
}

// TransferRequest represents a transfer between two accounts
type TransferRequest struct {
	SourceAccountID      string `json:"source_account_id" binding:"required,uuid"`
	DestinationAccountID string `json:"destination_account_id" binding:"required,uuid"`
	Amount               int64  `json:"amount" binding:"required,gt=0"`
	Description          string `json:"description"`
}

// OperationResponse represents a ledger entry in API responses
type OperationResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// TransferResponse carries both legs of a completed transfer
type TransferResponse struct {
	Debit  OperationResponse `json:"debit"`
	Credit OperationResponse `json:"credit"`
}

// HistoryResponse represents one page of an account's operation history
type HistoryResponse struct {
	AccountID  string              `json:"account_id"`
	Balance    int64               `json:"balance"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
	TotalCount int64               `json:"total_count"`
	TotalPages int                 `json:"total_pages"`
	Operations []OperationResponse `json:"operations"`
}

// HistoryParams represents pagination parameters for the history endpoint.
// Pages are 0-based.
type HistoryParams struct {
	Page int `form:"page,default=0" binding:"min=0"`
	Size int `form:"size,default=10" binding:"min=1"`
}

func mapCustomerToResponse(cust *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        cust.ID.String(),
		Name:      cust.Name,
		Email:     cust.Email,
		CreatedAt: cust.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cust.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAccountToResponse(acc *account.BankAccount) AccountResponse {
	resp := AccountResponse{
		ID:         acc.ID.String(),
		Type:       string(acc.Type),
		Balance:    acc.Balance,
		Currency:   acc.Currency,
		Status:     string(acc.Status),
		CustomerID: acc.CustomerID.String(),
		CreatedAt:  acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  acc.UpdatedAt.Format(time.RFC3339),
	}

	switch acc.Type {
	case account.TypeCurrent:
		limit := acc.OverdraftLimit
		resp.OverdraftLimit = &limit
	case account.TypeSaving:
		rate := acc.InterestRate
		resp.InterestRate = &rate
	}

	return resp
}

func mapOperationToResponse(op *operation.Operation) OperationResponse {
	return OperationResponse{
		ID:          op.ID.String(),
		AccountID:   op.AccountID.String(),
		Type:        string(op.Type),
		Amount:      op.Amount,
		Currency:    op.Currency,
		Description: op.Description,
		CreatedAt:   op.CreatedAt.Format(time.RFC3339),
	}
}

func mapHistoryToResponse(hist *operation.History) HistoryResponse {
	ops := make([]OperationResponse, 0, len(hist.Operations))
	for _, op := range hist.Operations {
		ops = append(ops, mapOperationToResponse(op))
	}

	return HistoryResponse{
		AccountID:  hist.AccountID.String(),
		Balance:    hist.Balance,
		Page:       hist.Page,
		Size:       hist.Size,
		TotalCount: hist.TotalCount,
		TotalPages: hist.TotalPages,
		Operations: ops,
	}
}

package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrBalanceNotSufficient    = errors.New("balance not sufficient")
	ErrAccountSuspended        = errors.New("account is suspended")
	ErrSameAccount             = errors.New("source and destination accounts are identical")
	ErrNegativeOverdraft       = errors.New("overdraft limit cannot be negative")
	ErrNegativeInterestRate    = errors.New("interest rate cannot be negative")
	ErrNegativeInitialBalance  = errors.New("initial balance cannot be negative")
	ErrInvalidCurrencyFormat   = errors.New("currency must be a 3-letter code")
	ErrInvalidStatusTransition = errors.New("invalid account status transition")
)

// Type discriminates the bank account variants
type Type string

const (
	TypeCurrent Type = "CURRENT"
	TypeSaving  Type = "SAVING"
)

// Status represents the account lifecycle state
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusActivated Status = "ACTIVATED"
	StatusSuspended Status = "SUSPENDED"
)

// BankAccount represents a bank account as a tagged variant: the Type field
// selects which variant payload (OverdraftLimit for CURRENT, InterestRate
// for SAVING) is meaningful.
type BankAccount struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	Balance    int64     `json:"balance"` // Stored in cents/minor units
	Currency   string    `json:"currency"`
	Status     Status    `json:"status"`
	CustomerID uuid.UUID `json:"customer_id"`

	// OverdraftLimit applies to CURRENT accounts only; debits may drive the
	// balance down to -OverdraftLimit.
	OverdraftLimit int64 `json:"overdraft_limit,omitempty"`

	// InterestRate applies to SAVING accounts only. Informational: accrual
	// is handled outside this service.
	InterestRate float64 `json:"interest_rate,omitempty"`

	Version   int       `json:"version"` // For optimistic locking
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCurrentAccount creates a CURRENT account owned by the given customer
func NewCurrentAccount(initialBalance, overdraftLimit int64, currency string, customerID uuid.UUID) (*BankAccount, error) {
	if initialBalance < 0 {
		return nil, ErrNegativeInitialBalance
	}
	if overdraftLimit < 0 {
		return nil, ErrNegativeOverdraft
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}

	acc := newAccount(TypeCurrent, initialBalance, currency, customerID)
	acc.OverdraftLimit = overdraftLimit
	return acc, nil
}

// NewSavingAccount creates a SAVING account owned by the given customer
func NewSavingAccount(initialBalance int64, interestRate float64, currency string, customerID uuid.UUID) (*BankAccount, error) {
	if initialBalance < 0 {
		return nil, ErrNegativeInitialBalance
	}
	if interestRate < 0 {
		return nil, ErrNegativeInterestRate
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}

	acc := newAccount(TypeSaving, initialBalance, currency, customerID)
	acc.InterestRate = interestRate
	return acc, nil
}

func newAccount(typ Type, initialBalance int64, currency string, customerID uuid.UUID) *BankAccount {
	now := time.Now()
	return &BankAccount{
		ID:         uuid.New(),
		Type:       typ,
		Balance:    initialBalance,
		Currency:   currency,
		Status:     StatusCreated,
		CustomerID: customerID,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Floor returns the minimum permissible balance for the account variant:
// -OverdraftLimit for CURRENT accounts, 0 for SAVING accounts.
func (a *BankAccount) Floor() int64 {
	if a.Type == TypeCurrent {
		return -a.OverdraftLimit
	}
	return 0
}

// Operable reports whether balance operations are permitted in the account's
// current status. CREATED and ACTIVATED both permit operations.
func (a *BankAccount) Operable() error {
	if a.Status == StatusSuspended {
		return ErrAccountSuspended
	}
	return nil
}

// Credit adds the specified amount to the account balance
func (a *BankAccount) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := a.Operable(); err != nil {
		return err
	}

	a.Balance += amount
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// Debit subtracts the specified amount from the account balance. The debit
// is rejected in full when it would drive the balance below Floor().
func (a *BankAccount) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := a.Operable(); err != nil {
		return err
	}
	if a.Balance-amount < a.Floor() {
		return ErrBalanceNotSufficient
	}

	a.Balance -= amount
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// Activate transitions the account from CREATED to ACTIVATED
func (a *BankAccount) Activate() error {
	if a.Status != StatusCreated {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusActivated
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// Suspend transitions the account from ACTIVATED to SUSPENDED
func (a *BankAccount) Suspend() error {
	if a.Status != StatusActivated {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusSuspended
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

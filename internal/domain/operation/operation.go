package operation

import (
	"time"

	"github.com/google/uuid"
)

// Type defines the ledger operation kinds
type Type string

const (
	TypeDebit  Type = "DEBIT"
	TypeCredit Type = "CREDIT"
)

// Operation is a single ledger entry: a debit or credit applied to one bank
// account. Entries are immutable once created; the ledger is append-only and
// its per-account order is the source of truth for the account balance.
type Operation struct {
	ID          uuid.UUID `json:"id" bson:"id"`
	AccountID   uuid.UUID `json:"account_id" bson:"account_id"`
	Type        Type      `json:"type" bson:"type"`
	Amount      int64     `json:"amount" bson:"amount"` // Stored in cents/minor units
	Currency    string    `json:"currency" bson:"currency"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// New creates a ledger entry for the given account. Validation of the amount
// happens in the engine before any entry is constructed.
func New(accountID uuid.UUID, typ Type, amount int64, currency, description string) *Operation {
	return &Operation{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        typ,
		Amount:      amount,
		Currency:    currency,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// Signed returns the balance delta this entry contributes: positive for
// CREDIT, negative for DEBIT.
func (o *Operation) Signed() int64 {
	if o.Type == TypeDebit {
		return -o.Amount
	}
	return o.Amount
}

// History is one page of an account's ledger in creation order, together
// with the pagination totals and the balance at read time.
type History struct {
	AccountID  uuid.UUID    `json:"account_id"`
	Balance    int64        `json:"balance"`
	Page       int          `json:"page"`
	Size       int          `json:"size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int          `json:"total_pages"`
	Operations []*Operation `json:"operations"`
}

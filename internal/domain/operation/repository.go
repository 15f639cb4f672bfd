package operation

import (
	"context"

	"github.com/google/uuid"
)

// Ledger manages append-only persistence of account operations. There is no
// update or delete path: entries, once appended, are immutable.
type Ledger interface {
	Append(ctx context.Context, op *Operation) error

	// ListByAccount returns entries for the account in creation order,
	// sliced by limit/offset. Reads beyond the end yield an empty slice.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Operation, error)

	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}

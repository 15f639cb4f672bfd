// Package engine implements the account operation core: credit, debit and
// transfer against bank accounts, the append-only operation ledger these
// produce, and the paginated history view derived from it. The engine owns
// the per-account serialization discipline; persistence stays behind the
// domain Store and Ledger interfaces.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/operation"
)

// ErrInvalidPage indicates malformed history pagination parameters
var ErrInvalidPage = errors.New("page must be >= 0 and size must be > 0")

// StorageError wraps an underlying store or ledger failure. Reconcile is set
// when a compensating write failed and the named account needs external
// reconciliation.
type StorageError struct {
	Op        string
	Reconcile bool
	Err       error
}

func (e *StorageError) Error() string {
	if e.Reconcile {
		return fmt.Sprintf("storage failure during %s (manual reconciliation required): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// OperationPublisher publishes committed ledger operations to interested
// consumers. Publishing is best effort: the ledger, not the event stream, is
// the source of truth.
type OperationPublisher interface {
	PublishOperation(ctx context.Context, op *operation.Operation) error
}

// Engine executes balance operations against bank accounts. Operations on
// the same account are serialized through a per-account lock arena held for
// the whole load-validate-write-append cycle; operations on different
// accounts run independently.
type Engine struct {
	accounts  account.Store
	ledger    operation.Ledger
	locks     *lockArena
	publisher OperationPublisher
	logger    *slog.Logger
}

// NewEngine creates an operation engine over the given store and ledger.
// publisher may be nil to disable event publishing. lockTimeout bounds how
// long an operation waits for exclusive account access.
func NewEngine(logger *slog.Logger, accounts account.Store, ledger operation.Ledger, publisher OperationPublisher, lockTimeout time.Duration) *Engine {
	return &Engine{
		accounts:  accounts,
		ledger:    ledger,
		locks:     newLockArena(lockTimeout),
		publisher: publisher,
		logger:    logger,
	}
}

// Credit adds amount to the account balance and appends the matching CREDIT
// ledger entry. The returned operation is the created ledger entry.
func (e *Engine) Credit(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*operation.Operation, error) {
	return e.apply(ctx, accountID, operation.TypeCredit, amount, description)
}

// Debit subtracts amount from the account balance and appends the matching
// DEBIT ledger entry. A debit that would drive the balance below the account
// floor is rejected in full, leaving balance and ledger unchanged.
func (e *Engine) Debit(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*operation.Operation, error) {
	return e.apply(ctx, accountID, operation.TypeDebit, amount, description)
}

func (e *Engine) apply(ctx context.Context, accountID uuid.UUID, typ operation.Type, amount int64, description string) (*operation.Operation, error) {
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}

	release, err := e.locks.acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	acc, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	prevBalance := acc.Balance
	if typ == operation.TypeDebit {
		err = acc.Debit(amount)
	} else {
		err = acc.Credit(amount)
	}
	if err != nil {
		return nil, err
	}

	if err := e.accounts.Update(ctx, acc); err != nil {
		return nil, &StorageError{Op: "account update", Err: err}
	}

	op := operation.New(acc.ID, typ, amount, acc.Currency, description)
	if err := e.ledger.Append(ctx, op); err != nil {
		// The balance write landed but the ledger entry did not; undo the
		// balance write so stored balance stays equal to the ledger sum.
		if rbErr := e.restoreBalance(ctx, acc, prevBalance); rbErr != nil {
			return nil, &StorageError{Op: "ledger append rollback", Reconcile: true, Err: errors.Join(err, rbErr)}
		}
		return nil, &StorageError{Op: "ledger append", Err: err}
	}

	e.logger.Info("operation applied",
		"operation_id", op.ID.String(),
		"account_id", acc.ID.String(),
		"type", string(typ),
		"amount", amount,
		"balance", acc.Balance,
	)

	e.publish(ctx, op)
	return op, nil
}

// Transfer debits the source account and credits the destination account as
// one logical unit: either both legs are recorded or neither is. Locks for
// both accounts are taken in ascending ID order.
func (e *Engine) Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amount int64, description string) (*operation.Operation, *operation.Operation, error) {
	if sourceID == destinationID {
		return nil, nil, account.ErrSameAccount
	}
	if amount <= 0 {
		return nil, nil, account.ErrInvalidAmount
	}

	release, err := e.locks.acquirePair(ctx, sourceID, destinationID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	src, err := e.accounts.GetByID(ctx, sourceID)
	if err != nil {
		return nil, nil, err
	}
	dst, err := e.accounts.GetByID(ctx, destinationID)
	if err != nil {
		return nil, nil, err
	}

	srcBalance, dstBalance := src.Balance, dst.Balance

	// Validate both legs before touching any store.
	if err := src.Debit(amount); err != nil {
		return nil, nil, err
	}
	if err := dst.Credit(amount); err != nil {
		return nil, nil, err
	}

	if err := e.accounts.Update(ctx, src); err != nil {
		return nil, nil, &StorageError{Op: "transfer source update", Err: err}
	}
	if err := e.accounts.Update(ctx, dst); err != nil {
		if rbErr := e.restoreBalance(ctx, src, srcBalance); rbErr != nil {
			return nil, nil, &StorageError{Op: "transfer destination update rollback", Reconcile: true, Err: errors.Join(err, rbErr)}
		}
		return nil, nil, &StorageError{Op: "transfer destination update", Err: err}
	}

	debitOp := operation.New(src.ID, operation.TypeDebit, amount, src.Currency, description)
	if err := e.ledger.Append(ctx, debitOp); err != nil {
		if rbErr := e.rollbackTransferBalances(ctx, src, srcBalance, dst, dstBalance); rbErr != nil {
			return nil, nil, &StorageError{Op: "transfer debit append rollback", Reconcile: true, Err: errors.Join(err, rbErr)}
		}
		return nil, nil, &StorageError{Op: "transfer debit append", Err: err}
	}

	creditOp := operation.New(dst.ID, operation.TypeCredit, amount, dst.Currency, description)
	if err := e.ledger.Append(ctx, creditOp); err != nil {
		// The debit leg is already in the append-only ledger. Reverse it with
		// a compensating CREDIT entry and restore both balances.
		reversal := operation.New(src.ID, operation.TypeCredit, amount, src.Currency, "reversal: "+description)
		if rvErr := e.ledger.Append(ctx, reversal); rvErr != nil {
			return nil, nil, &StorageError{Op: "transfer credit append reversal", Reconcile: true, Err: errors.Join(err, rvErr)}
		}
		if rbErr := e.rollbackTransferBalances(ctx, src, srcBalance, dst, dstBalance); rbErr != nil {
			return nil, nil, &StorageError{Op: "transfer credit append rollback", Reconcile: true, Err: errors.Join(err, rbErr)}
		}
		return nil, nil, &StorageError{Op: "transfer credit append", Err: err}
	}

	e.logger.Info("transfer applied",
		"source_id", src.ID.String(),
		"destination_id", dst.ID.String(),
		"amount", amount,
		"source_balance", src.Balance,
		"destination_balance", dst.Balance,
	)

	e.publish(ctx, debitOp)
	e.publish(ctx, creditOp)
	return debitOp, creditOp, nil
}

// History returns one page of the account's ledger in creation order. page
// is 0-based; pages past the end yield an empty slice, not an error.
func (e *Engine) History(ctx context.Context, accountID uuid.UUID, page, size int) (*operation.History, error) {
	if page < 0 || size <= 0 {
		return nil, ErrInvalidPage
	}

	acc, err := e.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	total, err := e.ledger.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, &StorageError{Op: "ledger count", Err: err}
	}

	ops, err := e.ledger.ListByAccount(ctx, accountID, size, page*size)
	if err != nil {
		return nil, &StorageError{Op: "ledger list", Err: err}
	}
	if ops == nil {
		ops = []*operation.Operation{}
	}

	totalPages := int(total) / size
	if int(total)%size > 0 {
		totalPages++
	}

	return &operation.History{
		AccountID:  acc.ID,
		Balance:    acc.Balance,
		Page:       page,
		Size:       size,
		TotalCount: total,
		TotalPages: totalPages,
		Operations: ops,
	}, nil
}

// restoreBalance writes the account back to a previous balance after a
// failed follow-up write. The version still advances; only the balance is
// compensated.
func (e *Engine) restoreBalance(ctx context.Context, acc *account.BankAccount, balance int64) error {
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = time.Now()
	if err := e.accounts.Update(ctx, acc); err != nil {
		e.logger.Error("failed to restore account balance after rollback",
			"account_id", acc.ID.String(),
			"balance", balance,
			"error", err,
		)
		return err
	}
	return nil
}

func (e *Engine) rollbackTransferBalances(ctx context.Context, src *account.BankAccount, srcBalance int64, dst *account.BankAccount, dstBalance int64) error {
	if err := e.restoreBalance(ctx, src, srcBalance); err != nil {
		return err
	}
	return e.restoreBalance(ctx, dst, dstBalance)
}

func (e *Engine) publish(ctx context.Context, op *operation.Operation) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishOperation(ctx, op); err != nil {
		e.logger.Warn("failed to publish operation event",
			"operation_id", op.ID.String(),
			"account_id", op.AccountID.String(),
			"error", err,
		)
	}
}

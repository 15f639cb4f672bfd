package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-banking/account-service/internal/data/memory"
	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/operation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyLedger fails the appendth call with failOn set, delegating everything
// else to the in-memory ledger.
type flakyLedger struct {
	*memory.OperationLedger
	failOn  int
	appends int
}

func (l *flakyLedger) Append(ctx context.Context, op *operation.Operation) error {
	l.appends++
	if l.failOn != 0 && l.appends == l.failOn {
		return errors.New("ledger unavailable")
	}
	return l.OperationLedger.Append(ctx, op)
}

// failingUpdateStore rejects every Update while delegating reads to the
// wrapped store.
type failingUpdateStore struct {
	account.Store
	err error
}

func (s *failingUpdateStore) Update(context.Context, *account.BankAccount) error {
	return s.err
}

type recordingPublisher struct {
	mu  sync.Mutex
	ops []*operation.Operation
	err error
}

func (p *recordingPublisher) PublishOperation(_ context.Context, op *operation.Operation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.ops = append(p.ops, op)
	return nil
}

func (p *recordingPublisher) published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ops)
}

func seedCurrentAccount(t *testing.T, store account.Store, balance, overdraft int64) *account.BankAccount {
	t.Helper()
	acc, err := account.NewCurrentAccount(balance, overdraft, "USD", uuid.New())
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), acc))
	return acc
}

func storedBalance(t *testing.T, store account.Store, id uuid.UUID) int64 {
	t.Helper()
	acc, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func ledgerEntries(t *testing.T, ledger operation.Ledger, id uuid.UUID) []*operation.Operation {
	t.Helper()
	ops, err := ledger.ListByAccount(context.Background(), id, 1_000_000, 0)
	require.NoError(t, err)
	return ops
}

func ledgerSum(t *testing.T, ledger operation.Ledger, id uuid.UUID) int64 {
	t.Helper()
	var sum int64
	for _, op := range ledgerEntries(t, ledger, id) {
		sum += op.Signed()
	}
	return sum
}

func TestEngine_Credit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	pub := &recordingPublisher{}
	eng := NewEngine(testLogger(), store, ledger, pub, time.Second)

	acc := seedCurrentAccount(t, store, 1000, 0)

	t.Run("success", func(t *testing.T) {
		op, err := eng.Credit(ctx, acc.ID, 500, "salary")
		require.NoError(t, err)

		assert.Equal(t, acc.ID, op.AccountID)
		assert.Equal(t, operation.TypeCredit, op.Type)
		assert.Equal(t, int64(500), op.Amount)
		assert.Equal(t, "USD", op.Currency)
		assert.Equal(t, "salary", op.Description)

		assert.Equal(t, int64(1500), storedBalance(t, store, acc.ID))
		assert.Len(t, ledgerEntries(t, ledger, acc.ID), 1)
		assert.Equal(t, 1, pub.published())
	})

	t.Run("invalid amount", func(t *testing.T) {
		_, err := eng.Credit(ctx, acc.ID, 0, "noop")
		assert.ErrorIs(t, err, account.ErrInvalidAmount)

		_, err = eng.Credit(ctx, acc.ID, -10, "noop")
		assert.ErrorIs(t, err, account.ErrInvalidAmount)
	})

	t.Run("account not found", func(t *testing.T) {
		_, err := eng.Credit(ctx, uuid.New(), 100, "nope")
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})
}

func TestEngine_Debit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	eng := NewEngine(testLogger(), store, ledger, nil, time.Second)

	t.Run("success", func(t *testing.T) {
		acc := seedCurrentAccount(t, store, 1000, 0)

		op, err := eng.Debit(ctx, acc.ID, 400, "groceries")
		require.NoError(t, err)
		assert.Equal(t, operation.TypeDebit, op.Type)
		assert.Equal(t, int64(-400), op.Signed())
		assert.Equal(t, int64(600), storedBalance(t, store, acc.ID))
	})

	t.Run("insufficient balance leaves account and ledger untouched", func(t *testing.T) {
		acc := seedCurrentAccount(t, store, 1000, 0)

		_, err := eng.Debit(ctx, acc.ID, 1001, "too much")
		assert.ErrorIs(t, err, account.ErrBalanceNotSufficient)
		assert.Equal(t, int64(1000), storedBalance(t, store, acc.ID))
		assert.Empty(t, ledgerEntries(t, ledger, acc.ID))

		stored, err := store.GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Version)
	})

	t.Run("suspended account", func(t *testing.T) {
		acc, err := account.NewCurrentAccount(1000, 0, "USD", uuid.New())
		require.NoError(t, err)
		require.NoError(t, acc.Activate())
		require.NoError(t, acc.Suspend())
		require.NoError(t, store.Create(ctx, acc))

		_, err = eng.Debit(ctx, acc.ID, 100, "blocked")
		assert.ErrorIs(t, err, account.ErrAccountSuspended)
		assert.Empty(t, ledgerEntries(t, ledger, acc.ID))
	})
}

// A current account with balance 1000.00 and overdraft 500.00: a 1400.00
// debit lands at -400.00, a further 200.00 debit is rejected in full, and a
// 300.00 credit brings the balance back to -100.00.
func TestEngine_OverdraftScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	eng := NewEngine(testLogger(), store, ledger, nil, time.Second)

	acc := seedCurrentAccount(t, store, 100000, 50000)

	_, err := eng.Debit(ctx, acc.ID, 140000, "withdrawal")
	require.NoError(t, err)
	assert.Equal(t, int64(-40000), storedBalance(t, store, acc.ID))

	_, err = eng.Debit(ctx, acc.ID, 20000, "withdrawal")
	assert.ErrorIs(t, err, account.ErrBalanceNotSufficient)
	assert.Equal(t, int64(-40000), storedBalance(t, store, acc.ID))

	_, err = eng.Credit(ctx, acc.ID, 30000, "deposit")
	require.NoError(t, err)
	assert.Equal(t, int64(-10000), storedBalance(t, store, acc.ID))

	assert.Len(t, ledgerEntries(t, ledger, acc.ID), 2)
	assert.Equal(t, int64(-110000), ledgerSum(t, ledger, acc.ID))
}

func TestEngine_Apply_LedgerAppendRollsBackBalance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := &flakyLedger{OperationLedger: memory.NewOperationLedger(), failOn: 1}
	pub := &recordingPublisher{}
	eng := NewEngine(testLogger(), store, ledger, pub, time.Second)

	acc := seedCurrentAccount(t, store, 1000, 0)

	_, err := eng.Credit(ctx, acc.ID, 500, "salary")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.False(t, storageErr.Reconcile)
	assert.Equal(t, int64(1000), storedBalance(t, store, acc.ID))
	assert.Empty(t, ledgerEntries(t, ledger, acc.ID))
	assert.Equal(t, 0, pub.published())
}

func TestEngine_Apply_UpdateFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()

	acc := seedCurrentAccount(t, store, 1000, 0)

	failing := &failingUpdateStore{Store: store, err: errors.New("connection reset")}
	eng := NewEngine(testLogger(), failing, ledger, nil, time.Second)

	_, err := eng.Credit(ctx, acc.ID, 500, "salary")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, int64(1000), storedBalance(t, store, acc.ID))
	assert.Empty(t, ledgerEntries(t, ledger, acc.ID))
}

func TestEngine_Transfer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	eng := NewEngine(testLogger(), store, ledger, nil, time.Second)

	t.Run("success", func(t *testing.T) {
		src := seedCurrentAccount(t, store, 1000, 0)
		dst := seedCurrentAccount(t, store, 200, 0)

		debitOp, creditOp, err := eng.Transfer(ctx, src.ID, dst.ID, 300, "rent")
		require.NoError(t, err)

		assert.Equal(t, src.ID, debitOp.AccountID)
		assert.Equal(t, operation.TypeDebit, debitOp.Type)
		assert.Equal(t, dst.ID, creditOp.AccountID)
		assert.Equal(t, operation.TypeCredit, creditOp.Type)
		assert.Equal(t, "rent", debitOp.Description)

		assert.Equal(t, int64(700), storedBalance(t, store, src.ID))
		assert.Equal(t, int64(500), storedBalance(t, store, dst.ID))
		assert.Len(t, ledgerEntries(t, ledger, src.ID), 1)
		assert.Len(t, ledgerEntries(t, ledger, dst.ID), 1)
	})

	t.Run("same account", func(t *testing.T) {
		id := uuid.New()
		_, _, err := eng.Transfer(ctx, id, id, 100, "loop")
		assert.ErrorIs(t, err, account.ErrSameAccount)
	})

	t.Run("invalid amount", func(t *testing.T) {
		_, _, err := eng.Transfer(ctx, uuid.New(), uuid.New(), 0, "zero")
		assert.ErrorIs(t, err, account.ErrInvalidAmount)
	})

	t.Run("insufficient source balance", func(t *testing.T) {
		src := seedCurrentAccount(t, store, 100, 0)
		dst := seedCurrentAccount(t, store, 0, 0)

		_, _, err := eng.Transfer(ctx, src.ID, dst.ID, 500, "too much")
		assert.ErrorIs(t, err, account.ErrBalanceNotSufficient)
		assert.Equal(t, int64(100), storedBalance(t, store, src.ID))
		assert.Equal(t, int64(0), storedBalance(t, store, dst.ID))
		assert.Empty(t, ledgerEntries(t, ledger, src.ID))
	})

	t.Run("destination not found leaves source untouched", func(t *testing.T) {
		src := seedCurrentAccount(t, store, 1000, 0)

		_, _, err := eng.Transfer(ctx, src.ID, uuid.New(), 300, "nowhere")
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.Equal(t, int64(1000), storedBalance(t, store, src.ID))
		assert.Empty(t, ledgerEntries(t, ledger, src.ID))
	})

	t.Run("suspended destination", func(t *testing.T) {
		src := seedCurrentAccount(t, store, 1000, 0)
		dst, err := account.NewCurrentAccount(0, 0, "USD", uuid.New())
		require.NoError(t, err)
		require.NoError(t, dst.Activate())
		require.NoError(t, dst.Suspend())
		require.NoError(t, store.Create(ctx, dst))

		_, _, err = eng.Transfer(ctx, src.ID, dst.ID, 300, "blocked")
		assert.ErrorIs(t, err, account.ErrAccountSuspended)
		assert.Equal(t, int64(1000), storedBalance(t, store, src.ID))
		assert.Equal(t, int64(0), storedBalance(t, store, dst.ID))
	})
}

func TestEngine_Transfer_CreditAppendCompensation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := &flakyLedger{OperationLedger: memory.NewOperationLedger(), failOn: 2}
	eng := NewEngine(testLogger(), store, ledger, nil, time.Second)

	src := seedCurrentAccount(t, store, 1000, 0)
	dst := seedCurrentAccount(t, store, 200, 0)

	// The debit entry lands, the credit entry fails. The engine must reverse
	// the debit in the append-only ledger and restore both balances.
	_, _, err := eng.Transfer(ctx, src.ID, dst.ID, 300, "rent")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.False(t, storageErr.Reconcile)

	assert.Equal(t, int64(1000), storedBalance(t, store, src.ID))
	assert.Equal(t, int64(200), storedBalance(t, store, dst.ID))

	srcOps := ledgerEntries(t, ledger, src.ID)
	require.Len(t, srcOps, 2)
	assert.Equal(t, operation.TypeDebit, srcOps[0].Type)
	assert.Equal(t, operation.TypeCredit, srcOps[1].Type)
	assert.Equal(t, int64(0), ledgerSum(t, ledger, src.ID))
	assert.Empty(t, ledgerEntries(t, ledger, dst.ID))
}

func TestEngine_ConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	eng := NewEngine(testLogger(), store, ledger, nil, 10*time.Second)

	acc := seedCurrentAccount(t, store, 10000, 0)

	const (
		credits      = 20
		creditAmount = 50
		debits       = 10
		debitAmount  = 30
	)

	var wg sync.WaitGroup
	for i := 0; i < credits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Credit(ctx, acc.ID, creditAmount, "concurrent credit")
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < debits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Debit(ctx, acc.ID, debitAmount, "concurrent debit")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want := int64(10000 + credits*creditAmount - debits*debitAmount)
	assert.Equal(t, want, storedBalance(t, store, acc.ID))
	assert.Len(t, ledgerEntries(t, ledger, acc.ID), credits+debits)
	assert.Equal(t, want-10000, ledgerSum(t, ledger, acc.ID))
}

// The stored balance must always equal the initial balance plus the signed
// sum of the account's ledger, whatever sequence of operations ran.
func TestEngine_LedgerSumInvariant(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	eng := NewEngine(testLogger(), store, ledger, nil, time.Second)

	const initial = 5000
	acc := seedCurrentAccount(t, store, initial, 2000)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		amount := int64(rng.Intn(900) + 1)
		if rng.Intn(2) == 0 {
			_, err := eng.Credit(ctx, acc.ID, amount, "random credit")
			require.NoError(t, err)
		} else {
			_, err := eng.Debit(ctx, acc.ID, amount, "random debit")
			if err != nil {
				// Rejected debits must not contribute a ledger entry.
				require.ErrorIs(t, err, account.ErrBalanceNotSufficient)
			}
		}
	}

	balance := storedBalance(t, store, acc.ID)
	assert.Equal(t, balance, initial+ledgerSum(t, ledger, acc.ID))
	assert.GreaterOrEqual(t, balance, acc.Floor())
}

func TestEngine_History(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	eng := NewEngine(testLogger(), store, ledger, nil, time.Second)

	acc := seedCurrentAccount(t, store, 0, 0)
	for i := 0; i < 23; i++ {
		_, err := eng.Credit(ctx, acc.ID, int64(i+1), "deposit")
		require.NoError(t, err)
	}

	t.Run("first page", func(t *testing.T) {
		hist, err := eng.History(ctx, acc.ID, 0, 10)
		require.NoError(t, err)

		assert.Equal(t, acc.ID, hist.AccountID)
		assert.Equal(t, int64(23), hist.TotalCount)
		assert.Equal(t, 3, hist.TotalPages)
		assert.Len(t, hist.Operations, 10)
		assert.Equal(t, int64(1), hist.Operations[0].Amount)
	})

	t.Run("last partial page", func(t *testing.T) {
		hist, err := eng.History(ctx, acc.ID, 2, 10)
		require.NoError(t, err)

		assert.Len(t, hist.Operations, 3)
		assert.Equal(t, int64(23), hist.Operations[2].Amount)
	})

	t.Run("page past the end", func(t *testing.T) {
		hist, err := eng.History(ctx, acc.ID, 3, 10)
		require.NoError(t, err)

		assert.Empty(t, hist.Operations)
		assert.Equal(t, int64(23), hist.TotalCount)
	})

	t.Run("balance reflects the account at read time", func(t *testing.T) {
		hist, err := eng.History(ctx, acc.ID, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, storedBalance(t, store, acc.ID), hist.Balance)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		_, err := eng.History(ctx, acc.ID, -1, 10)
		assert.ErrorIs(t, err, ErrInvalidPage)

		_, err = eng.History(ctx, acc.ID, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("account not found", func(t *testing.T) {
		_, err := eng.History(ctx, uuid.New(), 0, 10)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})
}

func TestEngine_LockTimeout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	eng := NewEngine(testLogger(), store, ledger, nil, 20*time.Millisecond)

	acc := seedCurrentAccount(t, store, 1000, 0)

	release, err := eng.locks.acquire(ctx, acc.ID)
	require.NoError(t, err)
	defer release()

	_, err = eng.Credit(ctx, acc.ID, 100, "blocked")
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Equal(t, int64(1000), storedBalance(t, store, acc.ID))
}

func TestEngine_PublisherFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()
	pub := &recordingPublisher{err: errors.New("broker down")}
	eng := NewEngine(testLogger(), store, ledger, pub, time.Second)

	acc := seedCurrentAccount(t, store, 1000, 0)

	_, err := eng.Credit(ctx, acc.ID, 500, "salary")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), storedBalance(t, store, acc.ID))
	assert.Len(t, ledgerEntries(t, ledger, acc.ID), 1)
}

// Command seed exercises the operation engine with demo data: it registers a
// handful of customers, opens a current and a saving account for each, then
// drives randomized credit and debit operations through the engine from a
// worker pool and prints the resulting balances.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/digital-banking/account-service/internal/config"
	"github.com/digital-banking/account-service/internal/data/memory"
	"github.com/digital-banking/account-service/internal/domain/account"
	"github.com/digital-banking/account-service/internal/domain/customer"
	"github.com/digital-banking/account-service/internal/engine"
	"github.com/digital-banking/account-service/internal/logger"
)

var demoNames = []string{"Hassan", "Imane", "Mohamed", "Sofia", "Youssef", "Nadia", "Karim", "Leila"}

func main() {
	cfg, err := config.LoadConfig("seed")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	ctx := context.Background()

	directory := memory.NewCustomerDirectory()
	store := memory.NewAccountStore()
	ledger := memory.NewOperationLedger()

	operationEngine := engine.NewEngine(log, store, ledger, nil, cfg.Banking.LockTimeout)
	factory := engine.NewFactory(log, store, directory, cfg.Banking.DefaultCurrency)

	names := seedNames(cfg.Seed.Customers)
	accounts := make([]*account.BankAccount, 0, len(names)*2)

	for _, name := range names {
		cust, err := customer.NewCustomer(name, strings.ToLower(name)+"@example.com")
		if err != nil {
			log.Error("Failed to create demo customer", "name", name, "error", err)
			os.Exit(1)
		}
		if err := directory.Create(ctx, cust); err != nil {
			log.Error("Failed to store demo customer", "name", name, "error", err)
			os.Exit(1)
		}

		current, err := factory.CreateCurrentAccount(ctx, rand.Int63n(90_000_00), 9_000_00, cust.ID)
		if err != nil {
			log.Error("Failed to create current account", "customer", name, "error", err)
			os.Exit(1)
		}
		saving, err := factory.CreateSavingAccount(ctx, rand.Int63n(120_000_00), 5.5, cust.ID)
		if err != nil {
			log.Error("Failed to create saving account", "customer", name, "error", err)
			os.Exit(1)
		}
		accounts = append(accounts, current, saving)
	}

	pool, err := ants.NewPool(cfg.Seed.Workers)
	if err != nil {
		log.Error("Failed to create worker pool", "error", err)
		os.Exit(1)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, acc := range accounts {
		for i := 0; i < cfg.Seed.OperationsPerAccount; i++ {
			accID := acc.ID
			seq := i + 1
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				if rand.Float64() > 0.5 {
					amount := 1_000_00 + rand.Int63n(5_000_00)
					if _, err := operationEngine.Credit(ctx, accID, amount, fmt.Sprintf("Credit operation %d", seq)); err != nil {
						log.Warn("Credit rejected", "account_id", accID.String(), "error", err)
					}
				} else {
					amount := 100_00 + rand.Int63n(2_000_00)
					if _, err := operationEngine.Debit(ctx, accID, amount, fmt.Sprintf("Debit operation %d", seq)); err != nil {
						log.Warn("Debit rejected", "account_id", accID.String(), "error", err)
					}
				}
			}); err != nil {
				wg.Done()
				log.Error("Failed to submit operation to worker pool", "error", err)
			}
		}
	}
	wg.Wait()

	fmt.Println("========================================")
	fmt.Println("Data seeding completed!")
	fmt.Println("========================================")

	all, err := store.List(ctx)
	if err != nil {
		log.Error("Failed to list accounts", "error", err)
		os.Exit(1)
	}
	for _, acc := range all {
		count, _ := ledger.CountByAccount(ctx, acc.ID)
		fmt.Printf("Account %s  type=%s  status=%s  balance=%d  operations=%d\n",
			acc.ID, acc.Type, acc.Status, acc.Balance, count)
	}
}

func seedNames(n int) []string {
	if n > len(demoNames) {
		n = len(demoNames)
	}
	return demoNames[:n]
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	grpcpool "github.com/JoeShih716/go-debt-atm/pkg/grpc"
	"github.com/JoeShih716/go-debt-atm/pkg/ledgerrpc"
)

func main() {
	target := flag.String("target", "localhost:50051", "ledger server address")
	total := flag.Int("n", 100000, "number of load requests")
	concurrency := flag.Int("c", 1000, "concurrent requests")
	flag.Parse()

	logg := log.NewWithOptions(os.Stderr, log.Options{Prefix: "rpc-client", ReportTimestamp: true})

	pool := grpcpool.NewPool()
	defer pool.Close()
	c, err := pool.LedgerClient(*target)
	if err != nil {
		logg.Fatal("did not connect", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	// 1. 重播範例 session，確認結果
	if err := replay(ctx, c, logg); err != nil {
		logg.Fatal("replay failed", "err", err)
	}

	// 2. 壓測: 多個客戶互相轉帳
	runLoad(ctx, c, logg, *total, *concurrency)
}

// replay 依序執行範例 session 並印出每一步的餘額
// 使用隨機後綴的客戶名稱，避免與伺服器上既有帳戶衝突
func replay(ctx context.Context, c ledgerrpc.LedgerServiceClient, logg *log.Logger) error {
	suffix := uuid.NewString()[:8]
	alice, bob := "Alice-"+suffix, "Bob-"+suffix

	type step struct {
		desc string
		call func() (*ledgerrpc.OperationResponse, error)
	}
	amount := func(name string, n int64) *ledgerrpc.AmountRequest {
		return &ledgerrpc.AmountRequest{RefId: uuid.NewString(), Customer: name, Amount: n}
	}
	transfer := func(from, to string, n int64) *ledgerrpc.TransferRequest {
		return &ledgerrpc.TransferRequest{RefId: uuid.NewString(), Customer: from, Target: to, Amount: n}
	}
	steps := []step{
		{"login alice", func() (*ledgerrpc.OperationResponse, error) {
			return c.Login(ctx, &ledgerrpc.LoginRequest{Customer: alice})
		}},
		{"alice deposit 100", func() (*ledgerrpc.OperationResponse, error) { return c.Deposit(ctx, amount(alice, 100)) }},
		{"login bob", func() (*ledgerrpc.OperationResponse, error) {
			return c.Login(ctx, &ledgerrpc.LoginRequest{Customer: bob})
		}},
		{"bob deposit 80", func() (*ledgerrpc.OperationResponse, error) { return c.Deposit(ctx, amount(bob, 80)) }},
		{"bob transfer alice 50", func() (*ledgerrpc.OperationResponse, error) { return c.Transfer(ctx, transfer(bob, alice, 50)) }},
		{"bob transfer alice 100", func() (*ledgerrpc.OperationResponse, error) { return c.Transfer(ctx, transfer(bob, alice, 100)) }},
		{"bob deposit 30", func() (*ledgerrpc.OperationResponse, error) { return c.Deposit(ctx, amount(bob, 30)) }},
		{"alice deposit 30", func() (*ledgerrpc.OperationResponse, error) { return c.Deposit(ctx, amount(alice, 30)) }},
		{"alice transfer bob 30", func() (*ledgerrpc.OperationResponse, error) { return c.Transfer(ctx, transfer(alice, bob, 30)) }},
		{"bob deposit 100", func() (*ledgerrpc.OperationResponse, error) { return c.Deposit(ctx, amount(bob, 100)) }},
	}

	for _, s := range steps {
		resp, err := s.call()
		if err != nil {
			return fmt.Errorf("%s: %w", s.desc, err)
		}
		if !resp.Success {
			return fmt.Errorf("%s: %s %s", s.desc, resp.Code, resp.Message)
		}
		logg.Info(s.desc, "balance", resp.CurrentBalance, "transferred", resp.Transferred,
			"debts", resp.Account.Debts, "receivables", resp.Account.Receivables)
	}
	return nil
}

func runLoad(ctx context.Context, c ledgerrpc.LedgerServiceClient, logg *log.Logger, total, concurrency int) {
	const customers = 8
	names := make([]string, customers)
	suffix := uuid.NewString()[:8]
	for i := range names {
		names[i] = fmt.Sprintf("load-%d-%s", i, suffix)
		if _, err := c.Login(ctx, &ledgerrpc.LoginRequest{Customer: names[i]}); err != nil {
			logg.Fatal("login failed", "customer", names[i], "err", err)
		}
	}

	var (
		wg       sync.WaitGroup
		failures atomic.Int64
	)
	sem := make(chan struct{}, concurrency)
	startTime := time.Now()

	for i := 0; i < total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			from := names[idx%customers]
			var err error
			if idx%2 == 0 {
				_, err = c.Deposit(ctx, &ledgerrpc.AmountRequest{RefId: uuid.NewString(), Customer: from, Amount: 10})
			} else {
				to := names[(idx+1)%customers]
				_, err = c.Transfer(ctx, &ledgerrpc.TransferRequest{RefId: uuid.NewString(), Customer: from, Target: to, Amount: 15})
			}
			if err != nil {
				if failures.Add(1)%1000 == 1 {
					logg.Warn("request failed", "idx", idx, "err", err)
				}
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v (%d failed)\n", total, elapsed, failures.Load())
	fmt.Printf("TPS: %.2f\n", float64(total)/elapsed.Seconds())
}

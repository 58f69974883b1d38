package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
)

// engines 每個測試都跑兩種帳本實作
func engines(t *testing.T) map[string]func(customers ...string) usecase.Ledger {
	t.Helper()
	return map[string]func(customers ...string) usecase.Ledger{
		"mutex": func(customers ...string) usecase.Ledger {
			return NewMutexLedger(customers...)
		},
		"lmax": func(customers ...string) usecase.Ledger {
			ctx, cancel := context.WithCancel(context.Background())
			l := NewLMAXLedger(16, customers...)
			l.Start(ctx)
			t.Cleanup(func() {
				cancel()
				<-l.Done()
			})
			return l
		},
	}
}

func tx(txType domain.TransactionType, customer, counterparty string, amount int64) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: uuid.New(),
		Type:          txType,
		Customer:      customer,
		Counterparty:  counterparty,
		Amount:        amount,
	}
}

func post(t *testing.T, l usecase.Ledger, tran *domain.Transaction) *domain.Result {
	t.Helper()
	res, err := l.PostTransaction(context.Background(), tran)
	if err != nil {
		t.Fatalf("PostTransaction(%s %s) err=%v", tran.Type, tran.Customer, err)
	}
	return res
}

// assertMirror 檢查所有帳戶的欠款與對方應收款一致
func assertMirror(t *testing.T, l usecase.Ledger) {
	t.Helper()
	snaps, err := l.LoadAllAccounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	receivables := make(map[string]map[string]int64)
	for _, s := range snaps {
		if s.Balance < 0 {
			t.Fatalf("%s balance=%d", s.Owner, s.Balance)
		}
		receivables[s.Owner] = make(map[string]int64)
		for _, r := range s.Receivables {
			receivables[s.Owner][r.Name] = r.Amount
		}
	}
	debtCount, receivableCount := 0, 0
	for _, s := range snaps {
		receivableCount += len(s.Receivables)
		for _, d := range s.Debts {
			debtCount++
			if got := receivables[d.Name][s.Owner]; got != d.Amount {
				t.Fatalf("%s owes %s %d but receivable is %d", s.Owner, d.Name, d.Amount, got)
			}
		}
	}
	if debtCount != receivableCount {
		t.Fatalf("debts=%d receivables=%d", debtCount, receivableCount)
	}
}

func TestOpenCreatesOnce(t *testing.T) {
	for name, newLedger := range engines(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger()
			post(t, l, tx(domain.TransactionTypeOpen, "Alice", "", 0))
			post(t, l, tx(domain.TransactionTypeDeposit, "Alice", "", 100))
			res := post(t, l, tx(domain.TransactionTypeOpen, "Alice", "", 0))
			if res.Balance() != 100 {
				t.Fatalf("re-login balance=%d want=100", res.Balance())
			}
			snaps, _ := l.LoadAllAccounts(context.Background())
			if len(snaps) != 1 {
				t.Fatalf("accounts=%d want=1", len(snaps))
			}
			if _, err := l.PostTransaction(context.Background(), tx(domain.TransactionTypeOpen, "", "", 0)); !errors.Is(err, domain.ErrInvalidName) {
				t.Fatalf("want ErrInvalidName, got %v", err)
			}
		})
	}
}

func TestUnknownAccount(t *testing.T) {
	for name, newLedger := range engines(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger("Alice")
			ctx := context.Background()
			if _, err := l.GetAccount(ctx, "Bob"); !errors.Is(err, domain.ErrAccountNotFound) {
				t.Fatalf("GetAccount want ErrAccountNotFound, got %v", err)
			}
			if _, err := l.PostTransaction(ctx, tx(domain.TransactionTypeDeposit, "Bob", "", 10)); !errors.Is(err, domain.ErrAccountNotFound) {
				t.Fatalf("deposit want ErrAccountNotFound, got %v", err)
			}
			// 找不到對象優先於金額檢查
			if _, err := l.PostTransaction(ctx, tx(domain.TransactionTypeTransfer, "Alice", "Bob", -5)); !errors.Is(err, domain.ErrAccountNotFound) {
				t.Fatalf("transfer want ErrAccountNotFound, got %v", err)
			}
			if _, err := l.PostTransaction(ctx, tx(domain.TransactionType(99), "Alice", "", 1)); !errors.Is(err, domain.ErrUnknownTransactionType) {
				t.Fatalf("want ErrUnknownTransactionType, got %v", err)
			}
		})
	}
}

func TestSequenceAndIdempotency(t *testing.T) {
	for name, newLedger := range engines(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger("Alice")
			deposit := tx(domain.TransactionTypeDeposit, "Alice", "", 100)

			first := post(t, l, deposit)
			if first.Sequence != 1 || deposit.Sequence != 1 {
				t.Fatalf("sequence=%d want=1", first.Sequence)
			}

			// 失敗的交易不佔序號
			if _, err := l.PostTransaction(context.Background(), tx(domain.TransactionTypeWithdraw, "Alice", "", 1000)); !errors.Is(err, domain.ErrInsufficientBalance) {
				t.Fatalf("want ErrInsufficientBalance, got %v", err)
			}

			replay := post(t, l, &domain.Transaction{
				TransactionID: deposit.TransactionID,
				Type:          domain.TransactionTypeDeposit,
				Customer:      "Alice",
				Amount:        100,
			})
			if replay.Sequence != first.Sequence || replay.Balance() != 100 {
				t.Fatalf("replay=%+v want cached result", replay)
			}

			next := post(t, l, tx(domain.TransactionTypeDeposit, "Alice", "", 1))
			if next.Sequence != 2 || next.Balance() != 101 {
				t.Fatalf("next=%+v", next)
			}
		})
	}
}

// TestReplayNotAffectedByCallerMutation 呼叫端修改回傳的結果，不影響之後重送拿到的結果
func TestReplayNotAffectedByCallerMutation(t *testing.T) {
	for name, newLedger := range engines(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger("Alice", "Bob")
			post(t, l, tx(domain.TransactionTypeTransfer, "Alice", "Bob", 40))
			deposit := tx(domain.TransactionTypeDeposit, "Alice", "", 50)

			first := post(t, l, deposit)
			first.Settlements[0].Amount = 999
			first.Account.Receivables = append(first.Account.Receivables, domain.Obligation{Name: "Eve", Amount: 1})

			replay := post(t, l, deposit)
			if len(replay.Settlements) != 1 || replay.Settlements[0] != (domain.Settlement{Amount: 40, Counterparty: "Bob"}) {
				t.Fatalf("settlements=%v", replay.Settlements)
			}
			if replay.Balance() != 10 || len(replay.Account.Receivables) != 0 || len(replay.Account.Debts) != 0 {
				t.Fatalf("account=%+v", replay.Account)
			}

			replay.Settlements[0].Amount = 7
			if again := post(t, l, deposit); again.Settlements[0].Amount != 40 {
				t.Fatalf("replay shares slices with previous caller: %v", again.Settlements)
			}
		})
	}
}

func TestReferenceSession(t *testing.T) {
	for name, newLedger := range engines(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger()
			post(t, l, tx(domain.TransactionTypeOpen, "Alice", "", 0))
			post(t, l, tx(domain.TransactionTypeDeposit, "Alice", "", 100))
			post(t, l, tx(domain.TransactionTypeOpen, "Bob", "", 0))
			post(t, l, tx(domain.TransactionTypeDeposit, "Bob", "", 80))

			res := post(t, l, tx(domain.TransactionTypeTransfer, "Bob", "Alice", 50))
			if res.Transferred != 50 || res.Balance() != 30 {
				t.Fatalf("res=%+v", res)
			}
			res = post(t, l, tx(domain.TransactionTypeTransfer, "Bob", "Alice", 100))
			if res.Transferred != 30 || res.Balance() != 0 || len(res.Account.Debts) != 1 || res.Account.Debts[0].Amount != 70 {
				t.Fatalf("res=%+v", res)
			}
			res = post(t, l, tx(domain.TransactionTypeDeposit, "Bob", "", 30))
			if len(res.Settlements) != 1 || res.Settlements[0] != (domain.Settlement{Amount: 30, Counterparty: "Alice"}) {
				t.Fatalf("settlements=%v", res.Settlements)
			}
			assertMirror(t, l)

			alice, err := l.GetAccount(context.Background(), "Alice")
			if err != nil {
				t.Fatal(err)
			}
			if alice.Balance != 180 || len(alice.Receivables) != 1 || alice.Receivables[0].Amount != 40 {
				t.Fatalf("alice=%+v", alice)
			}
		})
	}
}

// TestConcurrentTransfers 併發轉帳與存款後：雙邊鏡像一致，現金 = 存款 - 存款拿去還債的部分
func TestConcurrentTransfers(t *testing.T) {
	customers := []string{"A", "B", "C", "D"}
	for name, newLedger := range engines(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger(customers...)
			ctx := context.Background()
			for _, c := range customers {
				post(t, l, tx(domain.TransactionTypeDeposit, c, "", 100))
			}

			const n = 200
			var (
				wg      sync.WaitGroup
				settled atomic.Int64
			)
			wg.Add(n)
			for i := 0; i < n; i++ {
				go func(i int) {
					defer wg.Done()
					from := customers[i%len(customers)]
					to := customers[(i+1)%len(customers)]
					var tran *domain.Transaction
					if i%5 == 0 {
						tran = tx(domain.TransactionTypeDeposit, from, "", 7)
					} else {
						tran = tx(domain.TransactionTypeTransfer, from, to, int64(i%37))
					}
					res, err := l.PostTransaction(ctx, tran)
					if err != nil {
						t.Errorf("%s: %v", tran.Type, err)
						return
					}
					if tran.Type == domain.TransactionTypeDeposit {
						for _, s := range res.Settlements {
							settled.Add(s.Amount)
						}
					}
				}(i)
			}
			wg.Wait()
			assertMirror(t, l)

			snaps, _ := l.LoadAllAccounts(ctx)
			var cash int64
			for _, s := range snaps {
				cash += s.Balance
			}
			if want := int64(4*100+(n/5)*7) - settled.Load(); cash != want {
				t.Fatalf("total cash=%d want=%d", cash, want)
			}
		})
	}
}

func TestLMAXLedgerStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLMAXLedger(4, "Alice")
	l.Start(ctx)
	post(t, l, tx(domain.TransactionTypeDeposit, "Alice", "", 10))

	cancel()
	<-l.Done()

	if _, err := l.PostTransaction(context.Background(), tx(domain.TransactionTypeDeposit, "Alice", "", 10)); !errors.Is(err, domain.ErrLedgerStopped) {
		t.Fatalf("want ErrLedgerStopped, got %v", err)
	}
	if _, err := l.GetAccount(context.Background(), "Alice"); !errors.Is(err, domain.ErrLedgerStopped) {
		t.Fatalf("want ErrLedgerStopped, got %v", err)
	}
}

func TestLMAXLedgerCallerContext(t *testing.T) {
	// 未啟動的引擎不會處理請求，呼叫端的 ctx 逾時要能返回
	l := NewLMAXLedger(1, "Alice")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.GetAccount(ctx, "Alice"); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestMutexLedgerCanceledContext(t *testing.T) {
	l := NewMutexLedger("Alice")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.PostTransaction(ctx, tx(domain.TransactionTypeDeposit, "Alice", "", 10)); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	snap, _ := l.GetAccount(context.Background(), "Alice")
	if snap.Balance != 0 {
		t.Fatalf("balance=%d want=0", snap.Balance)
	}
}

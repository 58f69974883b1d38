package memory

import (
	"github.com/google/uuid"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
)

// book 所有客戶帳本的唯一持有者
//
// 本身不加鎖，由 MutexLedger (Mutex) 或 LMAXLedger (單一 goroutine) 保證
// 同一時間只有一筆交易在修改；帳本指標不會離開 book，對外只給快照。
type book struct {
	accounts map[string]*domain.Ledger
	// 開戶順序
	order []string
	// 已處理過的交易 (重送時直接回傳上次的結果)
	processed map[uuid.UUID]domain.Result
	sequence  uint64
}

func newBook() *book {
	return &book{
		accounts:  make(map[string]*domain.Ledger),
		processed: make(map[uuid.UUID]domain.Result),
	}
}

// Find implements domain.Accounts.
func (b *book) Find(name string) (*domain.Ledger, bool) {
	l, ok := b.accounts[name]
	return l, ok
}

// apply 執行單筆交易並回傳結果
// 失敗的交易不會留下任何修改，也不會記入 processed
func (b *book) apply(tran *domain.Transaction) (*domain.Result, error) {
	if res, ok := b.processed[tran.TransactionID]; ok {
		return res.Clone(), nil
	}

	var (
		res *domain.Result
		err error
	)
	switch tran.Type {
	case domain.TransactionTypeOpen:
		res, err = b.handleOpen(tran)
	case domain.TransactionTypeDeposit:
		res, err = b.handleDeposit(tran)
	case domain.TransactionTypeWithdraw:
		res, err = b.handleWithdraw(tran)
	case domain.TransactionTypeTransfer:
		res, err = b.handleTransfer(tran)
	default:
		return nil, domain.ErrUnknownTransactionType
	}
	if err != nil {
		return nil, err
	}

	b.sequence++
	tran.Sequence = b.sequence
	res.TransactionID = tran.TransactionID
	res.Sequence = tran.Sequence
	res.Type = tran.Type
	b.processed[tran.TransactionID] = *res.Clone()
	return res, nil
}

func (b *book) handleOpen(tran *domain.Transaction) (*domain.Result, error) {
	if tran.Customer == "" {
		return nil, domain.ErrInvalidName
	}
	account, ok := b.accounts[tran.Customer]
	if !ok {
		account = domain.NewLedger(tran.Customer)
		b.accounts[tran.Customer] = account
		b.order = append(b.order, tran.Customer)
	}
	return &domain.Result{Account: account.Snapshot()}, nil
}

func (b *book) handleDeposit(tran *domain.Transaction) (*domain.Result, error) {
	account, ok := b.accounts[tran.Customer]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	settlements, err := domain.Deposit(account, tran.Amount, b)
	if err != nil {
		return nil, err
	}
	return &domain.Result{Account: account.Snapshot(), Settlements: settlements}, nil
}

func (b *book) handleWithdraw(tran *domain.Transaction) (*domain.Result, error) {
	account, ok := b.accounts[tran.Customer]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := domain.Withdraw(account, tran.Amount); err != nil {
		return nil, err
	}
	return &domain.Result{Account: account.Snapshot()}, nil
}

// handleTransfer 先確認雙方帳戶存在，再交給 domain.Transfer 檢查金額
func (b *book) handleTransfer(tran *domain.Transaction) (*domain.Result, error) {
	sender, ok := b.accounts[tran.Customer]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	receiver, ok := b.accounts[tran.Counterparty]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	transferred, settlements, err := domain.Transfer(sender, receiver, tran.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.Result{
		Account:     sender.Snapshot(),
		Transferred: transferred,
		Settlements: settlements,
	}, nil
}

func (b *book) account(name string) (domain.AccountSnapshot, error) {
	l, ok := b.accounts[name]
	if !ok {
		return domain.AccountSnapshot{}, domain.ErrAccountNotFound
	}
	return l.Snapshot(), nil
}

func (b *book) snapshots() []domain.AccountSnapshot {
	out := make([]domain.AccountSnapshot, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.accounts[name].Snapshot())
	}
	return out
}

package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
)

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	book: 所有客戶帳本
//	mu: 保護 book；轉帳與還債會同時改兩個帳本，整筆交易都在同一個臨界區內完成
type MutexLedger struct {
	book *book
	mu   sync.RWMutex
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	customers: 預先開戶的客戶名稱 (可省略)
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
func NewMutexLedger(customers ...string) *MutexLedger {
	ledger := &MutexLedger{
		book: newBook(),
	}
	openAll(ledger.book, customers)
	return ledger
}

// PostTransaction 處理交易請求 (Level 1: Mutex Lock)
//
// 參數:
//
//	ctx: 上下文
//	tran: 交易請求物件
//
// 回傳:
//
//	*domain.Result: 交易結果
//	error: 處理錯誤
func (m *MutexLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.apply(tran)
}

// GetAccount 取得指定帳戶的快照
//
// 參數:
//
//	ctx: 上下文
//	name: 客戶名稱
//
// 回傳:
//
//	domain.AccountSnapshot: 帳戶快照
//	error: 查詢錯誤 (如帳戶不存在)
func (m *MutexLedger) GetAccount(ctx context.Context, name string) (domain.AccountSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.book.account(name)
}

// LoadAllAccounts 依開戶順序回傳所有帳戶快照
func (m *MutexLedger) LoadAllAccounts(ctx context.Context) ([]domain.AccountSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.book.snapshots(), nil
}

// openAll 預先開戶 (建構時使用，單執行緒)
func openAll(b *book, customers []string) {
	for _, name := range customers {
		if name == "" {
			continue
		}
		if _, ok := b.accounts[name]; ok {
			continue
		}
		b.accounts[name] = domain.NewLedger(name)
		b.order = append(b.order, name)
	}
}

var _ usecase.Ledger = (*MutexLedger)(nil)

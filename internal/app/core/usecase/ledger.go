package usecase

import (
	"context"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
)

// Ledger 是帳務系統的介面 (唯一持有所有客戶帳本的 store)
type Ledger interface {
	// 不分 Deposit/Withdraw/Transfer，直接看 tran.Type 決定
	PostTransaction(ctx context.Context, tran *domain.Transaction) (*domain.Result, error)
	// GetAccount 取得帳戶快照
	GetAccount(ctx context.Context, name string) (domain.AccountSnapshot, error)
	// LoadAllAccounts 依開戶順序取得所有帳戶快照
	LoadAllAccounts(ctx context.Context) ([]domain.AccountSnapshot, error)
}

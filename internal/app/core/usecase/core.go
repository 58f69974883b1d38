package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層
// 把前端的操作組成 domain.Transaction 交給 Ledger 執行
type CoreUseCase struct {
	ledger Ledger
}

func NewCoreUseCase(ledger Ledger) *CoreUseCase {
	return &CoreUseCase{
		ledger: ledger,
	}
}

// Login 登入；帳戶不存在時建立
func (c *CoreUseCase) Login(ctx context.Context, name string) (*domain.Result, error) {
	return c.post(ctx, domain.TransactionTypeOpen, name, "", 0)
}

// Deposit 存款 (有欠款時先還債)
func (c *CoreUseCase) Deposit(ctx context.Context, name string, amount int64) (*domain.Result, error) {
	return c.post(ctx, domain.TransactionTypeDeposit, name, "", amount)
}

// Withdraw 提款
func (c *CoreUseCase) Withdraw(ctx context.Context, name string, amount int64) (*domain.Result, error) {
	return c.post(ctx, domain.TransactionTypeWithdraw, name, "", amount)
}

// Transfer 轉帳
func (c *CoreUseCase) Transfer(ctx context.Context, from, to string, amount int64) (*domain.Result, error) {
	return c.post(ctx, domain.TransactionTypeTransfer, from, to, amount)
}

// PostTransaction 處理外部已組好的交易 (例如帶 ref_id 的 gRPC 請求)
func (c *CoreUseCase) PostTransaction(ctx context.Context, tran *domain.Transaction) (*domain.Result, error) {
	if tran.TransactionID == uuid.Nil {
		tran.TransactionID = uuid.New()
	}
	if tran.CreatedAt == 0 {
		tran.CreatedAt = time.Now().UnixNano()
	}
	return c.ledger.PostTransaction(ctx, tran)
}

// GetAccount 取得帳戶快照
func (c *CoreUseCase) GetAccount(ctx context.Context, name string) (domain.AccountSnapshot, error) {
	return c.ledger.GetAccount(ctx, name)
}

// Accounts 取得所有帳戶快照
func (c *CoreUseCase) Accounts(ctx context.Context) ([]domain.AccountSnapshot, error) {
	return c.ledger.LoadAllAccounts(ctx)
}

func (c *CoreUseCase) post(ctx context.Context, txType domain.TransactionType, customer, counterparty string, amount int64) (*domain.Result, error) {
	return c.PostTransaction(ctx, &domain.Transaction{
		TransactionID: uuid.New(),
		Type:          txType,
		Customer:      customer,
		Counterparty:  counterparty,
		Amount:        amount,
		CreatedAt:     time.Now().UnixNano(),
	})
}

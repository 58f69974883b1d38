package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount 金額不合法 (存提款需 > 0，轉帳需 >= 0)
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidName 客戶名稱不可為空
	ErrInvalidName = errors.New("invalid customer name")

	// ErrSameAccount 不可轉帳給自己
	ErrSameAccount = errors.New("cannot transfer to the same account")

	// ErrUnknownTransactionType 未知的交易類型
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrLedgerStopped 帳本引擎已停止
	ErrLedgerStopped = errors.New("ledger stopped")
)

// InsufficientBalanceError 提款失敗時帶出當前餘額，供前端顯示
type InsufficientBalanceError struct {
	Balance int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance (%d)", e.Balance)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

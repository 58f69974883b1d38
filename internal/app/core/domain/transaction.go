package domain

import (
	"slices"

	"github.com/google/uuid"
)

// TransactionType 交易類型
// 為了極致節省記憶體，使用 uint8
type TransactionType uint8

const (
	// 開戶 / 登入 (帳戶不存在時建立)
	TransactionTypeOpen TransactionType = 1
	// 存款
	TransactionTypeDeposit TransactionType = 2
	// 提款
	TransactionTypeWithdraw TransactionType = 3
	// 轉帳
	TransactionTypeTransfer TransactionType = 4
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeOpen:
		return "open"
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	case TransactionTypeTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Transaction 交易 注意欄位排序以避免 Padding
type Transaction struct {
	// Sequence: 全局唯一的順序號 (由帳本引擎分配，1, 2, 3...)
	Sequence uint64
	// Amount: 金額 (最小貨幣單位)
	Amount int64
	// CreatedAt: 交易時間 (UnixNano)
	CreatedAt int64
	// TransactionID: 外部追蹤號 (UUID)，重送時用來去重
	TransactionID uuid.UUID
	// Customer: 發起交易的客戶
	Customer string
	// Counterparty: 轉帳對象，只有 Transfer 使用
	Counterparty string
	// Type: 放到最後面，利用 Padding 空間
	Type TransactionType
}

// Settlement 一筆要通知前端的資金移動 (轉帳或還款)
type Settlement struct {
	Amount       int64  `json:"amount"`
	Counterparty string `json:"counterparty"`
}

// Result 交易結果
type Result struct {
	TransactionID uuid.UUID
	Sequence      uint64
	Type          TransactionType
	// Account: 交易後發起人的帳本快照
	Account AccountSnapshot
	// Transferred: 轉帳實際移動的現金 (只有 Transfer 使用)
	Transferred int64
	// Settlements: 依發生順序的轉帳 / 還款通知
	Settlements []Settlement
}

// Balance 交易後發起人的餘額
func (r *Result) Balance() int64 {
	return r.Account.Balance
}

// Clone 深拷貝，快取的結果不與呼叫端共用 slice
func (r *Result) Clone() *Result {
	c := *r
	c.Settlements = slices.Clone(r.Settlements)
	c.Account = r.Account.Clone()
	return &c
}

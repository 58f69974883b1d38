// Package ledgerrpc 定義 LedgerService 的 gRPC 介面：訊息、service descriptor 與 client。
//
// 訊息以 JSON codec 傳輸，client 與 server 都要 import 本套件以註冊 codec。
package ledgerrpc

// Code 業務結果代碼 (Soft Failure 時放在回應裡，不走 gRPC status)
type Code string

const (
	CodeOK                  Code = "OK"
	CodeInvalidRequest      Code = "INVALID_REQUEST"
	CodeInvalidAmount       Code = "INVALID_AMOUNT"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeAccountNotFound     Code = "ACCOUNT_NOT_FOUND"
	CodeSameAccount         Code = "SAME_ACCOUNT"
	CodeInternal            Code = "INTERNAL"
)

// LoginRequest 登入 (帳戶不存在時建立)
type LoginRequest struct {
	RefId    string `json:"ref_id,omitempty"`
	Customer string `json:"customer"`
}

// AmountRequest 存款 / 提款
type AmountRequest struct {
	RefId    string `json:"ref_id,omitempty"`
	Customer string `json:"customer"`
	Amount   int64  `json:"amount"`
}

// TransferRequest 轉帳
type TransferRequest struct {
	RefId    string `json:"ref_id,omitempty"`
	Customer string `json:"customer"`
	Target   string `json:"target"`
	Amount   int64  `json:"amount"`
}

type GetAccountRequest struct {
	Customer string `json:"customer"`
}

type Obligation struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type Account struct {
	Owner       string       `json:"owner"`
	Balance     int64        `json:"balance"`
	Debts       []Obligation `json:"debts,omitempty"`
	Receivables []Obligation `json:"receivables,omitempty"`
}

// Settlement 轉帳 / 還款通知
type Settlement struct {
	Amount       int64  `json:"amount"`
	Counterparty string `json:"counterparty"`
}

// OperationResponse Login / Deposit / Withdraw / Transfer 共用的回應
type OperationResponse struct {
	Success bool   `json:"success"`
	Code    Code   `json:"code"`
	Message string `json:"message,omitempty"`
	// CurrentBalance 成功時為交易後餘額；餘額不足時為當前餘額
	CurrentBalance int64        `json:"current_balance"`
	Sequence       uint64       `json:"sequence,omitempty"`
	Transferred    int64        `json:"transferred,omitempty"`
	Settlements    []Settlement `json:"settlements,omitempty"`
	Account        *Account     `json:"account,omitempty"`
}

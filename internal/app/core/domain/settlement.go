package domain

import (
	"fmt"
	"math"
)

// Accounts 依名稱找出帳本，由持有所有帳本的 store 提供
type Accounts interface {
	Find(name string) (*Ledger, bool)
}

// Deposit 存款；有欠款時先依序還債，剩下的才進餘額
//
// 參數:
//
//	l: 存款人的帳本
//	amount: 存款金額 (需 > 0)
//	accounts: 用來找債權人帳本
//
// 回傳:
//
//	[]Settlement: 每筆還款通知 (金額, 債權人)
//	error: ErrInvalidAmount (含入帳後餘額超過 int64 上限) / ErrAccountNotFound
func Deposit(l *Ledger, amount int64, accounts Accounts) ([]Settlement, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if l.balance > math.MaxInt64-(amount-payable(l, amount)) {
		return nil, ErrInvalidAmount
	}
	if !l.HasAnyDebt() {
		l.credit(amount)
		return nil, nil
	}
	settlements, remaining, err := PayOutstandingDebts(l, amount, accounts)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		l.credit(remaining)
	}
	return settlements, nil
}

// PayOutstandingDebts 依欠款建立順序逐筆償還，並同步扣減債權人的應收款
// 回傳還款通知與未用完的金額
//
// 所有債權人帳本會在修改前先找齊；找不到任何一個就不做任何修改。
func PayOutstandingDebts(l *Ledger, amount int64, accounts Accounts) ([]Settlement, int64, error) {
	debts := l.Debts()
	creditors := make([]*Ledger, len(debts))
	for i, debt := range debts {
		creditor, ok := accounts.Find(debt.Name)
		if !ok {
			return nil, amount, fmt.Errorf("creditor %q: %w", debt.Name, ErrAccountNotFound)
		}
		creditors[i] = creditor
	}

	remaining := amount
	var settlements []Settlement
	for i, debt := range debts {
		if remaining <= 0 {
			break
		}
		paid := min(debt.Amount, remaining)
		l.PayDebt(debt.Name, paid)
		creditors[i].CollectReceivable(l.owner, paid)
		settlements = append(settlements, Settlement{Amount: paid, Counterparty: debt.Name})
		remaining -= paid
	}
	return settlements, remaining, nil
}

// payable 存入 amount 時會拿去還債的金額 (不修改帳本)
func payable(l *Ledger, amount int64) int64 {
	var paid int64
	for _, debt := range l.Debts() {
		if paid >= amount {
			break
		}
		paid += min(debt.Amount, amount-paid)
	}
	return paid
}

// Withdraw 提款；不可超過餘額
func Withdraw(l *Ledger, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > l.balance {
		return &InsufficientBalanceError{Balance: l.balance}
	}
	l.debit(amount)
	return nil
}

// Transfer 轉帳
//
// 餘額足夠時：若對方本來就欠我，先互相抵銷，只移動抵銷後剩下的現金。
// 餘額不足時：餘額全數轉出，不足的部分累加到我對對方的欠款 / 對方對我的應收款。
//
// 回傳:
//
//	int64: 實際移動的現金
//	[]Settlement: 現金不為 0 時的轉帳通知
//	error: ErrInvalidAmount (含金額會超過 int64 上限) / ErrSameAccount
func Transfer(sender, receiver *Ledger, amount int64) (int64, []Settlement, error) {
	if amount < 0 {
		return 0, nil, ErrInvalidAmount
	}
	if sender == receiver || sender.owner == receiver.owner {
		return 0, nil, ErrSameAccount
	}

	var transferred int64
	if sender.balance-amount >= 0 {
		cash := amount
		if sender.HasReceivableFrom(receiver.owner) {
			cash = max(0, amount-sender.ReceivableFrom(receiver.owner))
		}
		if receiver.balance > math.MaxInt64-cash {
			return 0, nil, ErrInvalidAmount
		}
		transferred = transferWithBalance(sender, receiver, amount)
	} else {
		shortfall := amount - sender.balance
		if receiver.balance > math.MaxInt64-sender.balance || sender.DebtTo(receiver.owner) > math.MaxInt64-shortfall {
			return 0, nil, ErrInvalidAmount
		}
		transferred = transferWithShortfall(sender, receiver, amount)
	}

	if transferred == 0 {
		return 0, nil, nil
	}
	return transferred, []Settlement{{Amount: transferred, Counterparty: receiver.owner}}, nil
}

func transferWithBalance(sender, receiver *Ledger, amount int64) int64 {
	if !sender.HasReceivableFrom(receiver.owner) {
		moveCash(sender, receiver, amount)
		return amount
	}
	return offsetReceivable(sender, receiver, amount)
}

// transferWithShortfall 不動既有的應收款，不足額直接記成新的欠款
func transferWithShortfall(sender, receiver *Ledger, amount int64) int64 {
	shortfall := amount - sender.balance
	transferred := sender.balance
	moveCash(sender, receiver, transferred)
	sender.addDebt(receiver.owner, shortfall)
	receiver.addReceivable(sender.owner, shortfall)
	return transferred
}

// offsetReceivable 以應收款抵銷轉帳金額，回傳抵銷後實際移動的現金
func offsetReceivable(sender, receiver *Ledger, amount int64) int64 {
	receivable := sender.ReceivableFrom(receiver.owner)
	sender.CollectReceivable(receiver.owner, amount)
	receiver.PayDebt(sender.owner, amount)

	transferred := max(0, amount-receivable)
	moveCash(sender, receiver, transferred)
	return transferred
}

func moveCash(sender, receiver *Ledger, amount int64) {
	sender.debit(amount)
	receiver.credit(amount)
}

package domain

import "slices"

// Ledger 單一客戶的帳本：餘額、欠款 (debts) 與應收款 (receivables)
//
// 以下方法皆為不做驗證的基本操作，業務規則 (金額 > 0、餘額足夠、帳戶存在)
// 由 settlement 的 Deposit / Withdraw / Transfer 負責。
type Ledger struct {
	owner   string
	balance int64
	// 我欠別人的 (creditor -> amount)
	debts *Obligations
	// 別人欠我的 (debtor -> amount)
	receivables *Obligations
}

// NewLedger 建立餘額 0、無欠款的帳本
func NewLedger(owner string) *Ledger {
	return &Ledger{
		owner:       owner,
		debts:       newObligations(),
		receivables: newObligations(),
	}
}

func (l *Ledger) Owner() string {
	return l.owner
}

func (l *Ledger) Balance() int64 {
	return l.balance
}

// DebtTo 欠 name 的金額，沒有則為 0
func (l *Ledger) DebtTo(name string) int64 {
	return l.debts.Get(name)
}

// ReceivableFrom name 欠我的金額，沒有則為 0
func (l *Ledger) ReceivableFrom(name string) int64 {
	return l.receivables.Get(name)
}

// HasAnyDebt 是否有任何未清欠款 (決定存款是否要先還債)
// 金額只存正數，有筆數就代表有欠款
func (l *Ledger) HasAnyDebt() bool {
	return l.debts.Len() > 0
}

// HasReceivableFrom 是否有 name 的應收款
func (l *Ledger) HasReceivableFrom(name string) bool {
	return l.receivables.Has(name)
}

// PayDebt 償還對 name 的欠款，超付的部分直接捨棄
func (l *Ledger) PayDebt(name string, amount int64) {
	l.debts.Reduce(name, amount)
}

// CollectReceivable 收回 name 的應收款，超收的部分直接捨棄
func (l *Ledger) CollectReceivable(name string, amount int64) {
	l.receivables.Reduce(name, amount)
}

// Debts 依建立順序回傳欠款複本
func (l *Ledger) Debts() []Obligation {
	return l.debts.List()
}

// Receivables 依建立順序回傳應收款複本
func (l *Ledger) Receivables() []Obligation {
	return l.receivables.List()
}

// Snapshot 回傳帳本的值拷貝，外部不會拿到內部指標
func (l *Ledger) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		Owner:       l.owner,
		Balance:     l.balance,
		Debts:       l.debts.List(),
		Receivables: l.receivables.List(),
	}
}

func (l *Ledger) credit(amount int64) {
	l.balance += amount
}

func (l *Ledger) debit(amount int64) {
	l.balance -= amount
}

func (l *Ledger) addDebt(name string, amount int64) {
	l.debts.Add(name, amount)
}

func (l *Ledger) addReceivable(name string, amount int64) {
	l.receivables.Add(name, amount)
}

// AccountSnapshot 帳本的唯讀視圖，回傳給 adapter 顯示用
type AccountSnapshot struct {
	Owner       string       `json:"owner"`
	Balance     int64        `json:"balance"`
	Debts       []Obligation `json:"debts"`
	Receivables []Obligation `json:"receivables"`
}

// Clone 複製欠款與應收款清單
func (s AccountSnapshot) Clone() AccountSnapshot {
	s.Debts = slices.Clone(s.Debts)
	s.Receivables = slices.Clone(s.Receivables)
	return s
}

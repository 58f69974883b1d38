package domain

import "math"

// Obligation 一筆對特定對象的欠款或應收款
type Obligation struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// Obligations 依建立順序保存的 名稱 -> 金額 表
//
// 結構:
//
//	names: 建立順序 (還款時依此順序逐一處理)
//	amounts: 名稱對應金額，只存正數；結清後刪除，不保留 0
type Obligations struct {
	names   []string
	amounts map[string]int64
}

func newObligations() *Obligations {
	return &Obligations{
		amounts: make(map[string]int64),
	}
}

// Get 取得金額，不存在回傳 0
func (o *Obligations) Get(name string) int64 {
	return o.amounts[name]
}

// Has 是否存在非零金額
func (o *Obligations) Has(name string) bool {
	return o.amounts[name] != 0
}

// Add 累加金額，不存在則新增到尾端
func (o *Obligations) Add(name string, amount int64) {
	if amount <= 0 {
		return
	}
	if _, ok := o.amounts[name]; !ok {
		o.names = append(o.names, name)
	}
	o.amounts[name] += amount
}

// Reduce 扣減金額；餘額 <= 0 時直接移除 (超額部分不保留)
// 不存在時為 no-op
func (o *Obligations) Reduce(name string, amount int64) {
	current, ok := o.amounts[name]
	if !ok {
		return
	}
	remaining := current - amount
	if remaining > 0 {
		o.amounts[name] = remaining
		return
	}
	delete(o.amounts, name)
	for i, n := range o.names {
		if n == name {
			o.names = append(o.names[:i], o.names[i+1:]...)
			break
		}
	}
}

// Total 所有金額加總，超過 int64 上限時回傳 math.MaxInt64
func (o *Obligations) Total() int64 {
	var total int64
	for _, amount := range o.amounts {
		if total > math.MaxInt64-amount {
			return math.MaxInt64
		}
		total += amount
	}
	return total
}

// Len 筆數
func (o *Obligations) Len() int {
	return len(o.names)
}

// List 依建立順序回傳複本
func (o *Obligations) List() []Obligation {
	out := make([]Obligation, 0, len(o.names))
	for _, name := range o.names {
		out = append(out, Obligation{Name: name, Amount: o.amounts[name]})
	}
	return out
}

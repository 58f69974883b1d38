package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
)

// DefaultQueueSize 輸送帶預設緩衝
const DefaultQueueSize = 1000

// ledgerRequest 請求包裝channel，讓呼叫端可以等待結果
// op 只會在 run loop 裡執行，因此讀寫 book 都不需要鎖
type ledgerRequest struct {
	op   func(b *book)
	done chan struct{} // 讓呼叫端等這個 channel
}

// LMAXLedger 單一 goroutine 依序處理所有請求的帳本
type LMAXLedger struct {
	book *book
	// 輸送帶 負責接收請求
	requests chan *ledgerRequest
	// Pool 減少 GC 壓力
	requestPool sync.Pool
	// run loop 結束後關閉
	stopped   chan struct{}
	startOnce sync.Once
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例，需呼叫 Start 後才會開始處理
//
// 參數:
//
//	queueSize: 輸送帶緩衝大小，<= 0 使用 DefaultQueueSize
//	customers: 預先開戶的客戶名稱 (可省略)
//
// 回傳:
//
//	*LMAXLedger: LMAXLedger 實例
func NewLMAXLedger(queueSize int, customers ...string) *LMAXLedger {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	ledger := &LMAXLedger{
		book:     newBook(),
		requests: make(chan *ledgerRequest, queueSize),
		stopped:  make(chan struct{}),
		requestPool: sync.Pool{
			New: func() interface{} {
				return &ledgerRequest{
					done: make(chan struct{}, 1),
				}
			},
		},
	}
	openAll(ledger.book, customers)
	return ledger
}

// Start 啟動核心引擎 (非同步)；ctx 結束時把剩下的請求處理完後停止
func (l *LMAXLedger) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		go l.run(ctx)
	})
}

// Done 引擎停止後關閉
func (l *LMAXLedger) Done() <-chan struct{} {
	return l.stopped
}

// PostTransaction 接收交易請求
//
// PostTransaction(等待) -> Channel -> Run Loop (核心) -> book.apply -> done Channel -> PostTransaction(收到結果)
func (l *LMAXLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) (*domain.Result, error) {
	var (
		res *domain.Result
		err error
	)
	if submitErr := l.submit(ctx, func(b *book) {
		res, err = b.apply(tran)
	}); submitErr != nil {
		return nil, submitErr
	}
	return res, err
}

// GetAccount 取得指定帳戶的快照 (同樣經過輸送帶，不會讀到處理中的狀態)
func (l *LMAXLedger) GetAccount(ctx context.Context, name string) (domain.AccountSnapshot, error) {
	var (
		snap domain.AccountSnapshot
		err  error
	)
	if submitErr := l.submit(ctx, func(b *book) {
		snap, err = b.account(name)
	}); submitErr != nil {
		return domain.AccountSnapshot{}, submitErr
	}
	return snap, err
}

// LoadAllAccounts implements usecase.Ledger.
func (l *LMAXLedger) LoadAllAccounts(ctx context.Context) ([]domain.AccountSnapshot, error) {
	var snaps []domain.AccountSnapshot
	if err := l.submit(ctx, func(b *book) {
		snaps = b.snapshots()
	}); err != nil {
		return nil, err
	}
	return snaps, nil
}

// submit 放入輸送帶並等待處理完成
func (l *LMAXLedger) submit(ctx context.Context, op func(b *book)) error {
	// 1. 放入輸送帶 (使用 sync.Pool 減少 GC)
	req := l.requestPool.Get().(*ledgerRequest)
	req.op = op

	select {
	case l.requests <- req:
	case <-l.stopped:
		l.release(req)
		return domain.ErrLedgerStopped
	case <-ctx.Done():
		l.release(req)
		return ctx.Err()
	}

	// 2. 等結果
	select {
	case <-req.done:
		l.release(req)
		return nil
	case <-l.stopped:
		// 停止前已處理完的請求，結果一定已經在 done 裡
		select {
		case <-req.done:
			l.release(req)
			return nil
		default:
			return domain.ErrLedgerStopped
		}
	case <-ctx.Done():
		// 請求仍可能被處理，不放回 Pool
		return ctx.Err()
	}
}

func (l *LMAXLedger) release(req *ledgerRequest) {
	req.op = nil
	l.requestPool.Put(req)
}

func (l *LMAXLedger) run(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			// 收到關閉信號，把剩下的請求處理完
			l.drain()
			return
		case req := <-l.requests:
			l.process(req)
		}
	}
}

func (l *LMAXLedger) drain() {
	for {
		select {
		case req := <-l.requests:
			l.process(req)
		default:
			return
		}
	}
}

// process 處理單筆請求並通知呼叫端
func (l *LMAXLedger) process(req *ledgerRequest) {
	req.op(l.book)
	req.done <- struct{}{}
}

var _ usecase.Ledger = (*LMAXLedger)(nil)

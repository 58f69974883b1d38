package grpc

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/domain"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
	"github.com/JoeShih716/go-debt-atm/pkg/ledgerrpc"
)

type GrpcServer struct {
	ledgerrpc.UnimplementedLedgerServiceServer
	core   *usecase.CoreUseCase
	logger *log.Logger
}

func NewGrpcServer(core *usecase.CoreUseCase, logger *log.Logger) *GrpcServer {
	return &GrpcServer{
		core:   core,
		logger: logger,
	}
}

func (s *GrpcServer) Login(ctx context.Context, req *ledgerrpc.LoginRequest) (*ledgerrpc.OperationResponse, error) {
	return s.post(ctx, req.RefId, domain.TransactionTypeOpen, req.Customer, "", 0)
}

func (s *GrpcServer) Deposit(ctx context.Context, req *ledgerrpc.AmountRequest) (*ledgerrpc.OperationResponse, error) {
	return s.post(ctx, req.RefId, domain.TransactionTypeDeposit, req.Customer, "", req.Amount)
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *ledgerrpc.AmountRequest) (*ledgerrpc.OperationResponse, error) {
	return s.post(ctx, req.RefId, domain.TransactionTypeWithdraw, req.Customer, "", req.Amount)
}

func (s *GrpcServer) Transfer(ctx context.Context, req *ledgerrpc.TransferRequest) (*ledgerrpc.OperationResponse, error) {
	return s.post(ctx, req.RefId, domain.TransactionTypeTransfer, req.Customer, req.Target, req.Amount)
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *ledgerrpc.GetAccountRequest) (*ledgerrpc.Account, error) {
	account, err := s.core.GetAccount(ctx, req.Customer)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return toAccount(account), nil
}

// post 組裝 domain.Transaction 並執行
// 業務錯誤以 Success=false 回傳 (Soft Failure)；引擎停止或 ctx 結束才回 gRPC status
func (s *GrpcServer) post(ctx context.Context, refID string, txType domain.TransactionType, customer, counterparty string, amount int64) (*ledgerrpc.OperationResponse, error) {
	// 1. UUID 解析 (空字串由 usecase 產生新的)
	var id uuid.UUID
	if refID != "" {
		u, err := uuid.Parse(refID)
		if err != nil {
			return &ledgerrpc.OperationResponse{
				Success: false,
				Code:    ledgerrpc.CodeInvalidRequest,
				Message: "invalid ref_id: " + err.Error(),
			}, nil
		}
		id = u
	}

	// 2. 組裝 Domain Transaction
	tx := &domain.Transaction{
		TransactionID: id,
		Type:          txType,
		Customer:      customer,
		Counterparty:  counterparty,
		Amount:        amount,
	}

	// 3. 執行交易
	result, err := s.core.PostTransaction(ctx, tx)
	if err != nil {
		return s.failure(ctx, tx, err)
	}

	// 4. 組裝回應
	settlements := make([]ledgerrpc.Settlement, 0, len(result.Settlements))
	for _, st := range result.Settlements {
		settlements = append(settlements, ledgerrpc.Settlement{Amount: st.Amount, Counterparty: st.Counterparty})
	}
	return &ledgerrpc.OperationResponse{
		Success:        true,
		Code:           ledgerrpc.CodeOK,
		CurrentBalance: result.Balance(),
		Sequence:       result.Sequence,
		Transferred:    result.Transferred,
		Settlements:    settlements,
		Account:        toAccount(result.Account),
	}, nil
}

func (s *GrpcServer) failure(ctx context.Context, tx *domain.Transaction, err error) (*ledgerrpc.OperationResponse, error) {
	resp := &ledgerrpc.OperationResponse{
		Success: false,
		Message: err.Error(),
	}

	var insufficient *domain.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		resp.Code = ledgerrpc.CodeInsufficientBalance
		resp.CurrentBalance = insufficient.Balance
	case errors.Is(err, domain.ErrInvalidAmount):
		resp.Code = ledgerrpc.CodeInvalidAmount
	case errors.Is(err, domain.ErrAccountNotFound):
		resp.Code = ledgerrpc.CodeAccountNotFound
	case errors.Is(err, domain.ErrSameAccount):
		resp.Code = ledgerrpc.CodeSameAccount
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, domain.ErrUnknownTransactionType):
		resp.Code = ledgerrpc.CodeInvalidRequest
	case errors.Is(err, domain.ErrLedgerStopped):
		return nil, status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return nil, status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return nil, status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error("transaction failed", "ref_id", tx.TransactionID, "type", tx.Type, "customer", tx.Customer, "err", err)
		resp.Code = ledgerrpc.CodeInternal
	}
	return resp, nil
}

func toAccount(snap domain.AccountSnapshot) *ledgerrpc.Account {
	return &ledgerrpc.Account{
		Owner:       snap.Owner,
		Balance:     snap.Balance,
		Debts:       toObligations(snap.Debts),
		Receivables: toObligations(snap.Receivables),
	}
}

func toObligations(list []domain.Obligation) []ledgerrpc.Obligation {
	if len(list) == 0 {
		return nil
	}
	out := make([]ledgerrpc.Obligation, 0, len(list))
	for _, o := range list {
		out = append(out, ledgerrpc.Obligation{Name: o.Name, Amount: o.Amount})
	}
	return out
}

package ledgerrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "ledger.LedgerService"

	LedgerService_Login_FullMethodName      = "/ledger.LedgerService/Login"
	LedgerService_Deposit_FullMethodName    = "/ledger.LedgerService/Deposit"
	LedgerService_Withdraw_FullMethodName   = "/ledger.LedgerService/Withdraw"
	LedgerService_Transfer_FullMethodName   = "/ledger.LedgerService/Transfer"
	LedgerService_GetAccount_FullMethodName = "/ledger.LedgerService/GetAccount"
)

// LedgerServiceServer 是 server 端要實作的介面
type LedgerServiceServer interface {
	Login(context.Context, *LoginRequest) (*OperationResponse, error)
	Deposit(context.Context, *AmountRequest) (*OperationResponse, error)
	Withdraw(context.Context, *AmountRequest) (*OperationResponse, error)
	Transfer(context.Context, *TransferRequest) (*OperationResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*Account, error)
}

// UnimplementedLedgerServiceServer 嵌入後未實作的方法回傳 codes.Unimplemented
type UnimplementedLedgerServiceServer struct{}

func (UnimplementedLedgerServiceServer) Login(context.Context, *LoginRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedLedgerServiceServer) Deposit(context.Context, *AmountRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Deposit not implemented")
}

func (UnimplementedLedgerServiceServer) Withdraw(context.Context, *AmountRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}

func (UnimplementedLedgerServiceServer) Transfer(context.Context, *TransferRequest) (*OperationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Transfer not implemented")
}

func (UnimplementedLedgerServiceServer) GetAccount(context.Context, *GetAccountRequest) (*Account, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}

// RegisterLedgerServiceServer 註冊服務到 gRPC server
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

// unaryHandler 產生 grpc.MethodDesc 需要的 handler：解碼請求、套用攔截器、呼叫實作
func unaryHandler[Req, Resp any](fullMethod string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerService_ServiceDesc LedgerService 的 service descriptor
var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Login",
			Handler:    unaryHandler(LedgerService_Login_FullMethodName, LedgerServiceServer.Login),
		},
		{
			MethodName: "Deposit",
			Handler:    unaryHandler(LedgerService_Deposit_FullMethodName, LedgerServiceServer.Deposit),
		},
		{
			MethodName: "Withdraw",
			Handler:    unaryHandler(LedgerService_Withdraw_FullMethodName, LedgerServiceServer.Withdraw),
		},
		{
			MethodName: "Transfer",
			Handler:    unaryHandler(LedgerService_Transfer_FullMethodName, LedgerServiceServer.Transfer),
		},
		{
			MethodName: "GetAccount",
			Handler:    unaryHandler(LedgerService_GetAccount_FullMethodName, LedgerServiceServer.GetAccount),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger.proto",
}

// LedgerServiceClient 是 client 端介面
type LedgerServiceClient interface {
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*OperationResponse, error)
	Deposit(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*OperationResponse, error)
	Withdraw(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*OperationResponse, error)
	Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*OperationResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error)
}

type ledgerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerServiceClient(cc grpc.ClientConnInterface) LedgerServiceClient {
	return &ledgerServiceClient{cc: cc}
}

func (c *ledgerServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	out := new(OperationResponse)
	if err := c.invoke(ctx, LedgerService_Login_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Deposit(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	out := new(OperationResponse)
	if err := c.invoke(ctx, LedgerService_Deposit_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Withdraw(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	out := new(OperationResponse)
	if err := c.invoke(ctx, LedgerService_Withdraw_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*OperationResponse, error) {
	out := new(OperationResponse)
	if err := c.invoke(ctx, LedgerService_Transfer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	out := new(Account)
	if err := c.invoke(ctx, LedgerService_GetAccount_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// invoke 固定使用 JSON codec
func (c *ledgerServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, callOpts...)
}

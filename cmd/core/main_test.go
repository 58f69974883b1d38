package main

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	grpc_adapter "github.com/JoeShih716/go-debt-atm/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
	"github.com/JoeShih716/go-debt-atm/internal/config"
	"github.com/JoeShih716/go-debt-atm/pkg/ledgerrpc"
	"github.com/JoeShih716/go-debt-atm/pkg/logger"
)

// 關機時處理中的 RPC 必須先跑完，帳本才停止
func TestShutdownFinishesInFlightRequests(t *testing.T) {
	ledger, stopLedger := newLedger(config.LedgerConfig{Engine: config.EngineLMAX, QueueSize: 16})

	entered := make(chan struct{})
	release := make(chan struct{})
	hold := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		close(entered)
		<-release
		return handler(ctx, req)
	}

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(hold))
	core := usecase.NewCoreUseCase(ledger)
	ledgerrpc.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(core, logger.Discard()))
	go func() {
		_ = s.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	client := ledgerrpc.NewLedgerServiceClient(conn)

	type reply struct {
		resp *ledgerrpc.OperationResponse
		err  error
	}
	replies := make(chan reply, 1)
	go func() {
		resp, err := client.Login(context.Background(), &ledgerrpc.LoginRequest{Customer: "Alice"})
		replies <- reply{resp, err}
	}()
	<-entered

	stopped := make(chan struct{})
	go func() {
		shutdown(s, stopLedger)
		close(stopped)
	}()

	// GracefulStop 等待中，不能先結束
	select {
	case <-stopped:
		t.Fatal("shutdown returned while a request was still in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	r := <-replies
	if r.err != nil {
		t.Fatalf("in-flight login failed: %v", r.err)
	}
	if !r.resp.Success || r.resp.Account.Owner != "Alice" {
		t.Fatalf("in-flight login got %+v", r.resp)
	}

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not finish")
	}
}

func TestNewLedgerMutexStopIsNoop(t *testing.T) {
	ledger, stopLedger := newLedger(config.LedgerConfig{Engine: config.EngineMutex, Customers: []string{"Alice"}})
	stopLedger()

	acc, err := ledger.GetAccount(context.Background(), "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if acc.Owner != "Alice" {
		t.Fatalf("owner = %q", acc.Owner)
	}
}

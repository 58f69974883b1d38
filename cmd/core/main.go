package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-debt-atm/internal/app/core/adapter/in/grpc"
	memory_adapter "github.com/JoeShih716/go-debt-atm/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
	"github.com/JoeShih716/go-debt-atm/internal/config"
	"github.com/JoeShih716/go-debt-atm/pkg/ledgerrpc"
	"github.com/JoeShih716/go-debt-atm/pkg/logger"
)

func main() {
	// 1. 載入設定
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logg, err := logger.New(os.Stderr, cfg.Log.Level, "core")
	if err != nil {
		log.Fatal("failed to init logger", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 選擇帳本引擎 (LMAX 不跟 signal ctx 綁在一起，等 gRPC server 停止後才關)
	usedLedger, stopLedger := newLedger(cfg.Ledger)
	logg.Info("ledger ready", "engine", cfg.Ledger.Engine, "customers", len(cfg.Ledger.Customers))

	// 3. 初始化 UseCase
	coreUseCase := usecase.NewCoreUseCase(usedLedger)

	// 4. 初始化 gRPC Adapter (Driving Adapter)
	grpcServer := grpc_adapter.NewGrpcServer(coreUseCase, logg)

	// 5. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		logg.Fatal("failed to listen", "addr", cfg.GRPC.Addr, "err", err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(logg)))
	ledgerrpc.RegisterLedgerServiceServer(s, grpcServer)
	reflection.Register(s)

	go func() {
		logg.Info("starting gRPC server", "addr", cfg.GRPC.Addr)
		if err := s.Serve(lis); err != nil {
			logg.Fatal("failed to serve", "err", err)
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logg.Info("shutting down server...")

	shutdown(s, stopLedger)
	logg.Info("server exited")
}

// newLedger 依設定建立帳本引擎
// stop 會停止引擎並等到輸送帶排空；mutex 引擎沒有背景 goroutine，stop 不做事
func newLedger(cfg config.LedgerConfig) (ledger usecase.Ledger, stop func()) {
	if cfg.Engine == config.EngineLMAX {
		lmax := memory_adapter.NewLMAXLedger(cfg.QueueSize, cfg.Customers...)
		ctx, cancel := context.WithCancel(context.Background())
		lmax.Start(ctx)
		return lmax, func() {
			cancel()
			<-lmax.Done()
		}
	}
	return memory_adapter.NewMutexLedger(cfg.Customers...), func() {}
}

// shutdown 先停止收新請求並等處理中的 RPC 完成，再停止帳本
func shutdown(s *grpc.Server, stopLedger func()) {
	s.GracefulStop()
	stopLedger()
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/JoeShih716/go-debt-atm/internal/app/core/adapter/in/console"
	memory_adapter "github.com/JoeShih716/go-debt-atm/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-debt-atm/internal/app/core/usecase"
	"github.com/JoeShih716/go-debt-atm/internal/config"
	"github.com/JoeShih716/go-debt-atm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	// stdout 留給 ATM 畫面，log 一律寫 stderr
	logg, err := logger.New(os.Stderr, cfg.Log.Level, "atm")
	if err != nil {
		log.Fatal("failed to init logger", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Session.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Session.Timeout)
		defer cancel()
	}

	var ledger usecase.Ledger
	switch cfg.Ledger.Engine {
	case config.EngineMutex:
		ledger = memory_adapter.NewMutexLedger(cfg.Ledger.Customers...)
	case config.EngineLMAX:
		lmax := memory_adapter.NewLMAXLedger(cfg.Ledger.QueueSize, cfg.Ledger.Customers...)
		// session 結束後帳本才停止
		ledgerCtx, cancelLedger := context.WithCancel(context.Background())
		defer cancelLedger()
		lmax.Start(ledgerCtx)
		ledger = lmax
	}

	session := console.NewSession(usecase.NewCoreUseCase(ledger), os.Stdout, logg)
	err = session.Run(ctx, os.Stdin)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logg.Debug("session closed", "reason", err)
	default:
		logg.Error("session aborted", "err", err)
		os.Exit(1)
	}
}

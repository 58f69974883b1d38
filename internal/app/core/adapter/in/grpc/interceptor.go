package grpc

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-debt-atm/pkg/ledgerrpc"
)

// LoggingInterceptor 記錄每個請求的方法、耗時與結果
func LoggingInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		if err != nil {
			logger.Warn("rpc failed", "method", info.FullMethod, "code", status.Code(err), "elapsed", elapsed, "err", err)
			return resp, err
		}
		if op, ok := resp.(*ledgerrpc.OperationResponse); ok && !op.Success {
			logger.Info("rpc rejected", "method", info.FullMethod, "code", op.Code, "elapsed", elapsed)
			return resp, err
		}
		logger.Debug("rpc ok", "method", info.FullMethod, "elapsed", elapsed)
		return resp, err
	}
}

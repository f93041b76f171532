package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Logger is the logging surface the interceptors use.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// LoggingInterceptor logs every unary call.
type LoggingInterceptor struct {
	logger Logger
}

// NewLoggingInterceptor creates a new LoggingInterceptor.
func NewLoggingInterceptor(logger Logger) *LoggingInterceptor {
	return &LoggingInterceptor{logger: logger}
}

// Unary returns the unary server interceptor.
func (i *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start).String(),
		}
		if err != nil {
			i.logger.Error("gRPC call failed", append(fields, "error", err.Error())...)
		} else {
			i.logger.Info("gRPC call", fields...)
		}

		return resp, err
	}
}

// RecoveryInterceptor turns handler panics into Internal errors.
type RecoveryInterceptor struct {
	logger Logger
}

// NewRecoveryInterceptor creates a new RecoveryInterceptor.
func NewRecoveryInterceptor(logger Logger) *RecoveryInterceptor {
	return &RecoveryInterceptor{logger: logger}
}

// Unary returns the unary server interceptor.
func (i *RecoveryInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = i.recovered(info.FullMethod, r)
			}
		}()
		return handler(ctx, req)
	}
}

// Stream returns the stream server interceptor.
func (i *RecoveryInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = i.recovered(info.FullMethod, r)
			}
		}()
		return handler(srv, ss)
	}
}

func (i *RecoveryInterceptor) recovered(method string, r any) error {
	i.logger.Error("gRPC handler panicked", "method", method, "panic", fmt.Sprint(r))
	return status.Errorf(codes.Internal, "internal error")
}

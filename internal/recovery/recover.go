// Package recovery converts panics in pluggable code (compile targets,
// user supplied passes, service handlers) into errors so that one bad
// filter cannot take the process down.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecoverToValue calls fn and turns a panic into an error. The panic is
// logged at Error level with its stack.
//
// Example:
//
//	res, err := recovery.RecoverToValue(logger, "Compile postgres", func() (Result, error) {
//	    return target.Compile(req)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)
			var zero T
			result = zero
			err = fmt.Errorf("%s panicked: %v", operation, r)
		}
	}()

	return fn()
}

// RecoverToStatus is RecoverToValue for gRPC handlers: a panic becomes a
// codes.Internal status.
func RecoverToStatus[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)
			var zero T
			result = zero
			err = status.Errorf(codes.Internal, "%s panicked: %v", operation, r)
		}
	}()

	return fn()
}

func logPanic(logger *slog.Logger, operation string, r any) {
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(debug.Stack()),
	)
}

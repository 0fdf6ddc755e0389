// Package requestid propagates request ids through gRPC request contexts.
package requestid

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Header is the gRPC metadata key for the request id.
const Header = "x-request-id"

// idKey is the unexported context key for the request id.
type idKey struct{}

// With returns a new context with the request id stored.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// FromContext retrieves the request id if present.
// Returns ("", false) if no request id is set.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok
}

// Extract extracts the request id from gRPC incoming metadata.
// Returns empty string if no request id is present.
func Extract(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	ids := md.Get(Header)
	if len(ids) == 0 {
		return ""
	}

	return ids[0]
}

// New returns a random 16 byte hex request id.
func New() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// ExtractOrNew extracts the request id from gRPC metadata, generating one if
// the caller did not send it, and returns a context with it stored.
func ExtractOrNew(ctx context.Context) (context.Context, string) {
	id := Extract(ctx)
	if id == "" {
		id = New()
	}
	return With(ctx, id), id
}

// UnaryServerInterceptor stores the request id in the handler context and
// echoes it back in the response header.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, id := ExtractOrNew(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(Header, id))
		return handler(ctx, req)
	}
}

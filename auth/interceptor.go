package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TableRequest is implemented by requests that name a catalog table.
type TableRequest interface {
	TableName() string
}

// UnaryServerInterceptor creates a gRPC unary interceptor for authentication.
// Validates bearer tokens and propagates identity via context. Requests
// implementing TableRequest are authorized per table when the authenticator
// is also a TableAuthorizer.
// If no authenticator is provided, requests pass through without auth.
func UnaryServerInterceptor(authenticator Authenticator) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if authenticator == nil {
			return handler(ctx, req)
		}

		token, err := ExtractToken(ctx)
		if err != nil {
			return nil, err
		}

		ctx, err = ValidateToken(ctx, token, authenticator)
		if err != nil {
			return nil, err
		}

		if authz, ok := authenticator.(TableAuthorizer); ok {
			if tr, ok := req.(TableRequest); ok && tr.TableName() != "" {
				if err := authz.AuthorizeTable(ctx, tr.TableName()); err != nil {
					return nil, status.Errorf(codes.PermissionDenied, "table %s: %v", tr.TableName(), err)
				}
			}
		}

		return handler(ctx, req)
	}
}

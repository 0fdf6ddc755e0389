package service

import (
	"context"

	"google.golang.org/grpc"

	"github.com/hugr-lab/pushdown-go/internal/msgpack"
)

// Client calls a remote compile service.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient returns a client over conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Compile compiles req on the server.
func (c *Client) Compile(ctx context.Context, req *CompileRequest, opts ...grpc.CallOption) (*CompileResponse, error) {
	out := new(CompileResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(msgpack.CodecName)}, opts...)
	if err := c.conn.Invoke(ctx, CompileMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

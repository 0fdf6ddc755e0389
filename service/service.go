// Package service exposes a Pipeline as a gRPC compile service.
//
// The service has no generated stubs: requests and responses are plain Go
// structs carried by the MessagePack codec registered under the "msgpack"
// content subtype. Clients created with NewClient select it automatically.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	pushdown "github.com/hugr-lab/pushdown-go"
	"github.com/hugr-lab/pushdown-go/auth"
	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/internal/msgpack"
	"github.com/hugr-lab/pushdown-go/internal/recovery"
	"github.com/hugr-lab/pushdown-go/internal/requestid"
)

func init() {
	encoding.RegisterCodec(msgpack.Codec{})
}

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "pushdown.v1.Compiler"

	// CompileMethod is the full method name of Compile.
	CompileMethod = "/" + ServiceName + "/Compile"
)

// ErrInvalidConfig indicates Config validation failed.
var ErrInvalidConfig = errors.New("invalid service config")

// Config contains configuration for the compile service.
type Config struct {
	// Pipeline compiles the filters.
	// REQUIRED.
	Pipeline *pushdown.Pipeline

	// Auth is the authentication handler.
	// OPTIONAL: If nil, no authentication is performed.
	Auth auth.Authenticator

	// Registerer receives the service metrics.
	// OPTIONAL: If nil, metrics are not registered.
	Registerer prometheus.Registerer

	// CacheSize bounds the number of cached compile results.
	// OPTIONAL: 0 uses 1024 entries, a negative size disables the cache.
	CacheSize int

	// MaxMessageSize sets the maximum gRPC message size in bytes.
	// OPTIONAL: Default is 4MB (gRPC default).
	MaxMessageSize int

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level
}

// CompilerServer is the server API of the compile service.
type CompilerServer interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

// Server implements CompilerServer over a Pipeline.
type Server struct {
	pipeline *pushdown.Pipeline
	cache    *resultCache
	metrics  *metrics
	logger   *slog.Logger
}

// NewServer validates config and registers the compile service on
// grpcServer. Pass ServerOptions(config) to grpc.NewServer so that the
// configured authentication runs.
//
// Example:
//
//	cfg := service.Config{Pipeline: p, Auth: auth.TokenAuth(tokens)}
//	grpcServer := grpc.NewServer(service.ServerOptions(cfg)...)
//	if _, err := service.NewServer(grpcServer, cfg); err != nil {
//	    log.Fatal(err)
//	}
//	grpcServer.Serve(lis)
func NewServer(grpcServer *grpc.Server, config Config) (*Server, error) {
	if grpcServer == nil {
		return nil, fmt.Errorf("%w: grpc server is nil", ErrInvalidConfig)
	}
	s, err := newServer(config)
	if err != nil {
		return nil, err
	}
	grpcServer.RegisterService(&serviceDesc, s)
	s.logger.Info("Compile service registered",
		"backends", config.Pipeline.Backends(),
		"auth_enabled", config.Auth != nil,
		"cache_size", config.CacheSize,
	)
	return s, nil
}

func newServer(config Config) (*Server, error) {
	if config.Pipeline == nil {
		return nil, fmt.Errorf("%w: pipeline is required", ErrInvalidConfig)
	}
	cache, err := newResultCache(config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Server{
		pipeline: config.Pipeline,
		cache:    cache,
		metrics:  newMetrics(config.Registerer, cache.len),
		logger:   config.logger(),
	}, nil
}

// ServerOptions returns gRPC server options for config: the request id and
// authentication interceptors and message size limits.
func ServerOptions(config Config) []grpc.ServerOption {
	interceptors := []grpc.UnaryServerInterceptor{requestid.UnaryServerInterceptor()}
	if config.Auth != nil {
		interceptors = append(interceptors, auth.UnaryServerInterceptor(config.Auth))
	}
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}
	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}
	return opts
}

// Compile implements CompilerServer.
func (s *Server) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	start := time.Now()
	resp, err := s.compile(ctx, req)
	s.metrics.observe(req.Backend, resp, err)
	if err == nil && !resp.Cached {
		s.metrics.duration.WithLabelValues(req.Backend).Observe(time.Since(start).Seconds())
	}

	id, _ := requestid.FromContext(ctx)
	logger := s.logger.With(
		"request_id", id,
		"identity", auth.IdentityFromContext(ctx),
		"backend", req.Backend,
		"table", req.Table,
	)
	if err != nil {
		logger.Warn("Compile failed", "error", err)
		return nil, err
	}
	logger.Debug("Compile done", "cached", resp.Cached, "pushed", resp.Result.Pushed)
	return resp, nil
}

func (s *Server) compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	if req.Backend == "" {
		return nil, status.Error(codes.InvalidArgument, "backend is required")
	}
	if req.Table != "" && len(req.Columns) > 0 {
		return nil, status.Error(codes.InvalidArgument, "table and columns are mutually exclusive")
	}

	key := cacheKey(req)
	if res, ok := s.cache.get(key); ok {
		return &CompileResponse{Result: res, Cached: true}, nil
	}

	res, err := recovery.RecoverToStatus(s.logger, "Compile", func() (pushdown.Result, error) {
		if req.Table != "" {
			return s.pipeline.CompileTable(ctx, req.Backend, req.Table, req.Filter, req.Projection...)
		}
		return s.pipeline.Compile(ctx, req.Backend, req.Filter, req.Columns)
	})
	if err != nil {
		return nil, toStatus(err)
	}
	s.cache.add(key, res)
	return &CompileResponse{Result: res}, nil
}

// toStatus maps pipeline errors to gRPC status codes.
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	if st := status.FromContextError(err); st.Code() != codes.Unknown {
		return st.Err()
	}

	var syntax *filter.FilterSyntaxError
	switch {
	case errors.As(err, &syntax), errors.Is(err, filter.ErrMalformedTree):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, pushdown.ErrUnknownBackend), errors.Is(err, pushdown.ErrTableNotFound):
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// logger mirrors pushdown.Config: Logger wins over LogLevel.
func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.LogLevel == nil {
		return slog.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: *c.LogLevel,
	}))
}

func compileHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CompileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompilerServer).Compile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CompileMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompilerServer).Compile(ctx, req.(*CompileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CompilerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Compile",
			Handler:    compileHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pushdown/v1/compiler",
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"gopkg.in/yaml.v3"

	"github.com/hugr-lab/pushdown-go/auth"
	"github.com/hugr-lab/pushdown-go/catalog"
	"github.com/hugr-lab/pushdown-go/service"
)

// serveCommand runs the compile service.
type serveCommand struct {
	targets     targetFlags
	listen      string
	metrics     string
	catalog     string
	tokens      string
	cacheSize   int
	maxMsgBytes int
}

// loadTokens reads a YAML map of bearer tokens to identities.
func loadTokens(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}
	var tokens map[string]string
	if err := yaml.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parse tokens %s: %w", path, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("tokens %s: no tokens", path)
	}
	return tokens, nil
}

func (cmd *serveCommand) config() (service.Config, error) {
	var cat catalog.Catalog
	if cmd.catalog != "" {
		var err error
		if cat, err = catalog.LoadFile(cmd.catalog); err != nil {
			return service.Config{}, err
		}
	}
	p, err := cmd.targets.pipeline(cat)
	if err != nil {
		return service.Config{}, err
	}
	cfg := service.Config{
		Pipeline:       p,
		CacheSize:      cmd.cacheSize,
		MaxMessageSize: cmd.maxMsgBytes,
	}
	if cmd.tokens != "" {
		tokens, err := loadTokens(cmd.tokens)
		if err != nil {
			return service.Config{}, err
		}
		cfg.Auth = auth.TokenAuth(tokens)
	}
	return cfg, nil
}

func (cmd *serveCommand) run(*kingpin.ParseContext) error {
	cfg, err := cmd.config()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cfg.Registerer = reg

	grpcServer := grpc.NewServer(service.ServerOptions(cfg)...)
	if _, err := service.NewServer(grpcServer, cfg); err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cmd.listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cmd.listen, err)
	}

	var metricsServer *http.Server
	if cmd.metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cmd.metrics, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("Shutting down")
		grpcServer.GracefulStop()
		if metricsServer != nil {
			_ = metricsServer.Close()
		}
	}()

	slog.Info("Compile service listening",
		"address", lis.Addr().String(),
		"metrics", cmd.metrics,
		"auth_enabled", cfg.Auth != nil,
	)
	return grpcServer.Serve(lis)
}

func addServeCommand(app *kingpin.Application) {
	cmd := &serveCommand{}
	c := app.Command("serve", "Serve the gRPC compile service.").Action(cmd.run)
	c.Flag("listen", "gRPC listen address.").Default(":50061").StringVar(&cmd.listen)
	c.Flag("metrics-listen", "HTTP address of the /metrics endpoint; disabled when empty.").StringVar(&cmd.metrics)
	c.Flag("catalog", "YAML catalog file resolving table names.").ExistingFileVar(&cmd.catalog)
	c.Flag("tokens", "YAML file mapping bearer tokens to identities; no authentication when empty.").ExistingFileVar(&cmd.tokens)
	c.Flag("cache-size", "Compile cache entries; negative disables the cache.").Default("1024").IntVar(&cmd.cacheSize)
	c.Flag("max-message-size", "Maximum gRPC message size in bytes.").Default("4194304").IntVar(&cmd.maxMsgBytes)
	cmd.targets.register(c)
}

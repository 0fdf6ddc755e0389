package pushdown

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hugr-lab/pushdown-go/catalog"
	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/internal/recovery"
)

// Pipeline compiles wire filters for registered targets. It is immutable
// once built and safe for concurrent use.
type Pipeline struct {
	catalog catalog.Catalog
	targets map[string]Target
	names   []string
	logger  *slog.Logger
}

// Backends returns the target names in registration order.
func (p *Pipeline) Backends() []string {
	return append([]string(nil), p.names...)
}

// Compile parses wire and compiles it for backend against columns. An
// empty wire string compiles to an unfiltered result.
func (p *Pipeline) Compile(ctx context.Context, backend, wire string, columns filter.Columns) (Result, error) {
	return p.compile(ctx, backend, wire, Request{Columns: columns})
}

// CompileTable resolves table in the configured catalog and compiles wire
// for backend. projection names the columns of generated queries.
func (p *Pipeline) CompileTable(ctx context.Context, backend, table, wire string, projection ...string) (Result, error) {
	if p.catalog == nil {
		return Result{}, fmt.Errorf("%w: no catalog configured", ErrTableNotFound)
	}
	t, err := p.catalog.Table(ctx, table)
	if err != nil {
		return Result{}, err
	}
	if t == nil {
		return Result{}, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	columns := t.Columns()
	return p.compile(ctx, backend, wire, Request{Table: table, Columns: columns, Projection: projection})
}

func (p *Pipeline) compile(ctx context.Context, backend, wire string, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	target, ok := p.targets[backend]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}

	var debug string
	if wire != "" {
		root, err := filter.Parse(wire)
		if err != nil {
			return Result{}, err
		}
		req.Root = root
		if debug, err = filter.Format(root, req.Columns.Names()...); err != nil {
			return Result{}, err
		}
	}

	res, err := recovery.RecoverToValue(p.logger, "Compile "+backend, func() (Result, error) {
		return target.Compile(req)
	})
	if err != nil {
		return Result{}, err
	}
	res.Backend = backend
	res.Debug = debug

	p.logger.Debug("Filter compiled",
		"backend", backend,
		"table", req.Table,
		"filter", debug,
		"pushed", res.Pushed,
	)
	return res, nil
}

package pushdown

import (
	"github.com/hugr-lab/pushdown-go/connector/hive"
	"github.com/hugr-lab/pushdown-go/connector/jdbc"
	"github.com/hugr-lab/pushdown-go/connector/mongo"
	"github.com/hugr-lab/pushdown-go/connector/parquet"
	"github.com/hugr-lab/pushdown-go/connector/s3select"
	"github.com/hugr-lab/pushdown-go/filter"
)

// Request is a parsed filter with the table it applies to.
type Request struct {
	// Root is the filter tree. Nil means no filter.
	Root filter.Node

	// Table is the source name, written as given in generated queries.
	// OPTIONAL.
	Table string

	// Columns resolves the column indexes of Root.
	Columns filter.Columns

	// Projection names the columns a generated query selects; all when
	// empty.
	Projection []string
}

// Result is the compiled form of a filter for one backend.
type Result struct {
	// Backend is the target name.
	Backend string `msgpack:"backend"`

	// Pushed reports whether any predicate was pushed.
	Pushed bool `msgpack:"pushed"`

	// Filter is the native filter text: a WHERE body, a metastore filter,
	// an extended JSON document or a search argument.
	Filter string `msgpack:"filter,omitempty"`

	// Query is a complete statement, for backends that take one.
	Query string `msgpack:"query,omitempty"`

	// SearchArgument is the transport encoding of the search argument, for
	// columnar readers.
	SearchArgument string `msgpack:"sarg,omitempty"`

	// Debug is the readable form of the input filter.
	Debug string `msgpack:"debug,omitempty"`
}

// Target compiles filters for one kind of data source.
// Implementations MUST be goroutine-safe.
type Target interface {
	// Name identifies the target in Pipeline.Compile.
	Name() string

	// Compile renders req.Root. Unsupported predicates are pruned, not
	// reported: a Result with Pushed false is a valid answer.
	Compile(req Request) (Result, error)
}

// JDBCTarget returns a target rendering WHERE clauses for a SQL dialect.
func JDBCTarget(d jdbc.Dialect) Target { return jdbcTarget{d} }

type jdbcTarget struct{ d jdbc.Dialect }

func (t jdbcTarget) Name() string { return t.d.Name }

func (t jdbcTarget) Compile(req Request) (Result, error) {
	where, ok, err := t.d.Where(req.Root, req.Columns)
	if err != nil {
		return Result{}, err
	}
	res := Result{Pushed: ok, Filter: where}
	if req.Table != "" {
		res.Query = t.d.Query(req.Table, req.Projection, where)
	}
	return res, nil
}

// HiveTarget returns a target rendering metastore partition filters. The
// partition keys are the columns marked Partition.
func HiveTarget(opts hive.Options) Target { return hiveTarget{opts} }

type hiveTarget struct{ opts hive.Options }

func (hiveTarget) Name() string { return "hive" }

func (t hiveTarget) Compile(req Request) (Result, error) {
	s, ok, err := hive.PartitionFilter(req.Root, req.Columns, hive.KeysOf(req.Columns), t.opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Pushed: ok, Filter: s}, nil
}

// S3SelectTarget returns a target rendering S3 Select queries.
func S3SelectTarget(opts s3select.Options) Target { return s3selectTarget{opts} }

type s3selectTarget struct{ opts s3select.Options }

func (s3selectTarget) Name() string { return "s3select" }

func (t s3selectTarget) Compile(req Request) (Result, error) {
	where, ok, err := s3select.Where(req.Root, req.Columns, t.opts)
	if err != nil {
		return Result{}, err
	}
	query, err := s3select.Query(req.Columns, req.Projection, where, t.opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Pushed: ok, Filter: where, Query: query}, nil
}

// ParquetTarget returns a target producing search arguments for row group
// skipping.
func ParquetTarget(opts parquet.Options) Target { return parquetTarget{opts} }

type parquetTarget struct{ opts parquet.Options }

func (parquetTarget) Name() string { return "parquet" }

func (t parquetTarget) Compile(req Request) (Result, error) {
	if req.Root == nil {
		return Result{}, nil
	}
	rf, ok, err := parquet.New(req.Root, req.Columns, t.opts)
	if err != nil || !ok {
		return Result{}, err
	}
	s := rf.SearchArgument()
	encoded, err := s.Encode()
	if err != nil {
		return Result{}, err
	}
	return Result{Pushed: true, Filter: s.String(), SearchArgument: encoded}, nil
}

// MongoTarget returns a target producing MongoDB filter documents as
// extended JSON.
func MongoTarget() Target { return mongoTarget{} }

type mongoTarget struct{}

func (mongoTarget) Name() string { return "mongo" }

func (mongoTarget) Compile(req Request) (Result, error) {
	doc, ok, err := mongo.Filter(req.Root, req.Columns)
	if err != nil {
		return Result{}, err
	}
	s, err := mongo.ExtJSON(doc)
	if err != nil {
		return Result{}, err
	}
	return Result{Pushed: ok, Filter: s}, nil
}

package pushdown

import (
	"fmt"

	"github.com/hugr-lab/pushdown-go/connector/hive"
	"github.com/hugr-lab/pushdown-go/connector/jdbc"
	"github.com/hugr-lab/pushdown-go/connector/parquet"
	"github.com/hugr-lab/pushdown-go/connector/s3select"
)

// PipelineBuilder builds pipelines using fluent API.
// Not thread-safe - use only during initialization.
type PipelineBuilder struct {
	config  Config
	targets []Target
	built   bool
}

// NewPipelineBuilder creates a builder without targets.
//
// Example:
//
//	p, err := pushdown.NewPipelineBuilder(pushdown.Config{Catalog: cat}).
//	    JDBC(jdbc.Postgres, jdbc.MySQL).
//	    Hive(hive.Options{IntegralPushdown: true}).
//	    Parquet(parquet.Options{}).
//	    Build()
func NewPipelineBuilder(config Config) *PipelineBuilder {
	return &PipelineBuilder{config: config}
}

// Target adds a custom target.
// Returns self for method chaining.
// Target name MUST be unique within the pipeline.
func (b *PipelineBuilder) Target(t Target) *PipelineBuilder {
	b.targets = append(b.targets, t)
	return b
}

// JDBC adds a target per SQL dialect, named after the dialect.
func (b *PipelineBuilder) JDBC(dialects ...jdbc.Dialect) *PipelineBuilder {
	for _, d := range dialects {
		b.Target(JDBCTarget(d))
	}
	return b
}

// Hive adds the "hive" partition filter target.
func (b *PipelineBuilder) Hive(opts hive.Options) *PipelineBuilder {
	return b.Target(HiveTarget(opts))
}

// S3Select adds the "s3select" target.
func (b *PipelineBuilder) S3Select(opts s3select.Options) *PipelineBuilder {
	return b.Target(S3SelectTarget(opts))
}

// Parquet adds the "parquet" search argument target.
func (b *PipelineBuilder) Parquet(opts parquet.Options) *PipelineBuilder {
	if opts.Logger == nil {
		opts.Logger = b.config.logger()
	}
	return b.Target(ParquetTarget(opts))
}

// Mongo adds the "mongo" filter document target.
func (b *PipelineBuilder) Mongo() *PipelineBuilder {
	return b.Target(MongoTarget())
}

// Defaults adds every built-in target with default options.
func (b *PipelineBuilder) Defaults() *PipelineBuilder {
	for _, name := range jdbc.Dialects() {
		d, _ := jdbc.DialectByName(name)
		b.JDBC(d)
	}
	return b.Hive(hive.Options{}).
		S3Select(s3select.Options{}).
		Parquet(parquet.Options{}).
		Mongo()
}

// Build validates the targets and returns the pipeline.
// Can only be called once.
func (b *PipelineBuilder) Build() (*Pipeline, error) {
	if b.built {
		return nil, fmt.Errorf("%w: pipeline already built", ErrInvalidConfig)
	}
	if len(b.targets) == 0 {
		return nil, fmt.Errorf("%w: no targets", ErrInvalidConfig)
	}

	targets := make(map[string]Target, len(b.targets))
	names := make([]string, 0, len(b.targets))
	for _, t := range b.targets {
		if t == nil {
			return nil, fmt.Errorf("%w: nil target", ErrInvalidConfig)
		}
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: target name cannot be empty", ErrInvalidConfig)
		}
		if _, dup := targets[name]; dup {
			return nil, fmt.Errorf("%w: duplicate target name: %s", ErrInvalidConfig, name)
		}
		targets[name] = t
		names = append(names, name)
	}
	b.built = true

	return &Pipeline{
		catalog: b.config.Catalog,
		targets: targets,
		names:   names,
		logger:  b.config.logger(),
	}, nil
}

package pushdown

import (
	"context"
	"errors"
	"testing"

	"github.com/hugr-lab/pushdown-go/connector/jdbc"
	"github.com/hugr-lab/pushdown-go/filter"
)

// TestPipelineBuilderDefaults tests registration of the built-in targets.
func TestPipelineBuilderDefaults(t *testing.T) {
	p, err := NewPipelineBuilder(Config{}).Defaults().Build()
	if err != nil {
		t.Fatalf("Expected successful build, got error: %v", err)
	}

	want := []string{"postgres", "mysql", "oracle", "mssql", "duckdb", "generic", "hive", "s3select", "parquet", "mongo"}
	got := p.Backends()
	if len(got) != len(want) {
		t.Fatalf("Expected %d backends, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("backend %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// TestPipelineBuilderErrors tests builder validation.
func TestPipelineBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *PipelineBuilder
	}{
		{"no targets", NewPipelineBuilder(Config{})},
		{"duplicate name", NewPipelineBuilder(Config{}).JDBC(jdbc.Postgres, jdbc.Postgres)},
		{"empty name", NewPipelineBuilder(Config{}).JDBC(jdbc.Dialect{})},
		{"nil target", NewPipelineBuilder(Config{}).Target(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

// TestPipelineBuilderBuildOnce tests that Build can only be called once.
func TestPipelineBuilderBuildOnce(t *testing.T) {
	b := NewPipelineBuilder(Config{}).Mongo()
	if _, err := b.Build(); err != nil {
		t.Fatalf("First build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("Expected error on second build")
	}
}

// TestPipelineBuilderMongo tests a pipeline holding only the mongo target.
func TestPipelineBuilderMongo(t *testing.T) {
	p, err := NewPipelineBuilder(Config{}).Mongo().Build()
	if err != nil {
		t.Fatalf("Expected successful build, got error: %v", err)
	}

	columns := filter.Columns{{Name: "x", Type: filter.TypeInteger}}
	res, err := p.Compile(context.Background(), "mongo", "a0c23s1d1o5", columns)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !res.Pushed {
		t.Fatal("Expected filter to be pushed")
	}
	if want := `{"x":{"$eq":1}}`; res.Filter != want {
		t.Errorf("Expected %s, got %s", want, res.Filter)
	}
}

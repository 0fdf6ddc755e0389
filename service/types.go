package service

import (
	pushdown "github.com/hugr-lab/pushdown-go"
	"github.com/hugr-lab/pushdown-go/filter"
)

// CompileRequest asks the service to compile a wire filter for one backend.
// Either Table names a catalog table or Columns lists the columns the
// filter's indexes refer to.
type CompileRequest struct {
	Filter     string         `msgpack:"filter"`
	Backend    string         `msgpack:"backend"`
	Table      string         `msgpack:"table,omitempty"`
	Columns    filter.Columns `msgpack:"columns,omitempty"`
	Projection []string       `msgpack:"projection,omitempty"`
}

// TableName implements auth.TableRequest.
func (r *CompileRequest) TableName() string { return r.Table }

// CompileResponse carries the compiled filter.
type CompileResponse struct {
	Result pushdown.Result `msgpack:"result"`

	// Cached reports whether the result came from the compile cache.
	Cached bool `msgpack:"cached"`
}

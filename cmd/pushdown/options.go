package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	pushdown "github.com/hugr-lab/pushdown-go"
	"github.com/hugr-lab/pushdown-go/catalog"
	"github.com/hugr-lab/pushdown-go/connector/hive"
	"github.com/hugr-lab/pushdown-go/connector/jdbc"
	"github.com/hugr-lab/pushdown-go/connector/parquet"
	"github.com/hugr-lab/pushdown-go/connector/s3select"
	"github.com/hugr-lab/pushdown-go/filter"
)

// targetFlags holds the backend options shared by the commands that build
// a pipeline.
type targetFlags struct {
	hiveIntegral  bool
	s3Format      string
	s3Header      bool
	s3Delimiter   string
	s3Compression string
}

func (f *targetFlags) register(cmd *kingpin.CmdClause) {
	cmd.Flag("hive-integral", "Push predicates on integer partition keys to the metastore.").BoolVar(&f.hiveIntegral)
	cmd.Flag("s3-format", "S3 Select object format: csv, json or parquet.").Default("csv").EnumVar(&f.s3Format, "csv", "json", "parquet")
	cmd.Flag("s3-header", "The CSV object has a header line naming the columns.").BoolVar(&f.s3Header)
	cmd.Flag("s3-delimiter", "CSV field delimiter.").Default(",").StringVar(&f.s3Delimiter)
	cmd.Flag("s3-compression", "Object compression: NONE, GZIP or BZIP2.").Default("NONE").EnumVar(&f.s3Compression, "NONE", "GZIP", "BZIP2")
}

func (f *targetFlags) s3Options() (s3select.Options, error) {
	format, err := s3select.ParseFormat(f.s3Format)
	if err != nil {
		return s3select.Options{}, err
	}
	return s3select.Options{
		Format:         format,
		Header:         f.s3Header,
		FieldDelimiter: f.s3Delimiter,
		Compression:    f.s3Compression,
	}, nil
}

// pipeline builds a pipeline with every built-in target configured from
// the flags.
func (f *targetFlags) pipeline(cat catalog.Catalog) (*pushdown.Pipeline, error) {
	s3opts, err := f.s3Options()
	if err != nil {
		return nil, err
	}
	b := pushdown.NewPipelineBuilder(pushdown.Config{Catalog: cat})
	for _, name := range jdbc.Dialects() {
		d, _ := jdbc.DialectByName(name)
		b.JDBC(d)
	}
	return b.Hive(hive.Options{IntegralPushdown: f.hiveIntegral}).
		S3Select(s3opts).
		Parquet(parquet.Options{}).
		Mongo().
		Build()
}

// loadColumns reads a column file: a catalog table without a name.
//
//	columns:
//	  - {name: id, type: int8}
//	  - {name: day, type: date, partition: true}
func loadColumns(path string) (filter.Columns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	var t catalog.TableFile
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse columns %s: %w", path, err)
	}
	return t.FilterColumns()
}

package main

import (
	"context"
	"errors"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	pushdown "github.com/hugr-lab/pushdown-go"
	"github.com/hugr-lab/pushdown-go/catalog"
)

// renderCommand compiles a wire filter for one backend.
type renderCommand struct {
	targets    targetFlags
	backend    string
	columns    string
	catalog    string
	table      string
	projection []string
	wire       string
}

// output is the YAML form of a compile result.
type output struct {
	Backend        string `yaml:"backend"`
	Pushed         bool   `yaml:"pushed"`
	Debug          string `yaml:"debug,omitempty"`
	Filter         string `yaml:"filter,omitempty"`
	Query          string `yaml:"query,omitempty"`
	SearchArgument string `yaml:"sarg,omitempty"`
}

func (cmd *renderCommand) compile(ctx context.Context) (pushdown.Result, error) {
	switch {
	case cmd.columns != "" && cmd.catalog != "":
		return pushdown.Result{}, errors.New("--columns and --catalog are mutually exclusive")
	case cmd.catalog != "":
		if cmd.table == "" {
			return pushdown.Result{}, errors.New("--table is required with --catalog")
		}
		cat, err := catalog.LoadFile(cmd.catalog)
		if err != nil {
			return pushdown.Result{}, err
		}
		p, err := cmd.targets.pipeline(cat)
		if err != nil {
			return pushdown.Result{}, err
		}
		return p.CompileTable(ctx, cmd.backend, cmd.table, cmd.wire, cmd.projection...)
	case cmd.columns != "":
		columns, err := loadColumns(cmd.columns)
		if err != nil {
			return pushdown.Result{}, err
		}
		p, err := cmd.targets.pipeline(nil)
		if err != nil {
			return pushdown.Result{}, err
		}
		return p.Compile(ctx, cmd.backend, cmd.wire, columns)
	}
	return pushdown.Result{}, errors.New("one of --columns or --catalog is required")
}

func (cmd *renderCommand) run(*kingpin.ParseContext) error {
	res, err := cmd.compile(context.Background())
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(output{
		Backend:        res.Backend,
		Pushed:         res.Pushed,
		Debug:          res.Debug,
		Filter:         res.Filter,
		Query:          res.Query,
		SearchArgument: res.SearchArgument,
	})
}

func addRenderCommand(app *kingpin.Application) {
	cmd := &renderCommand{}
	c := app.Command("render", "Compile a wire filter for a backend.").Action(cmd.run)
	c.Flag("backend", "Target backend name.").Short('b').Default("generic").StringVar(&cmd.backend)
	c.Flag("columns", "YAML column file.").ExistingFileVar(&cmd.columns)
	c.Flag("catalog", "YAML catalog file.").ExistingFileVar(&cmd.catalog)
	c.Flag("table", "Catalog table name.").StringVar(&cmd.table)
	c.Flag("projection", "Columns selected by generated queries. Repeatable.").StringsVar(&cmd.projection)
	cmd.targets.register(c)
	c.Arg("filter", "The wire filter; empty for no filter.").StringVar(&cmd.wire)
}

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/hugr-lab/pushdown-go/filter"
)

// parseCommand prints the debug form of a wire filter.
type parseCommand struct {
	columns string
	wire    string
}

func (cmd *parseCommand) run(*kingpin.ParseContext) error {
	root, err := filter.Parse(cmd.wire)
	if err != nil {
		return err
	}
	var names []string
	if cmd.columns != "" {
		columns, err := loadColumns(cmd.columns)
		if err != nil {
			return err
		}
		names = columns.Names()
	}
	s, err := filter.Format(root, names...)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

func addParseCommand(app *kingpin.Application) {
	cmd := &parseCommand{}
	c := app.Command("parse", "Print a wire filter in readable form.").Action(cmd.run)
	c.Flag("columns", "YAML column file naming the column indexes.").ExistingFileVar(&cmd.columns)
	c.Arg("filter", "The wire filter.").Required().StringVar(&cmd.wire)
}

// Command pushdown compiles wire filters for pushdown backends and serves
// the compile service.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"
)

func main() {
	app := kingpin.New("pushdown", "A tool to parse, render and serve filter pushdown compilations.")
	logLevel := app.Flag("log-level", "Log level: debug, info, warn or error.").Default("info").Enum("debug", "info", "warn", "error")
	app.PreAction(func(*kingpin.ParseContext) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	})

	addParseCommand(app)
	addRenderCommand(app)
	addSelectCommand(app)
	addServeCommand(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func exitWithErr(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err.Error())
	os.Exit(1)
}

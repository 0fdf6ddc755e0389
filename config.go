package pushdown

import (
	"errors"
	"log/slog"
	"os"

	"github.com/hugr-lab/pushdown-go/catalog"
)

// Config contains configuration for a Pipeline.
type Config struct {
	// Catalog resolves table names to columns for CompileTable.
	// OPTIONAL: If nil, only Compile with explicit columns is available.
	Catalog catalog.Catalog

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level
}

// Standard errors returned by the pushdown package.
var (
	// ErrInvalidConfig indicates Config or builder validation failed.
	ErrInvalidConfig = errors.New("invalid pushdown config")

	// ErrUnknownBackend indicates no target is registered under a name.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrTableNotFound indicates a catalog lookup failed.
	ErrTableNotFound = errors.New("table not found")
)

// logger returns the configured logger, creating a text logger at LogLevel
// when only a level is given.
func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.LogLevel == nil {
		return slog.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: *c.LogLevel,
	}))
}

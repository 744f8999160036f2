package querykit

import (
	"database/sql"
	"errors"
	"log/slog"
)

// Config contains configuration for a query Source.
type Config struct {
	// DB is the database handle queries execute against.
	// REQUIRED: MUST NOT be nil.
	DB *sql.DB

	// Table maps entity member paths to SQL columns and relations.
	// REQUIRED: Build with NewTableBuilder.
	Table Table

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// Valid values: slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level
}

// Standard errors returned by querykit package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid source config")

	// ErrUnsupportedFilter indicates a composed predicate has no SQL form
	// under the configured table mapping.
	ErrUnsupportedFilter = errors.New("unsupported filter")

	// ErrUnknownRelation indicates a relation name that is not declared
	// on the source table.
	ErrUnknownRelation = errors.New("unknown relation")
)

// Package logging provides configurable zap logger creation for the
// qa-spec engine's stateful boundary (cmd/qaengine). The library packages
// (expr, validate, visibility, computed, runner, ...) do not log;
// they return values and let the caller decide what to record.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Style selects the logger's output encoding.
type Style string

const (
	StyleTerminal Style = "terminal"
	StyleJSON     Style = "json"
	StyleLogfmt   Style = "logfmt"
	StyleNoop     Style = "noop"
)

// Config configures logger construction.
type Config struct {
	Style Style
	Level string
}

// New creates a zap logger based on Config. A nil or zero-value config
// defaults to terminal style at info level.
func New(c *Config) (*zap.Logger, error) {
	style := StyleTerminal
	level := zapcore.InfoLevel

	if c != nil {
		if c.Style != "" {
			style = c.Style
		}
		if c.Level != "" {
			lvl, err := zapcore.ParseLevel(c.Level)
			if err == nil {
				level = lvl
			}
		}
	}

	switch style {
	case StyleNoop:
		return zap.NewNop(), nil

	case StyleJSON:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		return cfg.Build(zap.AddCaller())

	case StyleTerminal:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		return cfg.Build(zap.AddCaller())

	case StyleLogfmt:
		encoderConfig := zapcore.EncoderConfig{
			TimeKey:    "ts",
			LevelKey:   "lvl",
			NameKey:    "logger",
			CallerKey:  "caller",
			MessageKey: "msg",
			LineEnding: zapcore.DefaultLineEnding,
		}
		core := zapcore.NewCore(
			NewLogfmtEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			level,
		)
		return zap.New(core, zap.AddCaller()), nil

	default:
		return nil, fmt.Errorf("invalid logging style %q: must be one of terminal, json, logfmt, noop", style)
	}
}

// MustNew is New but panics on error; suitable for CLI init where a bad
// logging style should fail fast.
func MustNew(c *Config) *zap.Logger {
	logger, err := New(c)
	if err != nil {
		panic(err)
	}
	return logger
}

// Package observability holds the process-wide CLI logger.
package observability

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the logger used by commands. It writes to stderr so stdout
// stays reserved for command output.
var CLILogger = zap.NewNop()

// cliLevel backs CLILogger's level so it can change after init.
var cliLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// InitCLILogger replaces CLILogger with a console logger on stderr.
// verbose enables debug output with timestamps and callers.
func InitCLILogger(name string, verbose bool) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cliLevel.SetLevel(level)
	CLILogger = NewCLILogger(zapcore.Lock(os.Stderr), name, cliLevel, verbose)
}

// NewCLILogger builds a console logger writing to w.
func NewCLILogger(w zapcore.WriteSyncer, name string, level zapcore.LevelEnabler, verbose bool) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	opts := []zap.Option{}
	if verbose {
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.CallerKey = "caller"
		encCfg.EncodeCaller = zapcore.ShortCallerEncoder
		encCfg.EncodeName = zapcore.FullNameEncoder
		opts = append(opts, zap.AddCaller())
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), w, level)
	logger := zap.New(core, opts...)
	if verbose && name != "" {
		logger = logger.Named(name)
	}
	return logger
}

// SetLevel changes the CLILogger level. Accepts debug, info, warn, error.
func SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	cliLevel.SetLevel(lvl)
	return nil
}

// Level returns the current CLILogger level.
func Level() zapcore.Level {
	return cliLevel.Level()
}

// ParseLevel converts a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

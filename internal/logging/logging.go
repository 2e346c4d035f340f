// Package logging builds the zap logger used by the formsubmit binaries.
//
// Library packages never construct loggers; they accept a *zap.Logger
// through options and default to zap.NewNop. Binaries call New once at
// startup and pass the result down.
package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options describe where log lines go.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// Format is json or console. Empty means console.
	Format string
	// File enables a rotated JSON log file in addition to the console core.
	File string
	// MaxSizeMB, MaxBackups and MaxAgeDays tune rotation of File.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Output replaces stderr for the console core. Used by tests.
	Output io.Writer
}

// ErrUnknownFormat is returned for unsupported Format values.
var ErrUnknownFormat = errors.New("logging: unknown format")

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
}

// New returns a logger writing to stderr, teed into a rotated file when
// opts.File is set. The returned close func flushes and releases the file.
func New(opts Options) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level))
	if opts.Level == "" {
		level, err = zapcore.InfoLevel, nil
	}
	if err != nil {
		return nil, nil, err
	}

	encCfg := encoderConfig()
	var consoleEncoder zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		consoleEncoder = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		consoleEncoder = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, nil, ErrUnknownFormat
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(out), level),
	}

	var sink *lumberjack.Logger
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		sink = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 7),
			MaxAge:     orDefault(opts.MaxAgeDays, 14),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(sink), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	closeFn := func() error {
		_ = logger.Sync()
		if sink != nil {
			return sink.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}

func orDefault(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

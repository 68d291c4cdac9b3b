// Package logger provides opinionated logging capabilities for the clausehound system
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger writing to stdout.
// Debug enables the debug level, otherwise info and above is emitted.
func NewLogger(debug bool) *zap.Logger {
	return NewLoggerWithWriters(debug, os.Stdout)
}

// NewLoggerWithWriters builds a console logger fanning out to the given
// writers. Tests inject a bytes.Buffer here to assert on log output.
func NewLoggerWithWriters(debug bool, writers ...io.Writer) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return newLogger(debug, zapcore.NewConsoleEncoder(cfg), writers...)
}

// NewJSONLogger builds a JSON-encoded logger for machine-consumed runs
// (e.g. evaluation batches whose logs are archived next to the metrics CSV).
func NewJSONLogger(debug bool, writers ...io.Writer) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return newLogger(debug, zapcore.NewJSONEncoder(cfg), writers...)
}

func newLogger(debug bool, enc zapcore.Encoder, writers ...io.Writer) *zap.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}

	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	core := zapcore.NewCore(
		enc,
		zapcore.NewMultiWriteSyncer(syncers...),
		level,
	)

	return zap.New(core, zap.AddCaller())
}

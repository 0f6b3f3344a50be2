// Package logger builds the zap logger shared by the host and the race program.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is attached to every entry so host and program logs can be told
// apart from other services writing to the same sink.
const Service = "raceprogram"

// New builds a JSON zap logger.
// Debug mode keeps JSON output but lowers the level to debug and adds callers.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.InitialFields = map[string]any{"service": Service}
	cfg.DisableCaller = !debug
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

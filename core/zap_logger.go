package core

import (
	"go.uber.org/zap"
)

// ZapLogger adapts a zap.Logger to the Logger interface.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger wraps the given zap logger. A nil logger falls back to
// zap.NewNop, so the adapter is always safe to call.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// NewDevelopmentZapLogger builds a ZapLogger over zap's development config
// (human-readable output, debug level enabled).
func NewDevelopmentZapLogger() (*ZapLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger), nil
}

func (l *ZapLogger) Debug(msg string, fields ...Field) {
	l.logger.Debugw(msg, flatten(fields)...)
}

func (l *ZapLogger) Info(msg string, fields ...Field) {
	l.logger.Infow(msg, flatten(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields ...Field) {
	l.logger.Warnw(msg, flatten(fields)...)
}

func (l *ZapLogger) Error(msg string, fields ...Field) {
	l.logger.Errorw(msg, flatten(fields)...)
}

func flatten(fields []Field) []any {
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// ZapLogger routes watermill logs to a zap logger.
type ZapLogger struct {
	log *zap.SugaredLogger
}

func NewZapLogger(log *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{log: log}
}

func keysAndValues(fields watermill.LogFields) []any {
	kv := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv
}

func (l *ZapLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Errorw(msg, append(keysAndValues(fields), "err", err)...)
}

func (l *ZapLogger) Info(msg string, fields watermill.LogFields) {
	l.log.Infow(msg, keysAndValues(fields)...)
}

func (l *ZapLogger) Debug(msg string, fields watermill.LogFields) {
	l.log.Debugw(msg, keysAndValues(fields)...)
}

// Trace is logged at debug level.
func (l *ZapLogger) Trace(msg string, fields watermill.LogFields) {
	l.log.Debugw(msg, keysAndValues(fields)...)
}

func (l *ZapLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &ZapLogger{log: l.log.With(keysAndValues(fields)...)}
}

package logger

import (
	"wrmb_dapp/internal/app/port"

	"go.uber.org/zap"
)

type zapAdapter struct {
	s *zap.SugaredLogger
}

// NewZapAdapter exposes z as a port.Logger taking alternating key/value pairs.
func NewZapAdapter(z *zap.Logger) port.Logger {
	return zapAdapter{s: z.Sugar()}
}

func (a zapAdapter) Debug(msg string, kv ...any) { a.s.Debugw(msg, kv...) }
func (a zapAdapter) Info(msg string, kv ...any)  { a.s.Infow(msg, kv...) }
func (a zapAdapter) Warn(msg string, kv ...any)  { a.s.Warnw(msg, kv...) }
func (a zapAdapter) Error(msg string, kv ...any) { a.s.Errorw(msg, kv...) }

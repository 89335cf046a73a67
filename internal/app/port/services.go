package port

import (
	"context"
	"time"

	"wrmb_dapp/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Logger is the key/value logger used by the infrastructure packages that
// predate zap wiring.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// PriceSource quotes a token in USD.
type PriceSource interface {
	PriceUSD(ctx context.Context, token entity.TokenInfo) (decimal.Decimal, error)
}

// Preferences persists the UI scalars.
type Preferences interface {
	Load() (entity.Preferences, error)
	SetTheme(theme string) error
	SetLocale(locale string) error
	SetWasConnected(connected bool) error
}

// Notifier receives user-visible messages.
type Notifier interface {
	Add(kind entity.NotificationKind, title, message string, duration time.Duration) string
	// Notify classifies err and posts exactly one error notification for it.
	Notify(err error) string
}

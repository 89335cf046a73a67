// Package notify keeps the bounded list of user-visible notifications.
package notify

import (
	"sync"
	"time"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"
	"wrmb_dapp/internal/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxEntries bounds the list when no limit is configured.
const DefaultMaxEntries = 50

// Center implements port.Notifier. Entries expire after their duration; a zero
// duration keeps an entry until it is removed.
type Center struct {
	mu      sync.Mutex
	entries []entity.Notification
	timers  map[string]*time.Timer
	max     int
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCenter creates a center holding at most maxEntries notifications.
func NewCenter(maxEntries int, m *metrics.Metrics, logger *zap.Logger) *Center {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Center{
		timers:  make(map[string]*time.Timer),
		max:     maxEntries,
		now:     time.Now,
		metrics: m,
		logger:  logger.Named("Notifications"),
	}
}

// Add posts a notification and returns its id.
func (c *Center) Add(kind entity.NotificationKind, title, message string, duration time.Duration) string {
	return c.add(entity.Notification{Kind: kind, Title: title, Message: message, Duration: duration})
}

// AddTx posts a notification linked to a transaction hash.
func (c *Center) AddTx(kind entity.NotificationKind, title, message, txHash string, duration time.Duration) string {
	return c.add(entity.Notification{Kind: kind, Title: title, Message: message, Duration: duration, TxHash: txHash})
}

// Notify classifies err and posts a single error notification for it.
func (c *Center) Notify(err error) string {
	if err == nil {
		return ""
	}
	n := apperr.NoticeFor(err)
	return c.Add(entity.NotificationError, n.Title, n.Message, n.Duration)
}

func (c *Center) add(n entity.Notification) string {
	n.ID = uuid.NewString()
	n.CreatedAt = c.now()

	c.mu.Lock()
	c.entries = append(c.entries, n)
	for len(c.entries) > c.max {
		c.dropLocked(c.entries[0].ID)
	}
	if n.Duration > 0 {
		id := n.ID
		c.timers[id] = time.AfterFunc(n.Duration, func() { c.Remove(id) })
	}
	c.mu.Unlock()

	c.metrics.Notified(string(n.Kind))
	c.logger.Debug("Notification added", zap.String("id", n.ID), zap.String("type", string(n.Kind)), zap.String("title", n.Title))
	return n.ID
}

// Remove deletes the notification with id. Unknown ids are ignored.
func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropLocked(id)
}

func (c *Center) dropLocked(id string) bool {
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.entries {
		if n.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the notifications oldest first.
func (c *Center) List() []entity.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Notification(nil), c.entries...)
}

// Clear removes every notification.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.entries = nil
}

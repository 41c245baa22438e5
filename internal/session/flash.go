package session

import (
	"context"
	"log/slog"
	"sync"
)

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notification is one transient message shown to the user.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Flash queues notifications until the next response drains them.
// It satisfies bloodbank.Notifier.
type Flash struct {
	mu     sync.Mutex
	queue  []Notification
	logger *slog.Logger
}

func NewFlash(logger *slog.Logger) *Flash {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Flash{logger: logger}
}

func (f *Flash) Success(ctx context.Context, msg string) { f.push(ctx, LevelSuccess, msg) }
func (f *Flash) Error(ctx context.Context, msg string)   { f.push(ctx, LevelError, msg) }
func (f *Flash) Info(ctx context.Context, msg string)    { f.push(ctx, LevelInfo, msg) }

func (f *Flash) push(ctx context.Context, level, msg string) {
	f.mu.Lock()
	f.queue = append(f.queue, Notification{Level: level, Message: msg})
	f.mu.Unlock()
	f.logger.DebugContext(ctx, "notification queued", "level", level, "message", msg)
}

// Drain returns queued notifications in order and empties the queue.
func (f *Flash) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queue
	f.queue = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

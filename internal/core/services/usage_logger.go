package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
)

// UsageLogger persists provider usage events off the caller's path: Record
// enqueues and returns immediately, a single consumer goroutine writes rows.
// A full buffer or a failed insert drops the event. Usage logging is a
// diagnostic breadcrumb, never a dependency of rate resolution.
type UsageLogger struct {
	repo   portsrepo.UsageRepositoryFacade
	events chan domain.UsageEvent
	done   chan struct{}
	logger *slog.Logger
}

// NewUsageLogger creates the logger and starts its consumer.
func NewUsageLogger(repo portsrepo.UsageRepositoryFacade, logger *slog.Logger) *UsageLogger {
	if logger == nil {
		logger = slog.Default()
	}
	l := &UsageLogger{
		repo:   repo,
		events: make(chan domain.UsageEvent, 256),
		done:   make(chan struct{}),
		logger: logger,
	}
	go l.run()
	return l
}

// Record enqueues one event without blocking.
func (l *UsageLogger) Record(_ context.Context, ev domain.UsageEvent) {
	if ev.UsageID == "" {
		ev.UsageID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	select {
	case l.events <- ev:
	default:
		l.logger.Debug("usage event dropped, buffer full",
			slog.String("provider", string(ev.Provider)))
	}
}

func (l *UsageLogger) run() {
	defer close(l.done)
	for ev := range l.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.repo.InsertUsage(ctx, ev); err != nil {
			l.logger.Debug("failed to persist usage event",
				slog.String("provider", string(ev.Provider)),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}

// Close stops intake and drains the queue.
func (l *UsageLogger) Close() {
	close(l.events)
	<-l.done
}

package domain

import (
	"context"
	"log/slog"
	"time"

	"github.com/pendergraft/framemint/internal/failure"
)

// LoggingMiddleware returns a service middleware that logs all operations.
func LoggingMiddleware(logger *slog.Logger) func(Service) Service {
	return func(next Service) Service {
		return &loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   Service
	logger *slog.Logger
}

func (m *loggingMiddleware) Reload(ctx context.Context) Result {
	start := time.Now()
	res := m.next.Reload(ctx)
	m.logger.Debug("Reload",
		"view", res.View.Name,
		"duration", time.Since(start),
	)
	return res
}

func (m *loggingMiddleware) Refresh(ctx context.Context, actionID string) Result {
	start := time.Now()
	res := m.next.Refresh(ctx, actionID)
	m.log(ctx, "Refresh", res,
		"actionId", actionID,
		"view", res.View.Name,
		"duration", time.Since(start),
	)
	return res
}

func (m *loggingMiddleware) Submit(ctx context.Context, p Packet) Result {
	start := time.Now()
	res := m.next.Submit(ctx, p)
	m.log(ctx, "Submit", res,
		"fid", p.FID,
		"button", p.ButtonIndex,
		"view", res.View.Name,
		"duration", time.Since(start),
	)
	return res
}

// log writes input failures at warn level and every other failure at
// error level.
func (m *loggingMiddleware) log(ctx context.Context, msg string, res Result, args ...any) {
	if res.Err == nil {
		m.logger.InfoContext(ctx, msg, args...)
		return
	}
	args = append(args, "kind", failure.KindOf(res.Err).String(), "error", res.Err)
	if failure.KindOf(res.Err) == failure.Input {
		m.logger.WarnContext(ctx, msg, args...)
		return
	}
	m.logger.ErrorContext(ctx, msg, args...)
}

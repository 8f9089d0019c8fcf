package services

import (
  "context"

  "github.com/peakform/peakform-backend/internal/clients/redis"
  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/sse"
)

type SSEEmitter interface {
  Emit(ctx context.Context, msg sse.SSEMessage)
}

type HubEmitter struct{ Hub *sse.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
  e.Hub.Broadcast(msg)
}

type RedisEmitter struct {
  Bus redis.SSEBus
  Log *logger.Logger
}

// Emit is best-effort: a failed publish loses the event for other
// replicas but must not fail the operation that produced it.
func (e *RedisEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
  if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
    e.Log.Warn("SSE publish failed", "error", err, "event", msg.Event, "channel", msg.Channel)
  }
}

// NoopEmitter keeps services wired when realtime is disabled.
type NoopEmitter struct{}

func (NoopEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {}

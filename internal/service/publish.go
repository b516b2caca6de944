package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/events"
)

// publish emits an auth event. A failed publish never fails the operation
// that produced it.
func publish(ctx context.Context, d events.Dispatcher, logger *zap.Logger, event events.Event) {
	if d == nil {
		return
	}
	if err := d.Publish(ctx, event); err != nil {
		logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
	}
}

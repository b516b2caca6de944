package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/school-auth-service/internal/events"
)

// StartAuditWorker subscribes audit logging to every auth event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	audit := logger.Named("audit")

	handler := func(_ context.Context, event events.Event) error {
		audit.Info(string(event.Type),
			zap.String("event_id", event.ID),
			zap.String("user_id", event.UserID),
			zap.String("school_id", event.SchoolID),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, t := range []events.EventType{
		events.EventLongTokenIssued,
		events.EventShortTokenIssued,
		events.EventTokenRejected,
	} {
		dispatcher.Subscribe(t, handler)
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/events"
)

// AuditService writes an audit trail of domain events to the log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to every published event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
	if event.Actor.ID != "" {
		fields = append(fields, zap.String("actor_id", event.Actor.ID), zap.String("actor_role", string(event.Actor.Role)))
	}

	switch event.Type {
	case events.EventUserBanned, events.EventUserDeleted:
		a.logger.Warn(string(event.Type), fields...)
	default:
		a.logger.Info(string(event.Type), fields...)
	}
	return nil
}

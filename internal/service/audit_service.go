package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/admission-service/internal/events"
	"github.com/spec-kit/admission-service/internal/observability"
)

// AuditService records ticket lifecycle transitions from the event stream.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// RegisterHandlers subscribes to lifecycle events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketIssued, a.handleIssued)
	a.dispatcher.Subscribe(events.EventTicketRedeemed, a.handleRedeemed)
	a.dispatcher.Subscribe(events.EventTicketDeleted, a.handleDeleted)
}

func (a *AuditService) handleIssued(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketIssued", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleRedeemed(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketRedeemed", zap.String("ticket_id", event.TicketID))
	a.metrics.RecordRedemption("success")
	return nil
}

func (a *AuditService) handleDeleted(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketDeleted", zap.String("ticket_id", event.TicketID))
	return nil
}

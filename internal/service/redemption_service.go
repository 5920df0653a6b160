package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/admission-service/internal/domain"
	"github.com/spec-kit/admission-service/internal/events"
	"github.com/spec-kit/admission-service/internal/repository"
	apperrors "github.com/spec-kit/admission-service/pkg/util"
)

// RedemptionService enforces the at-most-once redemption guarantee. It
// adds no state of its own: correctness rests entirely on the store's
// TryRedeem atomicity.
type RedemptionService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewRedemptionService constructs the service around an explicitly owned
// ticket store handle.
func NewRedemptionService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *RedemptionService {
	return &RedemptionService{tickets: tickets, dispatcher: dispatcher}
}

// ValidationResult describes the advisory outcome of Validate.
type ValidationResult struct {
	Valid           bool
	AlreadyRedeemed bool
	Ticket          *domain.Ticket
}

// Validate is a pure read: it never mutates state and never reserves the
// ticket. A Valid result may be stale by the time the operator confirms;
// Redeem settles the race.
func (s *RedemptionService) Validate(ctx context.Context, id string) (*ValidationResult, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ValidationResult{}, nil
		}
		return nil, apperrors.NewStorageFailure(err)
	}
	if !ticket.Redeemable() {
		return &ValidationResult{AlreadyRedeemed: true, Ticket: ticket}, nil
	}
	return &ValidationResult{Valid: true, Ticket: ticket}, nil
}

// Redeem attempts the one-way Valid -> Redeemed transition. Exactly one of
// any number of concurrent callers for the same id succeeds. Failed
// attempts are never retried here; AlreadyRedeemed is a final answer.
func (s *RedemptionService) Redeem(ctx context.Context, id string) (*domain.Ticket, error) {
	outcome, err := s.tickets.TryRedeem(ctx, id)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}

	switch outcome {
	case domain.RedemptionRedeemed:
		s.publish(ctx, events.Event{
			Type:     events.EventTicketRedeemed,
			TicketID: id,
			Payload:  events.TicketRedeemedPayload{Outcome: outcome},
		})
		ticket, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			// Redemption already won; a racing delete only costs us the
			// confirmation details.
			return &domain.Ticket{ID: id, Status: domain.TicketStatusRedeemed}, nil
		}
		return ticket, nil
	case domain.RedemptionAlreadyRedeemed:
		return nil, apperrors.NewAlreadyRedeemed("ticket already redeemed")
	default:
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
}

func (s *RedemptionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

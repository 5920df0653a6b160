package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admission-service/internal/domain"
	"github.com/spec-kit/admission-service/internal/events"
	"github.com/spec-kit/admission-service/internal/identifier"
	"github.com/spec-kit/admission-service/internal/persistence"
	"github.com/spec-kit/admission-service/internal/qr"
	"github.com/spec-kit/admission-service/internal/repository"
	apperrors "github.com/spec-kit/admission-service/pkg/util"
)

const qrCacheKeyPrefix = "qr:png:"

// TicketService coordinates issuance, listing and deletion of tickets.
type TicketService struct {
	tickets    repository.TicketRepository
	codec      *qr.Codec
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Codec      *qr.Codec
	Cache      *persistence.Redis
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes the issuance payload.
type TicketCreateInput struct {
	BuyerName  string
	BuyerEmail *string
	EventName  string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		codec:      deps.Codec,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create issues a new ticket with a fresh identifier and Valid status.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	buyerName := strings.TrimSpace(input.BuyerName)
	eventName := strings.TrimSpace(input.EventName)
	if buyerName == "" || eventName == "" {
		return nil, apperrors.NewValidationError("buyer_name and event_name are required", nil)
	}

	ticket := &domain.Ticket{
		ID:         identifier.New(),
		BuyerName:  buyerName,
		BuyerEmail: input.BuyerEmail,
		EventName:  eventName,
		Status:     domain.TicketStatusValid,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketIssued,
		TicketID: ticket.ID,
		Payload: events.TicketIssuedPayload{
			BuyerName: ticket.BuyerName,
			EventName: ticket.EventName,
		},
	})
	return ticket, nil
}

// Get returns a single ticket.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, apperrors.NewStorageFailure(err)
	}
	return ticket, nil
}

// List returns all tickets, newest first. Each call re-reads current state.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return tickets, nil
}

// Delete removes a ticket and evicts its cached QR raster.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return apperrors.NewStorageFailure(err)
	}
	s.evictQR(ctx, id)
	s.publish(ctx, events.Event{Type: events.EventTicketDeleted, TicketID: id})
	return nil
}

// QRDataURL renders the ticket's QR payload as a PNG data URL. The payload
// is a pure function of the id, so no store lookup is needed.
func (s *TicketService) QRDataURL(id string) (string, error) {
	return s.codec.EncodeDataURL(id)
}

// QRImage returns the ticket's QR raster as PNG bytes, caching renders in
// Redis. The cache can never go stale because the raster depends only on
// the immutable id; deletion evicts it anyway.
func (s *TicketService) QRImage(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if s.cache != nil && s.cache.Client != nil {
		cached, err := s.cache.Client.Get(ctx, qrCacheKeyPrefix+id).Bytes()
		if err == nil {
			return cached, nil
		}
	}

	png, err := s.codec.EncodePNG(id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.cache != nil && s.cache.Client != nil {
		if err := s.cache.Client.Set(ctx, qrCacheKeyPrefix+id, png, 24*time.Hour).Err(); err != nil {
			s.logger.Warn("qr cache write failed", zap.String("ticket_id", id), zap.Error(err))
		}
	}
	return png, nil
}

func (s *TicketService) evictQR(ctx context.Context, id string) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, qrCacheKeyPrefix+id).Err(); err != nil {
		s.logger.Warn("qr cache evict failed", zap.String("ticket_id", id), zap.Error(err))
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

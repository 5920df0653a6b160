package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/admission-service/internal/domain"
)

// memoryTicketRepository is a process-local TicketRepository used when no
// POSTGRES_DSN is configured, and by tests. Its mutex plays the role the
// database row lock plays in the postgres implementation: TryRedeem's
// check-and-set happens entirely under it.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	seq     map[string]int64
	next    int64
}

// NewMemoryTicketRepository creates an empty in-memory store.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{
		tickets: make(map[string]*domain.Ticket),
		seq:     make(map[string]int64),
	}
}

func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.CreatedAt = time.Now().UTC()
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	r.next++
	r.seq[ticket.ID] = r.next
	return nil
}

func (r *memoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *memoryTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, *ticket)
	}
	// Newest first; insertion order breaks created_at ties.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return r.seq[result[i].ID] > r.seq[result[j].ID]
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryTicketRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	delete(r.seq, id)
	return nil
}

func (r *memoryTicketRepository) TryRedeem(ctx context.Context, id string) (domain.RedemptionOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return domain.RedemptionNotFound, nil
	}
	if ticket.Status != domain.TicketStatusValid {
		return domain.RedemptionAlreadyRedeemed, nil
	}
	ticket.Status = domain.TicketStatusRedeemed
	return domain.RedemptionRedeemed, nil
}

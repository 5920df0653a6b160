package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/admission-service/internal/domain"
)

// ErrNotFound is returned when no ticket exists for the given id.
var ErrNotFound = errors.New("ticket not found")

// TicketRepository encapsulates ticket persistence. Every method is atomic
// with respect to concurrent callers on the same id; TryRedeem in
// particular performs its read-check-write as a single storage-level
// operation.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	TryRedeem(ctx context.Context, id string) (domain.RedemptionOutcome, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, buyer_name, buyer_email, event_name, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.BuyerName,
		ticket.BuyerEmail,
		ticket.EventName,
		ticket.Status,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, buyer_name, buyer_email, event_name, status, created_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.BuyerName,
		&ticket.BuyerEmail,
		&ticket.EventName,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, buyer_name, buyer_email, event_name, status, created_at
        FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.BuyerName,
			&ticket.BuyerEmail,
			&ticket.EventName,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TryRedeem flips status Valid -> Redeemed in a single conditional UPDATE.
// Racing callers are linearized by the engine's row lock: exactly one
// statement matches the row, every other one affects zero rows.
func (r *ticketRepository) TryRedeem(ctx context.Context, id string) (domain.RedemptionOutcome, error) {
	const query = `UPDATE tickets SET status=$1 WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, domain.TicketStatusRedeemed, id, domain.TicketStatusValid)
	if err != nil {
		return "", err
	}
	if cmd.RowsAffected() == 1 {
		return domain.RedemptionRedeemed, nil
	}

	// Zero rows means unknown id or already redeemed. The follow-up read is
	// advisory only; the at-most-once guarantee was settled above.
	if _, err := r.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.RedemptionNotFound, nil
		}
		return "", err
	}
	return domain.RedemptionAlreadyRedeemed, nil
}

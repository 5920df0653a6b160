package dto

import (
	"time"

	"github.com/spec-kit/admission-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	BuyerName  string  `json:"buyer_name"`
	BuyerEmail *string `json:"buyer_email,omitempty"`
	EventName  string  `json:"event_name"`
}

// TicketResponse is the full ticket record including the derived QR
// payload as a PNG data URL.
type TicketResponse struct {
	ID         string              `json:"id"`
	BuyerName  string              `json:"buyer_name"`
	BuyerEmail *string             `json:"buyer_email,omitempty"`
	EventName  string              `json:"event_name"`
	Status     domain.TicketStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	QRCode     string              `json:"qr_code"`
}

// ValidateTicketRequest payload.
type ValidateTicketRequest struct {
	TicketID string `json:"ticket_id"`
}

// ValidateTicketResponse is advisory: a valid answer does not reserve the
// ticket.
type ValidateTicketResponse struct {
	Valid           bool            `json:"valid"`
	AlreadyRedeemed bool            `json:"already_redeemed"`
	Message         string          `json:"message"`
	Ticket          *TicketResponse `json:"ticket,omitempty"`
}

// RedeemTicketRequest payload.
type RedeemTicketRequest struct {
	TicketID string `json:"ticket_id"`
}

// RedeemTicketResponse confirms a successful redemption.
type RedeemTicketResponse struct {
	Message string          `json:"message"`
	Ticket  *TicketResponse `json:"ticket,omitempty"`
}

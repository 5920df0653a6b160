package domain

import "time"

// TicketStatus enumerates lifecycle states for admission tickets.
type TicketStatus string

const (
	TicketStatusValid    TicketStatus = "Valid"
	TicketStatusRedeemed TicketStatus = "Redeemed"
)

// RedemptionOutcome is the result of an atomic redemption attempt.
type RedemptionOutcome string

const (
	RedemptionRedeemed        RedemptionOutcome = "redeemed"
	RedemptionAlreadyRedeemed RedemptionOutcome = "already_redeemed"
	RedemptionNotFound        RedemptionOutcome = "not_found"
)

// Ticket is a single admission record. The id doubles as the QR payload,
// so knowledge of it alone grants redemption. Status is the only mutable
// field and transitions exactly once, Valid -> Redeemed.
type Ticket struct {
	ID         string
	BuyerName  string
	BuyerEmail *string
	EventName  string
	Status     TicketStatus
	CreatedAt  time.Time
}

// Redeemable reports whether the ticket can still be redeemed.
func (t *Ticket) Redeemable() bool {
	return t.Status == TicketStatusValid
}

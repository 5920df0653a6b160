package events

import (
	"time"

	"github.com/spec-kit/admission-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketIssued   EventType = "ticket_issued"
	EventTicketRedeemed EventType = "ticket_redeemed"
	EventTicketDeleted  EventType = "ticket_deleted"
)

// Event represents a lifecycle event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketIssuedPayload payload.
type TicketIssuedPayload struct {
	BuyerName string `json:"buyer_name"`
	EventName string `json:"event_name"`
}

// TicketRedeemedPayload payload.
type TicketRedeemedPayload struct {
	Outcome domain.RedemptionOutcome `json:"outcome"`
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// RaffleDrawnEvent is published when a raffle draw completes.  It
// carries enough for downstream consumers (live-viewer fan-out,
// notifications, analytics) to act without querying the primary
// database.  Delivery semantics are the consumer's concern; the ledger
// only publishes the fact.
type RaffleDrawnEvent struct {
	RaffleID     uint64 `json:"raffle_id"`
	ChurchID     uint64 `json:"church_id"`
	Title        string `json:"title"`
	Prize        string `json:"prize"`
	TicketNumber uint32 `json:"ticket_number"`
	PurchaserID  uint64 `json:"purchaser_id"`
	SoldTickets  uint32 `json:"sold_tickets"`
	TotalTickets uint32 `json:"total_tickets"`
	DrawnAt      string `json:"drawn_at"`
}

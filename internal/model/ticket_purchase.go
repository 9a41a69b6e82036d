package model

import "time"

// TicketPurchase records one all-or-nothing purchase of ticket numbers
// in a raffle.  The numbers themselves live in the raffle_numbers table
// (one row per sold number) so that uniqueness per raffle can be
// enforced by the database.  AmountCents is always
// len(Numbers) * Raffle.TicketPriceCents.
//
// Fields:
//  ID            – primary key identifier.
//  RaffleID      – raffle the numbers belong to.
//  UserID        – purchaser.
//  Numbers       – the ticket numbers bought in this purchase.
//  PaymentMethod – free-form payment method label recorded verbatim.
//  AmountCents   – total paid in cents.
//  CreatedAt     – purchase timestamp.
type TicketPurchase struct {
	ID            uint64    // ticket_purchases.id
	RaffleID      uint64    // ticket_purchases.raffle_id
	UserID        uint64    // ticket_purchases.user_id
	Numbers       []uint32  // raffle_numbers rows for this purchase
	PaymentMethod string    // ticket_purchases.payment_method
	AmountCents   uint32    // ticket_purchases.amount_cents
	CreatedAt     time.Time // ticket_purchases.created_at
}

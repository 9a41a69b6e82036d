package model

import "time"

// Raffle statuses as stored in the raffles.status column.  A raffle
// starts ACTIVE, becomes SOLD_OUT when the last number is sold, and
// ends in one of the two terminal states DRAWN or CANCELLED.
const (
	RaffleActive    = "ACTIVE"
	RaffleSoldOut   = "SOLD_OUT"
	RaffleDrawn     = "DRAWN"
	RaffleCancelled = "CANCELLED"
)

// Raffle represents a numbered-ticket raffle issued by a church.
// Ticket numbers run from 1 to TotalTickets inclusive and each number
// can be sold exactly once.  The winner fields are populated only
// after a successful draw.
//
// Fields:
//  ID               – primary key identifier.
//  ChurchID         – user ID of the issuing church; sole writer of status/winner.
//  Title            – raffle title shown to members.
//  Description      – optional longer description.
//  Prize            – description of the prize.
//  PrizeImageURL    – optional image URL for the prize.
//  TicketPriceCents – price per ticket in cents.
//  TotalTickets     – fixed size of the number range [1, TotalTickets].
//  Status           – current lifecycle state (see constants above).
//  WinnerNumber     – winning ticket number (nil until drawn).
//  WinnerUserID     – purchaser who owns the winning number (nil until drawn).
//  DrawnAt          – when the draw happened (nil until drawn).
//  EndDate          – optional sales deadline; reservations are rejected after it.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Raffle struct {
	ID               uint64     // raffles.id
	ChurchID         uint64     // raffles.church_id
	Title            string     // raffles.title
	Description      *string    // raffles.description (nullable)
	Prize            string     // raffles.prize
	PrizeImageURL    *string    // raffles.prize_image_url (nullable)
	TicketPriceCents uint32     // raffles.ticket_price_cents
	TotalTickets     uint32     // raffles.total_tickets
	Status           string     // raffles.status
	WinnerNumber     *uint32    // raffles.winner_number (nullable)
	WinnerUserID     *uint64    // raffles.winner_user_id (nullable)
	DrawnAt          *time.Time // raffles.drawn_at (nullable)
	EndDate          *time.Time // raffles.end_date (nullable)
	CreatedAt        time.Time  // raffles.created_at
	UpdatedAt        time.Time  // raffles.updated_at
}

// Winner bundles the outcome of a draw.
type Winner struct {
	TicketNumber uint32    `json:"ticket_number"`
	PurchaserID  uint64    `json:"purchaser_id"`
	DrawnAt      time.Time `json:"drawn_at"`
}

// CanSell reports whether tickets may still be reserved in the given state.
func CanSell(status string) bool { return status == RaffleActive }

// CanDraw reports whether a draw is allowed from the given state.  Sales
// need not be complete: both ACTIVE and SOLD_OUT raffles can be drawn.
func CanDraw(status string) bool {
	return status == RaffleActive || status == RaffleSoldOut
}

// CanCancel reports whether the raffle can still be cancelled.  Terminal
// states (DRAWN, CANCELLED) cannot.
func CanCancel(status string) bool {
	return status == RaffleActive || status == RaffleSoldOut
}

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/connectfe/connectfe-api/internal/model"
	"github.com/connectfe/connectfe-api/internal/repository"
)

// Ledger maintains per-raffle ticket inventory and executes the draw.
// All read-then-write sequences run in a transaction holding the raffle
// row lock, so reservations, draws and cancellations for one raffle are
// serialized while different raffles proceed concurrently.
type Ledger struct {
	db        *sql.DB
	raffles   *repository.RaffleRepo
	purchases *repository.PurchaseRepo
	maxPerBuy int
	now       func() time.Time
}

// New constructs a Ledger.  maxPerBuy bounds the number of tickets in a
// single purchase (policy default 10).
func New(db *sql.DB, raffles *repository.RaffleRepo, purchases *repository.PurchaseRepo, maxPerBuy int) *Ledger {
	if db == nil || raffles == nil || purchases == nil {
		panic("nil dependency passed to ledger.New")
	}
	if maxPerBuy < 1 {
		maxPerBuy = 10
	}
	return &Ledger{
		db:        db,
		raffles:   raffles,
		purchases: purchases,
		maxPerBuy: maxPerBuy,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateRaffle persists a new raffle owned by churchID.  Descriptive
// metadata is validated by the handler; the ledger only guards the
// numeric invariants that the rest of its operations rely on.
func (l *Ledger) CreateRaffle(ctx context.Context, rf *model.Raffle) (*model.Raffle, error) {
	if err := l.raffles.Create(ctx, rf); err != nil {
		return nil, storageErr(err)
	}
	return rf, nil
}

// GetRaffle returns a raffle by id.
func (l *Ledger) GetRaffle(ctx context.Context, raffleID uint64) (*model.Raffle, error) {
	rf, err := l.raffles.GetByID(ctx, raffleID)
	if errors.Is(err, repository.ErrRaffleNotFound) {
		return nil, ErrRaffleNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return rf, nil
}

// ListRaffles returns the raffle catalog, newest first.
func (l *Ledger) ListRaffles(ctx context.Context) ([]model.Raffle, error) {
	out, err := l.raffles.List(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// SoldNumbers returns the sold set for display plus the raffle's total
// ticket count, so grid rendering needs exactly one call.  The read
// runs outside any transaction and may be stale; the authoritative
// membership check happens under the row lock in ReserveTickets.
func (l *Ledger) SoldNumbers(ctx context.Context, raffleID uint64) ([]uint32, uint32, error) {
	rf, err := l.GetRaffle(ctx, raffleID)
	if err != nil {
		return nil, 0, err
	}
	nums, err := l.raffles.SoldNumbers(ctx, raffleID)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return nums, rf.TotalTickets, nil
}

// ReserveTickets allocates the requested numbers to purchaserID, all or
// nothing.  Validation order: raffle exists and is ACTIVE (and inside
// its sales window), request size within policy, numbers in range, no
// number already sold.  On success the purchase record is created, the
// numbers join the sold set, and the raffle flips to SOLD_OUT when the
// last number goes.  Returns the purchase and the new sold count.
func (l *Ledger) ReserveTickets(ctx context.Context, raffleID uint64, numbers []uint32, purchaserID uint64, paymentMethod string) (*model.TicketPurchase, uint32, error) {
	// Deduplicate before the policy check so a request like [3,3]
	// counts as one ticket.  Invalid numbers (including 0) are NOT
	// filtered here: they must reach the range check below so the whole
	// request fails instead of silently allocating a subset.
	unique := make([]uint32, 0, len(numbers))
	seen := make(map[uint32]struct{}, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			unique = append(unique, n)
		}
	}
	if len(unique) == 0 {
		return nil, 0, &NumbersOutOfRangeError{Numbers: numbers}
	}
	if len(unique) > l.maxPerBuy {
		return nil, 0, ErrPurchaseLimitExceeded
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rf, err := l.raffles.GetByIDForUpdateTx(ctx, tx, raffleID)
	if errors.Is(err, repository.ErrRaffleNotFound) {
		return nil, 0, ErrRaffleNotFound
	}
	if err != nil {
		return nil, 0, storageErr(err)
	}
	if !model.CanSell(rf.Status) {
		return nil, 0, ErrRaffleNotActive
	}
	if rf.EndDate != nil && l.now().After(*rf.EndDate) {
		// Sales window closed; the raffle can still be drawn.
		return nil, 0, ErrRaffleNotActive
	}

	var outOfRange []uint32
	for _, n := range unique {
		if n < 1 || n > rf.TotalTickets {
			outOfRange = append(outOfRange, n)
		}
	}
	if len(outOfRange) > 0 {
		return nil, 0, &NumbersOutOfRangeError{Numbers: outOfRange}
	}

	taken, err := l.raffles.TakenAmongTx(ctx, tx, raffleID, unique)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	if len(taken) > 0 {
		return nil, 0, &NumbersSoldError{Numbers: taken}
	}

	rec := &repository.PurchaseRecord{
		RaffleID:      raffleID,
		UserID:        purchaserID,
		PaymentMethod: paymentMethod,
		AmountCents:   uint32(len(unique)) * rf.TicketPriceCents,
	}
	if err := l.purchases.CreateTx(ctx, tx, rec); err != nil {
		return nil, 0, storageErr(err)
	}
	if err := l.raffles.InsertNumbersTx(ctx, tx, raffleID, rec.ID, unique); err != nil {
		return nil, 0, storageErr(err)
	}

	soldCount, err := l.raffles.CountSoldTx(ctx, tx, raffleID)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	if soldCount == rf.TotalTickets {
		if err := l.raffles.UpdateStatusTx(ctx, tx, raffleID, model.RaffleSoldOut); err != nil {
			return nil, 0, storageErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, storageErr(err)
	}
	committed = true

	return &model.TicketPurchase{
		ID:            rec.ID,
		RaffleID:      raffleID,
		UserID:        purchaserID,
		Numbers:       unique,
		PaymentMethod: paymentMethod,
		AmountCents:   rec.AmountCents,
		CreatedAt:     rec.CreatedAt,
	}, soldCount, nil
}

// QuickPick suggests count unsold numbers, uniformly at random and
// without repetition.  Pure read: nothing is reserved until the member
// actually buys the numbers.
func (l *Ledger) QuickPick(ctx context.Context, raffleID uint64, count int) ([]uint32, error) {
	rf, err := l.GetRaffle(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	sold, err := l.raffles.SoldNumbers(ctx, raffleID)
	if err != nil {
		return nil, storageErr(err)
	}
	return quickPick(rf.TotalTickets, sold, count)
}

// DrawWinner selects one sold number uniformly at random and closes the
// raffle.  Only the issuing church may draw.  A second call on a drawn
// raffle returns the stored winner inside AlreadyDrawnError; the
// randomness is never retried.
func (l *Ledger) DrawWinner(ctx context.Context, raffleID, callerID uint64) (*model.Winner, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rf, err := l.raffles.GetByIDForUpdateTx(ctx, tx, raffleID)
	if errors.Is(err, repository.ErrRaffleNotFound) {
		return nil, ErrRaffleNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	if rf.ChurchID != callerID {
		return nil, ErrForbidden
	}
	if rf.Status == model.RaffleDrawn {
		if rf.WinnerNumber == nil || rf.WinnerUserID == nil || rf.DrawnAt == nil {
			return nil, storageErr(errors.New("drawn raffle missing winner fields"))
		}
		return nil, &AlreadyDrawnError{Winner: model.Winner{
			TicketNumber: *rf.WinnerNumber,
			PurchaserID:  *rf.WinnerUserID,
			DrawnAt:      *rf.DrawnAt,
		}}
	}
	if !model.CanDraw(rf.Status) {
		return nil, ErrRaffleNotActive
	}

	sold, err := l.raffles.SoldNumbersTx(ctx, tx, raffleID)
	if err != nil {
		return nil, storageErr(err)
	}
	if len(sold) == 0 {
		return nil, ErrNoParticipants
	}

	winning, err := pickWinner(sold)
	if err != nil {
		return nil, err
	}
	ownerID, err := l.raffles.OwnerOfNumberTx(ctx, tx, raffleID, winning)
	if err != nil {
		return nil, storageErr(err)
	}
	drawnAt := l.now().Truncate(time.Second)
	if err := l.raffles.SetWinnerTx(ctx, tx, raffleID, winning, ownerID, drawnAt); err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr(err)
	}
	committed = true

	return &model.Winner{TicketNumber: winning, PurchaserID: ownerID, DrawnAt: drawnAt}, nil
}

// CancelRaffle moves an ACTIVE or SOLD_OUT raffle to CANCELLED.  Prior
// purchases become refund-eligible; executing refunds is a collaborator
// concern, the ledger only flips the state.
func (l *Ledger) CancelRaffle(ctx context.Context, raffleID, callerID uint64) (*model.Raffle, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rf, err := l.raffles.GetByIDForUpdateTx(ctx, tx, raffleID)
	if errors.Is(err, repository.ErrRaffleNotFound) {
		return nil, ErrRaffleNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	if rf.ChurchID != callerID {
		return nil, ErrForbidden
	}
	if !model.CanCancel(rf.Status) {
		return nil, ErrRaffleNotActive
	}
	if err := l.raffles.UpdateStatusTx(ctx, tx, raffleID, model.RaffleCancelled); err != nil {
		return nil, storageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr(err)
	}
	committed = true

	rf.Status = model.RaffleCancelled
	return rf, nil
}

package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// PurchaseRepo provides persistence for ticket purchases.  A purchase
// groups the numbers bought in one request; the numbers themselves are
// rows in raffle_numbers handled by RaffleRepo.
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepo returns a PurchaseRepo bound to the given database.
func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// PurchaseRecord mirrors the ticket_purchases table.
type PurchaseRecord struct {
	ID            uint64
	RaffleID      uint64
	UserID        uint64
	PaymentMethod string
	AmountCents   uint32
	CreatedAt     time.Time
}

// CreateTx inserts a purchase within an existing transaction and
// populates the generated ID and creation timestamp on the record.
// The caller commits or rolls back.
func (r *PurchaseRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *PurchaseRecord) error {
	const q = `INSERT INTO ticket_purchases (raffle_id, user_id, payment_method, amount_cents) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.RaffleID, p.UserID, p.PaymentMethod, p.AmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at FROM ticket_purchases WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// PurchaseDetail is a purchase with its numbers and raffle metadata, as
// returned to customers and church dashboards.
type PurchaseDetail struct {
	ID            uint64    `json:"id"`
	RaffleID      uint64    `json:"raffle_id"`
	UserID        uint64    `json:"user_id"`
	RaffleTitle   string    `json:"raffle_title"`
	Numbers       []uint32  `json:"numbers"`
	PaymentMethod string    `json:"payment_method"`
	AmountCents   uint32    `json:"amount_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListByUser returns all purchases made by the given user, newest
// first, with their numbers populated in a second query.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID uint64) ([]PurchaseDetail, error) {
	const q = `SELECT tp.id, tp.raffle_id, tp.user_id, rf.title, tp.payment_method, tp.amount_cents, tp.created_at
	           FROM ticket_purchases tp
	           JOIN raffles rf ON rf.id = tp.raffle_id
	           WHERE tp.user_id = ?
	           ORDER BY tp.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectDetails(ctx, rows)
}

// ListByRaffleForChurch returns all purchases of a raffle for its
// issuing church.  It verifies ownership first: sql.ErrNoRows when the
// raffle does not exist, ErrForbidden when it belongs to another
// account.
func (r *PurchaseRepo) ListByRaffleForChurch(ctx context.Context, raffleID, churchID uint64) ([]PurchaseDetail, error) {
	var actualChurchID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT church_id FROM raffles WHERE id = ?`, raffleID).Scan(&actualChurchID)
	if err != nil {
		return nil, err
	}
	if actualChurchID != churchID {
		return nil, ErrForbidden
	}
	const q = `SELECT tp.id, tp.raffle_id, tp.user_id, rf.title, tp.payment_method, tp.amount_cents, tp.created_at
	           FROM ticket_purchases tp
	           JOIN raffles rf ON rf.id = tp.raffle_id
	           WHERE tp.raffle_id = ?
	           ORDER BY tp.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, raffleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectDetails(ctx, rows)
}

// collectDetails scans purchase rows and fills the numbers of every
// purchase with a single IN query.
func (r *PurchaseRepo) collectDetails(ctx context.Context, rows *sql.Rows) ([]PurchaseDetail, error) {
	details := make([]PurchaseDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d PurchaseDetail
		if err := rows.Scan(&d.ID, &d.RaffleID, &d.UserID, &d.RaffleTitle,
			&d.PaymentMethod, &d.AmountCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Numbers = []uint32{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	numQuery := `SELECT purchase_id, number FROM raffle_numbers
	             WHERE purchase_id IN (` + strings.Join(placeholders, ",") + `)
	             ORDER BY purchase_id, number`
	nrows, err := r.db.QueryContext(ctx, numQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer nrows.Close()
	for nrows.Next() {
		var pid uint64
		var num uint32
		if err := nrows.Scan(&pid, &num); err != nil {
			return nil, err
		}
		if idx, ok := index[pid]; ok {
			details[idx].Numbers = append(details[idx].Numbers, num)
		}
	}
	return details, nrows.Err()
}

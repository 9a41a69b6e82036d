package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/connectfe/connectfe-api/internal/model"
)

// RaffleRepo manages persistence for raffles and their sold numbers.
// Sold numbers live in the raffle_numbers table with a
// UNIQUE(raffle_id, number) key, so the database itself rejects a
// double-sell even if two transactions ever race past the row lock.
type RaffleRepo struct {
	db *sql.DB
}

// NewRaffleRepo returns a RaffleRepo bound to the given database.
func NewRaffleRepo(db *sql.DB) *RaffleRepo { return &RaffleRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *RaffleRepo) DB() *sql.DB { return r.db }

const raffleColumns = `id, church_id, title, description, prize, prize_image_url,
       ticket_price_cents, total_tickets, status, winner_number, winner_user_id,
       drawn_at, end_date, created_at, updated_at`

func scanRaffle(row interface{ Scan(...interface{}) error }) (*model.Raffle, error) {
	var (
		rf         model.Raffle
		desc       sql.NullString
		imageURL   sql.NullString
		winnerNum  sql.NullInt64
		winnerUser sql.NullInt64
		drawnAt    sql.NullTime
		endDate    sql.NullTime
	)
	err := row.Scan(
		&rf.ID, &rf.ChurchID, &rf.Title, &desc, &rf.Prize, &imageURL,
		&rf.TicketPriceCents, &rf.TotalTickets, &rf.Status, &winnerNum, &winnerUser,
		&drawnAt, &endDate, &rf.CreatedAt, &rf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		rf.Description = &d
	}
	if imageURL.Valid {
		u := imageURL.String
		rf.PrizeImageURL = &u
	}
	if winnerNum.Valid {
		n := uint32(winnerNum.Int64)
		rf.WinnerNumber = &n
	}
	if winnerUser.Valid {
		u := uint64(winnerUser.Int64)
		rf.WinnerUserID = &u
	}
	if drawnAt.Valid {
		t := drawnAt.Time.UTC()
		rf.DrawnAt = &t
	}
	if endDate.Valid {
		t := endDate.Time.UTC()
		rf.EndDate = &t
	}
	return &rf, nil
}

// Create inserts a new raffle and populates the generated ID and
// DB-default fields (status, timestamps) on the provided struct.
func (r *RaffleRepo) Create(ctx context.Context, rf *model.Raffle) error {
	const q = `INSERT INTO raffles
	           (church_id, title, description, prize, prize_image_url, ticket_price_cents, total_tickets, end_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var end interface{}
	if rf.EndDate != nil {
		end = rf.EndDate.UTC().Format("2006-01-02 15:04:05")
	}
	res, err := r.db.ExecContext(ctx, q,
		rf.ChurchID, rf.Title, rf.Description, rf.Prize, rf.PrizeImageURL,
		rf.TicketPriceCents, rf.TotalTickets, end)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rf = *created
	return nil
}

// GetByID fetches a raffle by id. Returns ErrRaffleNotFound when no row
// exists.
func (r *RaffleRepo) GetByID(ctx context.Context, id uint64) (*model.Raffle, error) {
	rf, err := scanRaffle(r.db.QueryRowContext(ctx,
		`SELECT `+raffleColumns+` FROM raffles WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrRaffleNotFound
	}
	return rf, err
}

// GetByIDForUpdateTx loads a raffle within a transaction and locks its
// row.  Every read-then-write sequence over soldNumbers or status
// (reserve, draw, cancel) goes through this lock, which serializes
// writers per raffle while leaving other raffles untouched.
func (r *RaffleRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Raffle, error) {
	rf, err := scanRaffle(tx.QueryRowContext(ctx,
		`SELECT `+raffleColumns+` FROM raffles WHERE id = ? FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, ErrRaffleNotFound
	}
	return rf, err
}

// List returns all raffles, newest first.
func (r *RaffleRepo) List(ctx context.Context) ([]model.Raffle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+raffleColumns+` FROM raffles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Raffle, 0)
	for rows.Next() {
		rf, err := scanRaffle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rf)
	}
	return out, rows.Err()
}

// SoldNumbers returns the sold set for grid display, ascending.  This
// read is allowed to be stale (it runs outside any transaction); the
// authoritative check happens under the row lock during reservation.
func (r *RaffleRepo) SoldNumbers(ctx context.Context, raffleID uint64) ([]uint32, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT number FROM raffle_numbers WHERE raffle_id = ? ORDER BY number`, raffleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	nums := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, rows.Err()
}

// SoldNumbersTx is SoldNumbers within a transaction, used by the draw
// and by quick-pick when a consistent snapshot is wanted.
func (r *RaffleRepo) SoldNumbersTx(ctx context.Context, tx *sql.Tx, raffleID uint64) ([]uint32, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT number FROM raffle_numbers WHERE raffle_id = ? ORDER BY number`, raffleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	nums := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, rows.Err()
}

// TakenAmongTx returns which of the requested numbers are already sold,
// ascending.  Callers hold the raffle row lock, so the answer cannot be
// invalidated by a concurrent reservation before commit.
func (r *RaffleRepo) TakenAmongTx(ctx context.Context, tx *sql.Tx, raffleID uint64, numbers []uint32) ([]uint32, error) {
	if len(numbers) == 0 {
		return []uint32{}, nil
	}
	placeholders := make([]string, 0, len(numbers))
	args := make([]interface{}, 0, len(numbers)+1)
	args = append(args, raffleID)
	for _, n := range numbers {
		placeholders = append(placeholders, "?")
		args = append(args, n)
	}
	q := `SELECT number FROM raffle_numbers WHERE raffle_id = ? AND number IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY number`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taken := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		taken = append(taken, n)
	}
	return taken, rows.Err()
}

// CountSoldTx returns |soldNumbers| within the transaction.
func (r *RaffleRepo) CountSoldTx(ctx context.Context, tx *sql.Tx, raffleID uint64) (uint32, error) {
	var n uint32
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM raffle_numbers WHERE raffle_id = ?`, raffleID).Scan(&n)
	return n, err
}

// InsertNumbersTx bulk-inserts sold numbers for a purchase in a single
// statement.  The UNIQUE(raffle_id, number) key makes this the atomic
// "mark sold" step: if any number slipped in concurrently the whole
// statement fails and the caller rolls back, selling nothing.
func (r *RaffleRepo) InsertNumbersTx(ctx context.Context, tx *sql.Tx, raffleID, purchaseID uint64, numbers []uint32) error {
	if len(numbers) == 0 {
		return nil
	}
	query := `INSERT INTO raffle_numbers (raffle_id, number, purchase_id) VALUES `
	args := make([]interface{}, 0, len(numbers)*3)
	for i, n := range numbers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, raffleID, n, purchaseID)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// UpdateStatusTx sets the raffle status within the transaction.
func (r *RaffleRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, raffleID uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE raffles SET status = ? WHERE id = ?`, status, raffleID)
	return err
}

// SetWinnerTx records the draw outcome and moves the raffle to DRAWN in
// one statement so the winner and the terminal state commit together.
func (r *RaffleRepo) SetWinnerTx(ctx context.Context, tx *sql.Tx, raffleID uint64, number uint32, userID uint64, drawnAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE raffles SET status = ?, winner_number = ?, winner_user_id = ?, drawn_at = ? WHERE id = ?`,
		model.RaffleDrawn, number, userID, drawnAt.UTC().Format("2006-01-02 15:04:05"), raffleID)
	return err
}

// OwnerOfNumberTx resolves the purchaser who bought a specific number.
// Used by the draw to attribute the winning ticket.
func (r *RaffleRepo) OwnerOfNumberTx(ctx context.Context, tx *sql.Tx, raffleID uint64, number uint32) (uint64, error) {
	const q = `SELECT tp.user_id
	           FROM raffle_numbers rn
	           JOIN ticket_purchases tp ON tp.id = rn.purchase_id
	           WHERE rn.raffle_id = ? AND rn.number = ?`
	var userID uint64
	err := tx.QueryRowContext(ctx, q, raffleID, number).Scan(&userID)
	return userID, err
}
